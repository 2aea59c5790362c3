package workbook

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Options controls which sheets of a workbook are decoded
type Options struct {
	// SkippedSheets are sheet names that never hold data, e.g. "Contents"
	SkippedSheets []string
	// SkippedSheetPrefixes exclude every sheet whose name starts with one of them
	SkippedSheetPrefixes []string
}

// DefaultOptions skips the cover, table of contents and appendix sheets of
// the monthly publication.
func DefaultOptions() Options {
	return Options{
		SkippedSheets:        []string{"Cover Page", "Contents"},
		SkippedSheetPrefixes: []string{"Appendix"},
	}
}

// Skips reports whether a sheet is excluded before analysis
func (o Options) Skips(name string) bool {
	for _, skipped := range o.SkippedSheets {
		if name == skipped {
			return true
		}
	}
	for _, prefix := range o.SkippedSheetPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Open decodes every non-skipped sheet of the workbook at path. Decoding is
// CPU-bound; callers running many files should bound concurrency.
func Open(path string, opts Options) ([]Sheet, error) {
	slog.Info("Loading workbook", slog.String("file_path", path))

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		if opts.Skips(name) {
			slog.Debug("Skipping sheet", slog.String("file_path", path), slog.String("sheet", name))
			continue
		}
		grid, err := decodeSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q of %s: %w", name, path, err)
		}
		sheets = append(sheets, Sheet{Name: name, Grid: grid})
	}

	slog.Info("Loaded workbook",
		slog.String("file_path", path),
		slog.Int("sheet_count", len(sheets)))
	return sheets, nil
}

func decodeSheet(f *excelize.File, name string) (*Grid, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]Cell, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, err
			}
			cells[r][c] = typedCell(cellType, raw)
		}
	}
	return NewGrid(cells), nil
}

// typedCell converts a raw cell value into a Cell. Cells without an explicit
// type attribute are numeric in the file format, but formula results may
// still carry text, so numbers are confirmed by parsing.
func typedCell(cellType excelize.CellType, raw string) Cell {
	switch cellType {
	case excelize.CellTypeBool:
		switch raw {
		case "1":
			return Cell{Kind: Bool, Text: "TRUE"}
		case "0":
			return Cell{Kind: Bool, Text: "FALSE"}
		}
		return Cell{Kind: Bool, Text: raw}
	case excelize.CellTypeError:
		return Cell{Kind: Error, Text: raw}
	case excelize.CellTypeDate:
		return Cell{Kind: Date, Text: raw}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return StringCell(raw)
	default:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(f)
		}
		return StringCell(raw)
	}
}
