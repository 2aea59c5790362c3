package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/A248/bank-data/internal/merge"
	"github.com/A248/bank-data/internal/timestamp"
	"github.com/A248/bank-data/internal/workbook"
)

// Default fill ratio thresholds for data rows
const (
	DefaultDiscardBelow = 0.15
	DefaultSparseBelow  = 0.80
)

// RowSink receives the accepted rows of a sheet
type RowSink interface {
	AddRow(ts timestamp.Timestamp, row *merge.RowData) error
}

// Options configures an Analyzer
type Options struct {
	Inspector Inspector
	// DiscardBelow drops rows whose fill ratio is below it
	DiscardBelow float64
	// SparseBelow flags accepted rows whose fill ratio is below it
	SparseBelow float64
	// Now supplies the current year for numeric timestamps
	Now func() time.Time
}

// DefaultOptions uses the default inspector, thresholds and the wall clock
func DefaultOptions() Options {
	return Options{
		Inspector:    DefaultInspector(),
		DiscardBelow: DefaultDiscardBelow,
		SparseBelow:  DefaultSparseBelow,
		Now:          time.Now,
	}
}

// Analyzer extracts timestamped rows from sheets with no fixed schema.
// It holds no per-sheet state and may be shared across goroutines.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer. Zero fields of opts take their defaults.
func New(opts Options) *Analyzer {
	def := DefaultOptions()
	if opts.Inspector == nil {
		opts.Inspector = def.Inspector
	}
	if opts.DiscardBelow == 0 {
		opts.DiscardBelow = def.DiscardBelow
	}
	if opts.SparseBelow == 0 {
		opts.SparseBelow = def.SparseBelow
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Analyzer{opts: opts}
}

// Result describes what one sheet contributed
type Result struct {
	Sheet           string
	TimestampColumn int
	DataStartRow    int
	Columns         []merge.Column
	RowsMerged      int
	RowsDiscarded   int
	RowsSparse      int
}

// Source identifies where a sheet came from and its merge precedence
type Source struct {
	File string
	Rank int
}

// layout is what the header scan learns about a supported sheet
type layout struct {
	grid         *workbook.Grid
	startYear    timestamp.Yearly
	dataStartRow int
	tsCol        int
	maxYear      int
}

// Analyze locates the timestamp column and header of the sheet, rebuilds the
// column paths and streams every data row into sink. Failures are returned
// as *Error; rows merged before a failure stay merged.
func (a *Analyzer) Analyze(ctx context.Context, src Source, sheet workbook.Sheet, sink RowSink) (*Result, error) {
	logger := slog.With(slog.String("file", src.File), slog.String("sheet", sheet.Name))

	if sheet.Grid == nil || sheet.Grid.IsEmpty() {
		return nil, ErrNoData
	}
	currentYear := a.opts.Now().Year()

	l, err := a.findFirstTimestamp(sheet.Grid, currentYear)
	if err != nil {
		return nil, err
	}
	top, bottom, err := a.findLabelRange(l)
	if err != nil {
		return nil, err
	}
	columns, err := loadColumns(l, top, bottom)
	if err != nil {
		return nil, err
	}

	paths := make([]merge.Column, len(columns))
	for i, c := range columns {
		paths[i] = c.column
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		names := make([]string, len(paths))
		for i, p := range paths {
			names[i] = p.String()
		}
		logger.DebugContext(ctx, "Loaded columns",
			slog.Int("timestamp_column", l.tsCol),
			slog.Int("data_start_row", l.dataStartRow),
			slog.String("columns", strings.Join(names, ", ")))
	}

	result := &Result{
		Sheet:           sheet.Name,
		TimestampColumn: l.tsCol,
		DataStartRow:    l.dataStartRow,
		Columns:         paths,
	}
	if err := a.readRows(l, columns, src.Rank, sink, result); err != nil {
		return result, err
	}

	logger.DebugContext(ctx, "Analyzed sheet",
		slog.Int("rows_merged", result.RowsMerged),
		slog.Int("rows_discarded", result.RowsDiscarded),
		slog.Int("rows_sparse", result.RowsSparse))
	return result, nil
}

// findFirstTimestamp scans column by column, top to bottom, for the first
// yearly timestamp. It fixes the timestamp column and the first data row.
func (a *Analyzer) findFirstTimestamp(grid *workbook.Grid, currentYear int) (layout, error) {
	for col := 0; col < grid.Width(); col++ {
		for row := 0; row < grid.Height(); row++ {
			v, err := InterpretCell(grid.At(row, col), a.opts.Inspector, currentYear)
			if err != nil {
				return layout{}, err
			}
			switch v.Kind {
			case CellYearly:
				return layout{grid: grid, startYear: v.Yearly, dataStartRow: row, tsCol: col, maxYear: currentYear}, nil
			case CellProvisional:
				return layout{}, ErrNoData
			}
		}
	}
	return layout{}, Unsupported("no timestamp found")
}

// findLabelRange returns the header rows [top, bottom) above the data. The
// header starts at the "Period" cell of the timestamp column and ends at a
// skippable element or at the data.
func (a *Analyzer) findLabelRange(l layout) (int, int, error) {
	if l.dataStartRow == 0 {
		return 0, 0, Unsupported("data starts in the first row, no labels possible")
	}
	top := -1
	for row := 0; row < l.dataStartRow; row++ {
		cell := l.grid.At(row, l.tsCol)
		if cell.Kind == workbook.String && strings.Contains(strings.ToLower(cell.Text), "period") {
			top = row
			break
		}
	}
	if top < 0 {
		return 0, 0, Unsupported("unable to find label start")
	}
	for row := top; row < l.dataStartRow; row++ {
		cell := l.grid.At(row, l.tsCol)
		if cell.Kind == workbook.String && a.opts.Inspector.Skippable(cell.Text) {
			return top, row, nil
		}
	}
	return top, l.dataStartRow, nil
}
