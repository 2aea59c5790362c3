package analysis

import (
	"strings"

	"github.com/A248/bank-data/internal/merge"
	"github.com/A248/bank-data/internal/timestamp"
)

// readRows streams the data rows into sink until the timestamp column runs
// out, reaches a footnote or hits provisional data.
func (a *Analyzer) readRows(l layout, columns []columnInfo, rank int, sink RowSink, result *Result) error {
	currentYear := l.startYear.Year

	for row := l.dataStartRow; row < l.grid.Height(); row++ {
		cell := l.grid.At(row, l.tsCol)
		v, err := InterpretCell(cell, noopInspector{}, l.maxYear)
		if err != nil {
			return err
		}

		var ts timestamp.Timestamp
		switch v.Kind {
		case CellYearly:
			currentYear = v.Yearly.Year
			ts = v.Yearly.Timestamp()
		case CellNeedsContext:
			parsed, err := timestamp.WithYear(currentYear, v.Text)
			if err != nil {
				// Footnotes follow the last data row
				if strings.Contains(v.Text, "Source") || strings.Contains(v.Text, "Note") {
					return nil
				}
				return Unsupportedf("invalid timestamp %q in row %d", v.Text, row+1)
			}
			ts = parsed
		case CellProvisional:
			return nil
		default:
			if cell.IsEmpty() {
				return nil
			}
			if isOldBase(cell) {
				result.RowsDiscarded++
				continue
			}
			return Unsupportedf("invalid timestamp %q in row %d", cell.String(), row+1)
		}

		data := merge.NewRow(rank)
		for _, c := range columns {
			value := l.grid.At(row, c.index)
			if value.IsEmpty() {
				continue
			}
			data.Set(c.column, value.String())
		}

		if data.Len() != len(columns) {
			fill := float64(data.Len()) / float64(len(columns))
			if fill < a.opts.DiscardBelow {
				result.RowsDiscarded++
				continue
			}
			if fill < a.opts.SparseBelow {
				result.RowsSparse++
			}
		}
		if err := sink.AddRow(ts, data); err != nil {
			return OtherFailure(err)
		}
		result.RowsMerged++
	}
	return nil
}

var _ RowSink = (*merge.Store)(nil)
