package analysis

import (
	"strings"

	"github.com/A248/bank-data/internal/merge"
	"github.com/A248/bank-data/internal/workbook"
)

// columnInfo is a data column of the sheet and the label found at each
// header row, kept for the next column's look-behind.
type columnInfo struct {
	column merge.Column
	labels map[int]merge.ColumnLabel
	index  int
}

// loadColumns builds the data columns right of the timestamp column, strictly
// left to right. The first column without any label ends the run.
func loadColumns(l layout, top, bottom int) ([]columnInfo, error) {
	var columns []columnInfo
	var previous *columnInfo
	for col := l.tsCol + 1; col < l.grid.Width(); col++ {
		info, ok := columnAt(l.grid, top, bottom, col, previous)
		if !ok {
			break
		}
		columns = append(columns, info)
		previous = &columns[len(columns)-1]
	}
	if len(columns) == 0 {
		return nil, Unsupported("no data columns")
	}
	return columns, nil
}

// columnAt reads the label path of one column. An empty header cell borrows
// the previous column's label at the same row when that row is the top of the
// header, or when both columns sit under the same label one row up. Merged
// header cells are stored only in their leftmost column, so this restores
// nested categories such as "Scheduled Banks > Urban" and
// "Scheduled Banks > Rural".
func columnAt(grid *workbook.Grid, top, bottom, col int, previous *columnInfo) (columnInfo, bool) {
	info := columnInfo{labels: make(map[int]merge.ColumnLabel), index: col}
	var path []merge.ColumnLabel

	for row := top; row < bottom; row++ {
		cell := grid.At(row, col)
		var (
			label merge.ColumnLabel
			ok    bool
		)
		if text := cell.String(); cell.IsEmpty() || strings.TrimSpace(text) == "" {
			label, ok = borrowLabel(info, previous, top, row)
		} else {
			label, ok = merge.NewLabel(text)
		}
		if ok {
			path = append(path, label)
			info.labels[row] = label
		}
	}
	if len(path) == 0 {
		return columnInfo{}, false
	}
	column, err := merge.NewColumn(path...)
	if err != nil {
		return columnInfo{}, false
	}
	info.column = column
	return info, true
}

func borrowLabel(current columnInfo, previous *columnInfo, top, row int) (merge.ColumnLabel, bool) {
	if previous == nil || previous.index != current.index-1 {
		return merge.ColumnLabel{}, false
	}
	candidate, ok := previous.labels[row]
	if !ok {
		return merge.ColumnLabel{}, false
	}
	if row == top {
		return candidate, true
	}
	parent, hasParent := previous.labels[row-1]
	ownParent, hasOwnParent := current.labels[row-1]
	if hasParent != hasOwnParent || parent != ownParent {
		return merge.ColumnLabel{}, false
	}
	return candidate, true
}
