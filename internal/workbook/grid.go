package workbook

import (
	"strconv"
	"strings"
)

// Kind is the type of a decoded cell
type Kind uint8

const (
	Empty Kind = iota
	String
	Number
	Bool
	Error
	Date
)

// Cell is one typed spreadsheet cell
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
}

// StringCell creates a text cell
func StringCell(text string) Cell {
	return Cell{Kind: String, Text: text}
}

// NumberCell creates a numeric cell
func NumberCell(value float64) Cell {
	return Cell{Kind: Number, Number: value}
}

// IsEmpty reports whether the cell holds no value
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// String renders the cell value the way it is written to output files.
// Numbers use the shortest representation that round-trips.
func (c Cell) String() string {
	switch c.Kind {
	case Empty:
		return ""
	case Number:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return c.Text
	}
}

// Grid is a rectangular view over the cells of one sheet. Reads outside the
// populated area return an empty cell.
type Grid struct {
	rows  [][]Cell
	width int
}

// NewGrid wraps decoded rows. Rows may be ragged.
func NewGrid(rows [][]Cell) *Grid {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return &Grid{rows: rows, width: width}
}

// GridFromText builds a grid from plain strings, the format used by test
// fixtures. Empty strings become empty cells and numeric strings become
// numbers.
func GridFromText(rows [][]string) *Grid {
	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]Cell, len(row))
		for c, value := range row {
			cells[r][c] = textCell(value)
		}
	}
	return NewGrid(cells)
}

func textCell(value string) Cell {
	if value == "" {
		return Cell{}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return NumberCell(f)
	}
	return StringCell(value)
}

// Height is the number of rows
func (g *Grid) Height() int {
	return len(g.rows)
}

// Width is the number of columns of the widest row
func (g *Grid) Width() int {
	return g.width
}

// IsEmpty reports whether the grid has no cells at all
func (g *Grid) IsEmpty() bool {
	return g.Height() == 0 || g.Width() == 0
}

// At returns the cell at the zero-based row and column
func (g *Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g.rows) {
		return Cell{}
	}
	r := g.rows[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Sheet is a named grid from a workbook
type Sheet struct {
	Name string
	Grid *Grid
}
