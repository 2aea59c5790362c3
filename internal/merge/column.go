package merge

import (
	"errors"
	"strconv"
	"strings"
	"unique"
)

// ErrEmptyColumn is returned when a column is built without any labels
var ErrEmptyColumn = errors.New("column label path is empty")

// pathSeparator joins labels inside an interned column key. Cell text never
// contains it.
const pathSeparator = "\x1f"

// ColumnLabel is one trimmed, interned header token. Equal labels share
// storage across every sheet and file of a run.
type ColumnLabel struct {
	h unique.Handle[string]
}

// NewLabel trims text and interns it. It reports false for whitespace-only
// text and for small integers (0-255), which the publisher writes above
// columns as running numbers rather than categories.
func NewLabel(text string) (ColumnLabel, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ColumnLabel{}, false
	}
	if _, err := strconv.ParseUint(strings.TrimPrefix(text, "+"), 10, 8); err == nil {
		return ColumnLabel{}, false
	}
	return ColumnLabel{h: unique.Make(text)}, true
}

func (l ColumnLabel) String() string {
	if l == (ColumnLabel{}) {
		return ""
	}
	return l.h.Value()
}

// Column is a category path from the broadest header down to the leaf, e.g.
// "Scheduled Banks" > "Branches" > "Rural". Columns are comparable and are
// equal when their full paths are equal.
type Column struct {
	key unique.Handle[string]
}

// NewColumn builds a column from its label path, top to bottom
func NewColumn(labels ...ColumnLabel) (Column, error) {
	if len(labels) == 0 {
		return Column{}, ErrEmptyColumn
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String()
	}
	return Column{key: unique.Make(strings.Join(parts, pathSeparator))}, nil
}

// MustColumn builds a column from raw label texts and panics on invalid
// input. Intended for tests and fixed tables.
func MustColumn(texts ...string) Column {
	labels := make([]ColumnLabel, 0, len(texts))
	for _, text := range texts {
		l, ok := NewLabel(text)
		if !ok {
			panic("invalid column label " + strconv.Quote(text))
		}
		labels = append(labels, l)
	}
	c, err := NewColumn(labels...)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the path joined with '.', the form used in export headers
func (c Column) String() string {
	if c == (Column{}) {
		return ""
	}
	return strings.ReplaceAll(c.key.Value(), pathSeparator, ".")
}

func (c Column) rawKey() string {
	return c.key.Value()
}
