package merge

import "github.com/A248/bank-data/internal/timestamp"

// Table is the exported form of one bucket: sorted columns and rows with
// every missing value filled in.
type Table struct {
	Class   timestamp.Class
	Columns []Column
	Rows    []TableRow
}

// TableRow is one timestamp and its values in column order
type TableRow struct {
	Timestamp timestamp.Timestamp
	Values    []string
}

// Header returns the header record: the timestamp key then dotted column paths
func (t Table) Header() []string {
	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, TimestampHeader)
	for _, c := range t.Columns {
		header = append(header, c.String())
	}
	return header
}

// Record returns row i as a CSV record
func (t Table) Record(i int) []string {
	row := t.Rows[i]
	record := make([]string, 0, len(row.Values)+1)
	record = append(record, row.Timestamp.String())
	return append(record, row.Values...)
}

func (s *Sheet) table() Table {
	t := Table{Class: s.class, Columns: s.Columns()}
	for _, ts := range s.Timestamps() {
		row, _ := s.Row(ts)
		values := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			if v, ok := row.Get(c); ok {
				values[i] = v
			} else {
				values[i] = MissingValue
			}
		}
		t.Rows = append(t.Rows, TableRow{Timestamp: ts, Values: values})
	}
	return t
}
