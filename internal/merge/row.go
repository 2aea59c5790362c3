package merge

// value is one observation and the rank of the source it came from
type value struct {
	text string
	rank int
}

// RowData holds the values observed for one timestamp, keyed by column.
// Every value in a row built by a single source carries that source's rank.
type RowData struct {
	values map[Column]value
	rank   int
}

// NewRow creates an empty row for a source of the given precedence rank.
// Higher ranks win conflicts; equal ranks resolve to the last write.
func NewRow(rank int) *RowData {
	return &RowData{values: make(map[Column]value), rank: rank}
}

// Set records the value of a column
func (r *RowData) Set(column Column, text string) {
	r.values[column] = value{text: text, rank: r.rank}
}

// Get returns the value of a column
func (r *RowData) Get(column Column) (string, bool) {
	v, ok := r.values[column]
	return v.text, ok
}

// Len is the number of populated columns
func (r *RowData) Len() int {
	return len(r.values)
}

// Rank is the precedence of the source that built the row
func (r *RowData) Rank() int {
	return r.rank
}

// Columns lists the populated columns in no particular order
func (r *RowData) Columns() []Column {
	columns := make([]Column, 0, len(r.values))
	for c := range r.values {
		columns = append(columns, c)
	}
	return columns
}

// combine folds incoming into r. Columns present in only one row are kept;
// for shared columns the incoming value replaces the existing one unless the
// existing value came from a higher ranked source.
func (r *RowData) combine(incoming *RowData) {
	for c, in := range incoming.values {
		if existing, ok := r.values[c]; ok && existing.rank > in.rank {
			continue
		}
		r.values[c] = in
	}
	r.rank = max(r.rank, incoming.rank)
}

func (r *RowData) clone() *RowData {
	out := &RowData{values: make(map[Column]value, len(r.values)), rank: r.rank}
	for c, v := range r.values {
		out.values[c] = v
	}
	return out
}
