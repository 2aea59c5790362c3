package analysis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A248/bank-data/internal/merge"
	"github.com/A248/bank-data/internal/timestamp"
	"github.com/A248/bank-data/internal/workbook"
)

func fixedNow() time.Time {
	return time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func newTestAnalyzer() *Analyzer {
	return New(Options{Now: fixedNow})
}

func analyze(t *testing.T, rows [][]string) (*Result, *merge.Store, error) {
	t.Helper()
	store := merge.NewStore()
	sheet := workbook.Sheet{Name: "Table 1", Grid: workbook.GridFromText(rows)}
	result, err := newTestAnalyzer().Analyze(context.Background(), Source{File: "2010-12.xlsx"}, sheet, store)
	return result, store, err
}

func exportTables(t *testing.T, store *merge.Store) map[timestamp.Class]merge.Table {
	t.Helper()
	tables, err := store.Export()
	require.NoError(t, err)
	byClass := make(map[timestamp.Class]merge.Table)
	for _, table := range tables {
		byClass[table.Class] = table
	}
	return byClass
}

func TestAnalyze_YearsThenMonths(t *testing.T) {
	rows := [][]string{
		{"Scheduled bank branches"},
		{"End of period", "Branches", "Total"},
		{"2009", "7000", "7100"},
		{"2010", "7200", "7300"},
	}
	for _, m := range []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"} {
		rows = append(rows, []string{m, "1", "2"})
	}
	rows = append(rows, []string{"Source: Statistics Department"})

	result, store, err := analyze(t, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TimestampColumn)
	assert.Equal(t, 2, result.DataStartRow)
	assert.Equal(t, 14, result.RowsMerged)
	assert.Equal(t, []merge.Column{merge.MustColumn("Branches"), merge.MustColumn("Total")}, result.Columns)

	tables := exportTables(t, store)
	require.Len(t, tables, 2)

	yearly := tables[timestamp.CalendarYear]
	require.Len(t, yearly.Rows, 2)
	assert.Equal(t, []string{"2009", "7000", "7100"}, yearly.Record(0))
	assert.Equal(t, []string{"2010", "7200", "7300"}, yearly.Record(1))

	monthly := tables[timestamp.Monthly]
	require.Len(t, monthly.Rows, 12)
	for i, r := range monthly.Rows {
		assert.Equal(t, timestamp.InMonth(2010, time.Month(i+1)), r.Timestamp)
	}
}

func TestAnalyze_NestedHeaderYearsThenMonths(t *testing.T) {
	rows := [][]string{
		{"Period", "Branches"},
		{"", "Total"},
		{"2009", "7000"},
		{"2010", "7200"},
	}
	for i, m := range []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"} {
		rows = append(rows, []string{m, strconv.Itoa(600 + i)})
	}

	result, store, err := analyze(t, rows)
	require.NoError(t, err)
	assert.Equal(t, []merge.Column{merge.MustColumn("Branches", "Total")}, result.Columns)
	assert.Equal(t, 14, result.RowsMerged)

	tables := exportTables(t, store)
	require.Len(t, tables, 2)

	yearly := tables[timestamp.CalendarYear]
	assert.Equal(t, []string{"timestamp-primary-key", "Branches.Total"}, yearly.Header())
	require.Len(t, yearly.Rows, 2)
	assert.Equal(t, []string{"2009", "7000"}, yearly.Record(0))
	assert.Equal(t, []string{"2010", "7200"}, yearly.Record(1))

	monthly := tables[timestamp.Monthly]
	assert.Equal(t, []string{"timestamp-primary-key", "Branches.Total"}, monthly.Header())
	require.Len(t, monthly.Rows, 12)
	assert.Equal(t, []string{"2010-01", "600"}, monthly.Record(0))
	assert.Equal(t, []string{"2010-12", "611"}, monthly.Record(11))
}

func TestAnalyze_FiscalAndQuarters(t *testing.T) {
	rows := [][]string{
		{"Period", "Exports"},
		{"2009-10", "100"},
		{"Jul-Sep", "25"},
		{"Oct-Dec", "26"},
		{"2010-11*", "110"},
		{"Jan-Jun", "55"},
	}
	result, store, err := analyze(t, rows)
	require.NoError(t, err)
	assert.Equal(t, 5, result.RowsMerged)

	tables := exportTables(t, store)
	assert.Len(t, tables[timestamp.FiscalYear].Rows, 2)
	assert.Equal(t, []string{"2009 Jul-Sep", "25"}, tables[timestamp.Quarterly].Record(0))
	assert.Equal(t, []string{"2010 Jan-Jun", "55"}, tables[timestamp.BiAnnual].Record(0))
}

func TestAnalyze_NumericYearsOutsideRange(t *testing.T) {
	rows := [][]string{
		{"Period", "Value"},
		{"1970", "1"},
		{"2024", "2"},
	}
	_, _, err := analyze(t, rows)
	require.Error(t, err)
	assert.Equal(t, KindUnsupported, KindOf(err))
	assert.Equal(t, "Format unsupported: no timestamp found", err.Error())
}

func TestAnalyze_Provisional(t *testing.T) {
	t.Run("before any timestamp", func(t *testing.T) {
		rows := [][]string{
			{"Period", "Value"},
			{"2009-10P", "1"},
			{"2010-11", "2"},
		}
		_, _, err := analyze(t, rows)
		assert.ErrorIs(t, err, ErrNoData)
		assert.Equal(t, "No non-provisional data", err.Error())
	})

	t.Run("calendar year before any timestamp", func(t *testing.T) {
		rows := [][]string{
			{"Period", "V"},
			{"2022P", "1"},
			{"2021", "2"},
		}
		_, store, err := analyze(t, rows)
		assert.ErrorIs(t, err, ErrNoData)
		assert.Empty(t, exportTables(t, store))
	})

	t.Run("calendar year mid table stops reading", func(t *testing.T) {
		rows := [][]string{
			{"Period", "V"},
			{"2021", "1"},
			{"2022P", "2"},
			{"2023", "3"},
		}
		result, store, err := analyze(t, rows)
		require.NoError(t, err)
		assert.Equal(t, 1, result.RowsMerged)
		assert.Len(t, exportTables(t, store)[timestamp.CalendarYear].Rows, 1)
	})

	t.Run("mid table stops reading", func(t *testing.T) {
		rows := [][]string{
			{"Period", "Value"},
			{"2008-09", "1"},
			{"July", "2"},
			{"August(P)", "3"},
			{"September", "4"},
		}
		result, store, err := analyze(t, rows)
		require.NoError(t, err)
		assert.Equal(t, 2, result.RowsMerged)
		tables := exportTables(t, store)
		assert.Len(t, tables[timestamp.Monthly].Rows, 1)
	})
}

func TestAnalyze_BaseYearMarkers(t *testing.T) {
	rows := [][]string{
		{"Period", "CPI"},
		{"2010-11", "100"},
		{"2011-12 (OB)", "200"},
		{"2011-12 (NB)", "105"},
	}
	result, store, err := analyze(t, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowsMerged)
	assert.Equal(t, 1, result.RowsDiscarded)

	fiscal := exportTables(t, store)[timestamp.FiscalYear]
	require.Len(t, fiscal.Rows, 2)
	assert.Equal(t, []string{"2011-12", "105"}, fiscal.Record(1))
}

func TestAnalyze_StopsAtEmptyTimestamp(t *testing.T) {
	rows := [][]string{
		{"Period", "Value"},
		{"2010", "1"},
		{"", "2"},
		{"2011", "3"},
	}
	result, _, err := analyze(t, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsMerged)
}

func TestAnalyze_InvalidTimestamp(t *testing.T) {
	rows := [][]string{
		{"Period", "Value"},
		{"2010", "1"},
		{"Total", "2"},
	}
	result, store, err := analyze(t, rows)
	require.Error(t, err)
	assert.Equal(t, KindUnsupported, KindOf(err))
	assert.Contains(t, err.Error(), "invalid timestamp")
	require.NotNil(t, result)
	assert.Equal(t, 1, result.RowsMerged)
	assert.Len(t, exportTables(t, store)[timestamp.CalendarYear].Rows, 1)
}

func TestAnalyze_BannedPhrase(t *testing.T) {
	rows := [][]string{
		{"Yield on BD(Govt) Treasury Bond"},
		{"Period", "Value"},
		{"2010", "1"},
	}
	_, _, err := analyze(t, rows)
	require.Error(t, err)
	assert.Equal(t, "Format unsupported: Government securities/bonds sheet unsupported", err.Error())
}

func TestAnalyze_StructuralFailures(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{
			name: "data in first row",
			rows: [][]string{{"2010", "1"}},
			want: "no labels possible",
		},
		{
			name: "no period header",
			rows: [][]string{{"Year", "Value"}, {"2010", "1"}},
			want: "unable to find label start",
		},
		{
			name: "no data columns",
			rows: [][]string{{"Period"}, {"2010"}},
			want: "no data columns",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := analyze(t, tt.rows)
			require.Error(t, err)
			assert.Equal(t, KindUnsupported, KindOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnalyze_EmptySheet(t *testing.T) {
	store := merge.NewStore()
	_, err := newTestAnalyzer().Analyze(context.Background(), Source{}, workbook.Sheet{Name: "Empty", Grid: workbook.NewGrid(nil)}, store)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAnalyze_SkippableLabelEndsHeader(t *testing.T) {
	rows := [][]string{
		{"Period", "Food", "Non-food"},
		{"Weight", "58.84", "41.16"},
		{"2010", "110", "120"},
	}
	result, _, err := analyze(t, rows)
	require.NoError(t, err)
	assert.Equal(t, []merge.Column{merge.MustColumn("Food"), merge.MustColumn("Non-food")}, result.Columns)
}

func TestAnalyze_FillRatio(t *testing.T) {
	header := []string{"Period"}
	full := []string{"2010"}
	sparse := []string{"2011"}
	empty := []string{"2012"}
	for i := 0; i < 10; i++ {
		header = append(header, string(rune('A'+i)))
		full = append(full, "1")
		if i < 5 {
			sparse = append(sparse, "1")
		} else {
			sparse = append(sparse, "")
		}
		if i == 0 {
			empty = append(empty, "1")
		} else {
			empty = append(empty, "")
		}
	}
	result, store, err := analyze(t, [][]string{header, full, sparse, empty})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowsMerged)
	assert.Equal(t, 1, result.RowsSparse)
	assert.Equal(t, 1, result.RowsDiscarded)

	yearly := exportTables(t, store)[timestamp.CalendarYear]
	require.Len(t, yearly.Rows, 2)
	assert.Equal(t, "NA", yearly.Rows[1].Values[9])
}

func TestAnalyze_RankedSources(t *testing.T) {
	store := merge.NewStore()
	a := newTestAnalyzer()
	older := workbook.Sheet{Name: "T", Grid: workbook.GridFromText([][]string{{"Period", "Value"}, {"2010", "1"}})}
	newer := workbook.Sheet{Name: "T", Grid: workbook.GridFromText([][]string{{"Period", "Value"}, {"2010", "2"}})}

	_, err := a.Analyze(context.Background(), Source{File: "b.xlsx", Rank: 2}, newer, store)
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), Source{File: "a.xlsx", Rank: 1}, older, store)
	require.NoError(t, err)

	yearly := exportTables(t, store)[timestamp.CalendarYear]
	assert.Equal(t, []string{"2010", "2"}, yearly.Record(0))
}

func TestAnalyze_ClosedStore(t *testing.T) {
	store := merge.NewStore()
	store.Close()
	sheet := workbook.Sheet{Name: "T", Grid: workbook.GridFromText([][]string{{"Period", "Value"}, {"2010", "1"}})}
	_, err := newTestAnalyzer().Analyze(context.Background(), Source{}, sheet, store)
	require.Error(t, err)
	assert.Equal(t, KindOther, KindOf(err))
	assert.ErrorIs(t, err, merge.ErrStoreClosed)
}
