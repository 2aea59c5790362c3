package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_String(t *testing.T) {
	report := &Report{Files: []FileStatus{
		{Name: "2010-12.xlsx", State: FileLoaded, SheetsLoaded: 3, RowsMerged: 40, RowsSparse: 2},
		{Name: "2011-12.xlsx", State: FileFailed, SheetsLoaded: 1, RowsMerged: 10, RowsDiscarded: 1,
			Failures: []string{"Table 9: Format unsupported: Government securities/bonds sheet unsupported", "Table 12: No non-provisional data"}},
		{Name: "2012-01.xls", State: FileLegacyFormat},
		{Name: "notes.txt", State: FileUnsupported},
	}}

	want := "Loaded and merged rows from input data files.\n" +
		"-- Report --\n" +
		"Files loaded: 1 of 4, sheets loaded: 4\n" +
		"Rows merged: 50, sparse: 2, discarded: 1\n" +
		"XLS files are unsupported. XLS files: 2012-01.xls\n" +
		"Unsupported file formats: notes.txt\n" +
		"Failures while loading files:\n" +
		"  2011-12.xlsx:\n" +
		"    Table 9: Format unsupported: Government securities/bonds sheet unsupported\n" +
		"    Table 12: No non-provisional data\n"
	assert.Equal(t, want, report.String())
	assert.True(t, report.HasFailures())
}

func TestReport_Clean(t *testing.T) {
	report := &Report{
		Files:   []FileStatus{{Name: "2010-12.xlsx", State: FileLoaded, SheetsLoaded: 2}},
		Outputs: []string{"out-timestamp-monthly.csv"},
	}
	text := report.String()
	assert.Contains(t, text, "All sheets loaded successfully.\n")
	assert.Contains(t, text, "Wrote out-timestamp-monthly.csv\n")
	assert.False(t, report.HasFailures())
}

func TestFileState_String(t *testing.T) {
	assert.Equal(t, "loaded", FileLoaded.String())
	assert.Equal(t, "failed", FileFailed.String())
	assert.Equal(t, "xls", FileLegacyFormat.String())
	assert.Equal(t, "unsupported", FileUnsupported.String())
	assert.Equal(t, "unknown", FileState(42).String())
}
