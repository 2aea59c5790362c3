package dataprocessing

import (
	"fmt"
	"strings"
)

// FileState is the outcome of one input file
type FileState int

const (
	// FileLoaded means every sheet was merged
	FileLoaded FileState = iota
	// FileFailed means the file or at least one sheet failed
	FileFailed
	// FileLegacyFormat marks .xls workbooks, which cannot be decoded
	FileLegacyFormat
	// FileUnsupported marks files that are not workbooks
	FileUnsupported
)

// String returns the label used in logs and metrics
func (s FileState) String() string {
	switch s {
	case FileLoaded:
		return "loaded"
	case FileFailed:
		return "failed"
	case FileLegacyFormat:
		return "xls"
	case FileUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// FileStatus describes what one input file contributed to the run
type FileStatus struct {
	Name          string
	Path          string
	State         FileState
	SheetsLoaded  int
	Failures      []string
	RowsMerged    int
	RowsDiscarded int
	RowsSparse    int
}

// Report summarizes a condense run
type Report struct {
	// Files in name order
	Files []FileStatus
	// Outputs lists the CSV files written by Condense
	Outputs []string
}

// Succeeded counts files whose sheets all loaded
func (r *Report) Succeeded() int {
	return r.count(FileLoaded)
}

// SheetsLoaded counts sheets merged across all files
func (r *Report) SheetsLoaded() int {
	n := 0
	for _, f := range r.Files {
		n += f.SheetsLoaded
	}
	return n
}

// Totals returns merged, discarded and sparse row counts
func (r *Report) Totals() (merged, discarded, sparse int) {
	for _, f := range r.Files {
		merged += f.RowsMerged
		discarded += f.RowsDiscarded
		sparse += f.RowsSparse
	}
	return merged, discarded, sparse
}

// HasFailures reports whether any file failed
func (r *Report) HasFailures() bool {
	return r.count(FileFailed) > 0
}

func (r *Report) count(state FileState) int {
	n := 0
	for _, f := range r.Files {
		if f.State == state {
			n++
		}
	}
	return n
}

func (r *Report) names(state FileState) []string {
	var names []string
	for _, f := range r.Files {
		if f.State == state {
			names = append(names, f.Name)
		}
	}
	return names
}

// String renders the report shown at the end of a run
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("Loaded and merged rows from input data files.\n-- Report --\n")

	merged, discarded, sparse := r.Totals()
	fmt.Fprintf(&b, "Files loaded: %d of %d, sheets loaded: %d\n", r.Succeeded(), len(r.Files), r.SheetsLoaded())
	fmt.Fprintf(&b, "Rows merged: %d, sparse: %d, discarded: %d\n", merged, sparse, discarded)

	clean := true
	if xls := r.names(FileLegacyFormat); len(xls) > 0 {
		clean = false
		fmt.Fprintf(&b, "XLS files are unsupported. XLS files: %s\n", strings.Join(xls, ", "))
	}
	if other := r.names(FileUnsupported); len(other) > 0 {
		clean = false
		fmt.Fprintf(&b, "Unsupported file formats: %s\n", strings.Join(other, ", "))
	}
	if r.HasFailures() {
		clean = false
		b.WriteString("Failures while loading files:\n")
		for _, f := range r.Files {
			if f.State != FileFailed {
				continue
			}
			fmt.Fprintf(&b, "  %s:\n", f.Name)
			for _, failure := range f.Failures {
				fmt.Fprintf(&b, "    %s\n", failure)
			}
		}
	}
	if clean {
		b.WriteString("All sheets loaded successfully.\n")
	}
	for _, out := range r.Outputs {
		fmt.Fprintf(&b, "Wrote %s\n", out)
	}
	return b.String()
}
