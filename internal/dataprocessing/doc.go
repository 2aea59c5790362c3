// Package dataprocessing runs a condense pass over a directory of published
// workbooks. It consolidates discovery, decoding, sheet analysis and export
// into one pipeline that feeds a single aggregation store.
//
// # Architecture
//
//	Discovery → Decoder (bounded pool) → Analyzer (per sheet) → Store → Exporter
//
// Every input file runs in its own goroutine. Decoding is CPU and memory
// heavy, so it holds a slot of a weighted semaphore sized by the configured
// worker count. Sheets of one file are analyzed in order.
//
// # Usage
//
//	processor := dataprocessing.NewProcessor(dataprocessing.Options{
//	    Workers:  4,
//	    Analysis: cfg.AnalysisOptions(),
//	    Workbook: cfg.WorkbookOptions(),
//	})
//	report, err := processor.Condense(ctx, "data", "output/bank-data")
//	fmt.Println(report)
//
// # Error Handling
//
// Per-sheet and per-file failures never stop the run; they are collected in
// the Report. Only cancellation and broken store invariants abort it.
package dataprocessing
