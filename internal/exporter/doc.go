// Package exporter writes merged bank data to CSV files.
//
// CSVWriter is the low level writer with optional UTF-8 BOM for Excel
// compatibility. TableExporter writes one file per frequency class:
//
//	tables, err := store.Export()
//	paths, err := exporter.NewTableExporter(exporter.NewCSVWriter(false)).
//		Export(ctx, "output/bank-data", tables)
//
// The files are named "{prefix}-timestamp-{slug}.csv", e.g.
// "output/bank-data-timestamp-monthly.csv". The first column holds the
// timestamp, the remaining columns the dotted category paths, and missing
// values are written as "NA".
package exporter
