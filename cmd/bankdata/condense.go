package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/A248/bank-data/internal/dataprocessing"
)

func (a *app) condenseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "condense",
		Short: "Merge every workbook in the data directory into CSV tables",
		Long: `condense reads every .xlsx workbook in the data directory, detects the
time series in each sheet and writes one table per frequency: calendar year,
fiscal year, half-year, quarter and month. Tables are written as
<prefix>-timestamp-<frequency>.csv, for example
bank-data-timestamp-monthly.csv. Later files override earlier ones where
they disagree.`,
		Args: cobra.NoArgs,
		RunE: a.runCondense,
	}

	cmd.Flags().StringP("data-dir", "d", "", "directory holding the input workbooks")
	cmd.Flags().StringP("output", "o", "", "output path prefix; tables are written as <prefix>-timestamp-<frequency>.csv")
	cmd.Flags().IntP("workers", "w", 0, "workbooks decoded concurrently (0 = number of CPUs)")
	cmd.Flags().Bool("bom", false, "start each CSV with a UTF-8 byte order mark")
	cmd.Flags().String("metrics-addr", "", "serve /health and /metrics on this address during the run")
	return cmd
}

func (a *app) runCondense(cmd *cobra.Command, _ []string) error {
	stopServer, err := a.startMetricsServer()
	if err != nil {
		return err
	}
	defer stopServer()

	processor := dataprocessing.NewProcessor(dataprocessing.Options{
		Workers:  a.cfg.Processing.Workers,
		BOM:      a.cfg.Processing.BOM,
		Workbook: a.cfg.WorkbookOptions(),
		Analysis: a.cfg.AnalysisOptions(),
		Metrics:  a.metrics,
		Tracer:   a.providers.Tracer,
	})

	report, err := processor.Condense(cmd.Context(), a.cfg.Paths.DataDir, a.cfg.Paths.OutputPrefix)
	if report != nil {
		fmt.Fprint(cmd.OutOrStdout(), report.String())
	}
	return err
}
