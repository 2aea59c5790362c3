package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/A248/bank-data/internal/download"
	"github.com/A248/bank-data/internal/files"
)

func (a *app) downloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch missing monthly publications into the data directory",
		Long: `download fetches every monthly publication from the configured first
year through the current month. Files already present are kept. With
--schedule the command keeps running and repeats on a cron schedule.`,
		Args: cobra.NoArgs,
		RunE: a.runDownload,
	}

	cmd.Flags().StringP("data-dir", "d", "", "directory the workbooks are saved to")
	cmd.Flags().Int("from-year", 0, "first year to download")
	cmd.Flags().String("base-url", "", "publication base URL")
	cmd.Flags().String("schedule", "", `cron expression for repeated runs, e.g. "@daily"`)
	cmd.Flags().String("metrics-addr", "", "serve /health and /metrics on this address")
	return cmd
}

func (a *app) runDownload(cmd *cobra.Command, _ []string) error {
	cfg := a.cfg.Download
	skip, err := parseSkipMonths(cfg.SkipMonths)
	if err != nil {
		return err
	}

	manager := files.NewManager(a.cfg.Paths.DataDir)
	if err := manager.EnsureDirectory(""); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	downloader := download.NewDownloader(
		download.NewHTTPFetcher(cfg.Timeout, cfg.RateLimit, cfg.Burst, manager),
		manager,
		download.Options{
			BaseURL:  cfg.BaseURL,
			FromYear: cfg.FromYear,
			Skip:     skip,
			Metrics:  a.metrics,
		})

	job := func(ctx context.Context) error {
		summary, err := downloader.DownloadAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), summary.String())
		return nil
	}

	stopServer, err := a.startMetricsServer()
	if err != nil {
		return err
	}
	defer stopServer()

	if cfg.Schedule == "" {
		return job(cmd.Context())
	}
	scheduler, err := download.NewScheduler(cfg.Schedule)
	if err != nil {
		return err
	}
	return scheduler.Run(cmd.Context(), job)
}

func parseSkipMonths(values []string) ([]download.MonthlyReport, error) {
	skip := make([]download.MonthlyReport, 0, len(values))
	for _, v := range values {
		r, err := download.ParseMonth(v)
		if err != nil {
			return nil, err
		}
		skip = append(skip, r)
	}
	return skip, nil
}
