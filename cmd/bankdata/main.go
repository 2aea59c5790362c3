// Command bankdata downloads the monthly economic trends workbooks and
// condenses them into one CSV time series table per frequency.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/A248/bank-data/internal/config"
	"github.com/A248/bank-data/internal/infrastructure"
	transporthttp "github.com/A248/bank-data/internal/transport/http"
)

const shutdownTimeout = 5 * time.Second

// app carries what every subcommand needs once setup has run
type app struct {
	configPath string
	logLevel   string

	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
	metrics   *infrastructure.Metrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// execute runs the command line in args and releases telemetry afterwards
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer a.close()
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bankdata",
		Short: "Extract time series from Bangladesh Bank economic trends workbooks",
		Long: `bankdata downloads the monthly "Economic Trends" statistical tables and
merges every time series they contain into CSV tables, one per frequency.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file (default: bankdata.yaml if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(a.condenseCommand(), a.downloadCommand())
	return root
}

// setup loads configuration, applies flag overrides, then starts logging and
// telemetry
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return err
	}
	a.providers = providers

	metrics, err := infrastructure.CreateMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	a.metrics = metrics
	return nil
}

// applyFlags copies explicitly set subcommand flags over the loaded
// configuration. Lookups cannot fail once Changed reports the flag.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("data-dir") {
		cfg.Paths.DataDir, _ = fs.GetString("data-dir")
	}
	if fs.Changed("output") {
		cfg.Paths.OutputPrefix, _ = fs.GetString("output")
	}
	if fs.Changed("workers") {
		cfg.Processing.Workers, _ = fs.GetInt("workers")
	}
	if fs.Changed("bom") {
		cfg.Processing.BOM, _ = fs.GetBool("bom")
	}
	if fs.Changed("metrics-addr") {
		cfg.Telemetry.MetricsAddr, _ = fs.GetString("metrics-addr")
	}
	if fs.Changed("from-year") {
		cfg.Download.FromYear, _ = fs.GetInt("from-year")
	}
	if fs.Changed("base-url") {
		cfg.Download.BaseURL, _ = fs.GetString("base-url")
	}
	if fs.Changed("schedule") {
		cfg.Download.Schedule, _ = fs.GetString("schedule")
	}
}

// startMetricsServer serves /health and /metrics when an address is
// configured. The returned stop function is always safe to call.
func (a *app) startMetricsServer() (func(), error) {
	addr := a.cfg.Telemetry.MetricsAddr
	if addr == "" {
		return func() {}, nil
	}
	server := transporthttp.NewMetricsServer(addr, a.providers, a.logger)
	if err := server.Start(); err != nil {
		return nil, err
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			a.logger.Warn("Metrics server shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}

func (a *app) close() {
	if a.providers != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.providers.Shutdown(ctx); err != nil && a.logger != nil {
			a.logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}
	infrastructure.CloseLogFile()
}
