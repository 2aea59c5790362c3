package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/A248/bank-data/internal/config"
)

const (
	ServiceName    = "bank-data"
	ServiceVersion = "1.0.0"
	MeterName      = "github.com/A248/bank-data"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// NewOTelConfig maps the telemetry section of the application configuration
func NewOTelConfig(cfg config.TelemetryConfig) *OTelConfig {
	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		TraceExporter:  cfg.Traces,
		MetricExporter: cfg.Metrics,
	}
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	return NewOTelConfig(config.Default().Telemetry)
}

// InitializeOTel sets up tracing and metrics. Disabled signals fall back to
// no-op implementations so callers never check for nil.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}

	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{
		Tracer: otel.Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.InfoContext(ctx, "OpenTelemetry initialization complete",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized", slog.String("exporter", cfg.TraceExporter))
	return nil
}

// initializeMetrics sets up OpenTelemetry metrics on a private Prometheus
// registry
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		otel.SetMeterProvider(mp)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.InfoContext(ctx, "Metrics initialized", slog.String("exporter", cfg.MetricExporter))
	return nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// Metrics holds the instruments recorded by condense and download runs
type Metrics struct {
	FilesProcessed metric.Int64Counter
	SheetsAnalyzed metric.Int64Counter
	RowsMerged     metric.Int64Counter
	RowsDiscarded  metric.Int64Counter
	RowsSparse     metric.Int64Counter
	Downloads      metric.Int64Counter
	DecodeDuration metric.Float64Histogram
}

// CreateMetrics creates the application instruments on meter
func CreateMetrics(meter metric.Meter) (*Metrics, error) {
	filesProcessed, err := meter.Int64Counter(
		"files_processed",
		metric.WithDescription("Input files processed, by status"),
	)
	if err != nil {
		return nil, err
	}

	sheetsAnalyzed, err := meter.Int64Counter(
		"sheets_analyzed",
		metric.WithDescription("Sheets analyzed, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	rowsMerged, err := meter.Int64Counter(
		"rows_merged",
		metric.WithDescription("Rows merged into the aggregation store"),
	)
	if err != nil {
		return nil, err
	}

	rowsDiscarded, err := meter.Int64Counter(
		"rows_discarded",
		metric.WithDescription("Rows dropped for low fill or old base data"),
	)
	if err != nil {
		return nil, err
	}

	rowsSparse, err := meter.Int64Counter(
		"rows_sparse",
		metric.WithDescription("Rows merged with a low fill ratio"),
	)
	if err != nil {
		return nil, err
	}

	downloads, err := meter.Int64Counter(
		"downloads",
		metric.WithDescription("Publication download attempts, by result"),
	)
	if err != nil {
		return nil, err
	}

	decodeDuration, err := meter.Float64Histogram(
		"workbook_decode_duration",
		metric.WithDescription("Workbook decode duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		FilesProcessed: filesProcessed,
		SheetsAnalyzed: sheetsAnalyzed,
		RowsMerged:     rowsMerged,
		RowsDiscarded:  rowsDiscarded,
		RowsSparse:     rowsSparse,
		Downloads:      downloads,
		DecodeDuration: decodeDuration,
	}, nil
}

// NoopMetrics returns instruments that record nothing
func NoopMetrics() *Metrics {
	m, _ := CreateMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordFile counts one processed input file
func (m *Metrics) RecordFile(ctx context.Context, status string) {
	m.FilesProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordSheet counts one analyzed sheet and the rows it produced
func (m *Metrics) RecordSheet(ctx context.Context, outcome string, merged, discarded, sparse int) {
	m.SheetsAnalyzed.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.RowsMerged.Add(ctx, int64(merged))
	m.RowsDiscarded.Add(ctx, int64(discarded))
	m.RowsSparse.Add(ctx, int64(sparse))
}

// RecordDecode records how long a workbook took to decode
func (m *Metrics) RecordDecode(ctx context.Context, d time.Duration) {
	m.DecodeDuration.Record(ctx, d.Seconds())
}

// RecordDownload counts one download attempt
func (m *Metrics) RecordDownload(ctx context.Context, result string) {
	m.Downloads.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}
