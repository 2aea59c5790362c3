package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/A248/bank-data/internal/analysis"
	apperrors "github.com/A248/bank-data/internal/errors"
	"github.com/A248/bank-data/internal/exporter"
	"github.com/A248/bank-data/internal/files"
	"github.com/A248/bank-data/internal/infrastructure"
	"github.com/A248/bank-data/internal/merge"
	"github.com/A248/bank-data/internal/workbook"
)

// OpenFunc decodes a workbook into sheets
type OpenFunc func(path string, opts workbook.Options) ([]workbook.Sheet, error)

// Options configures a Processor
type Options struct {
	// Workers bounds concurrent decoding; zero means GOMAXPROCS
	Workers  int
	BOM      bool
	Workbook workbook.Options
	Analysis analysis.Options
	Metrics  *infrastructure.Metrics
	Tracer   trace.Tracer
	// Open replaces the excelize decoder in tests
	Open OpenFunc
}

// Processor loads a directory of workbooks into one aggregation store.
// A Processor performs a single run.
type Processor struct {
	analyzer  *analysis.Analyzer
	discovery *files.Discovery
	exporter  *exporter.TableExporter
	store     *merge.Store
	pool      *semaphore.Weighted
	workers   int
	wbOpts    workbook.Options
	open      OpenFunc
	metrics   *infrastructure.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewProcessor creates a processor. Zero fields of opts take their defaults.
func NewProcessor(opts Options) *Processor {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if opts.Open == nil {
		opts.Open = workbook.Open
	}
	if opts.Metrics == nil {
		opts.Metrics = infrastructure.NoopMetrics()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(infrastructure.MeterName)
	}

	return &Processor{
		analyzer:  analysis.New(opts.Analysis),
		discovery: files.NewDiscovery(""),
		exporter:  exporter.NewTableExporter(exporter.NewCSVWriter(opts.BOM)),
		store:     merge.NewStore(),
		pool:      semaphore.NewWeighted(int64(workers)),
		workers:   workers,
		wbOpts:    opts.Workbook,
		open:      opts.Open,
		metrics:   opts.Metrics,
		tracer:    opts.Tracer,
		logger:    infrastructure.WithComponent(slog.Default(), "condense"),
	}
}

// Store returns the aggregation store fed by the processor
func (p *Processor) Store() *merge.Store {
	return p.store
}

// ProcessDirectory merges every workbook in dir into the store. Files are
// ranked by name, so later publications take precedence on conflicts. The
// error is non-nil only for an unreadable directory, cancellation or a
// broken store invariant.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (*Report, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := p.tracer.Start(ctx, "ProcessDirectory", trace.WithAttributes(attribute.String("dir", dir)))
	defer span.End()

	inputs, err := p.discovery.FindInputFiles(dir)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("data directory "+dir).WithContext("dir", dir)
		}
		return nil, apperrors.NewStorageError("failed to list input files", err).WithContext("dir", dir)
	}
	if len(inputs) == 0 {
		p.logger.WarnContext(ctx, "No files loaded. Did you specify the correct data directory?",
			slog.String("dir", dir))
	}

	p.logger.InfoContext(ctx, "Processing input directory",
		slog.String("dir", dir),
		slog.Int("files", len(inputs)),
		slog.Int("workers", p.workers))

	statuses := make([]FileStatus, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		g.Go(func() error {
			status, err := p.processFile(gctx, input, i)
			statuses[i] = status
			return err
		})
	}
	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	report := &Report{Files: statuses}
	merged, discarded, sparse := report.Totals()
	p.logger.InfoContext(ctx, "Processed input directory",
		slog.Int("files_loaded", report.Succeeded()),
		slog.Int("sheets_loaded", report.SheetsLoaded()),
		slog.Int("rows_merged", merged),
		slog.Int("rows_discarded", discarded),
		slog.Int("rows_sparse", sparse))
	return report, nil
}

// Condense processes dir and writes one CSV per frequency class next to
// prefix
func (p *Processor) Condense(ctx context.Context, dir, prefix string) (*Report, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	report, err := p.ProcessDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}

	tables, err := p.store.Export()
	if err != nil {
		if errors.Is(err, merge.ErrBucketShared) {
			return report, apperrors.NewInvariantError("export failed", err)
		}
		return report, fmt.Errorf("export failed: %w", err)
	}

	outputs, err := p.exporter.Export(ctx, prefix, tables)
	if err != nil {
		return report, apperrors.NewStorageError("failed to write output tables", err).
			WithContext("prefix", prefix)
	}
	report.Outputs = outputs
	return report, nil
}

// processFile merges one input file. Its error return is reserved for
// conditions that must stop the whole run.
func (p *Processor) processFile(ctx context.Context, input files.FileInfo, rank int) (FileStatus, error) {
	ctx = infrastructure.ContextWithTraceID(ctx)
	ctx, span := p.tracer.Start(ctx, "ProcessFile", trace.WithAttributes(
		attribute.String("file", input.Name),
		attribute.Int("rank", rank)))
	defer span.End()

	status := FileStatus{Name: input.Name, Path: input.Path}
	logger := p.logger.With(slog.String("file", input.Name))

	switch input.Kind {
	case files.LegacyWorkbook:
		status.State = FileLegacyFormat
		logger.WarnContext(ctx, "XLS workbooks are unsupported")
		p.metrics.RecordFile(ctx, status.State.String())
		return status, nil
	case files.Other:
		status.State = FileUnsupported
		logger.WarnContext(ctx, "Unsupported file format")
		p.metrics.RecordFile(ctx, status.State.String())
		return status, nil
	}

	sheets, err := p.decode(ctx, input.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return status, ctxErr
		}
		status.State = FileFailed
		status.Failures = append(status.Failures, analysis.OtherFailure(err).Error())
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to open workbook")
		p.metrics.RecordFile(ctx, status.State.String())
		return status, nil
	}

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return status, err
		}
		if err := p.processSheet(ctx, input, rank, sheet, &status); err != nil {
			return status, err
		}
	}

	if len(status.Failures) > 0 {
		status.State = FileFailed
	}
	logger.InfoContext(ctx, "Processed file",
		slog.String("state", status.State.String()),
		slog.Int("sheets_loaded", status.SheetsLoaded),
		slog.Int("sheet_failures", len(status.Failures)))
	p.metrics.RecordFile(ctx, status.State.String())
	return status, nil
}

// decode opens the workbook while holding a pool slot
func (p *Processor) decode(ctx context.Context, path string) ([]workbook.Sheet, error) {
	if err := p.pool.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.pool.Release(1)

	start := time.Now()
	sheets, err := p.open(path, p.wbOpts)
	p.metrics.RecordDecode(ctx, time.Since(start))
	return sheets, err
}

func (p *Processor) processSheet(ctx context.Context, input files.FileInfo, rank int, sheet workbook.Sheet, status *FileStatus) error {
	ctx, span := p.tracer.Start(ctx, "AnalyzeSheet", trace.WithAttributes(attribute.String("sheet", sheet.Name)))
	defer span.End()

	result, err := p.analyzer.Analyze(ctx, analysis.Source{File: input.Name, Rank: rank}, sheet, p.store)
	if result != nil {
		status.RowsMerged += result.RowsMerged
		status.RowsDiscarded += result.RowsDiscarded
		status.RowsSparse += result.RowsSparse
	}

	if err != nil {
		if errors.Is(err, merge.ErrStoreClosed) {
			return apperrors.NewInvariantError("store closed during processing", err).
				WithContext("file", input.Name)
		}
		outcome := analysis.KindOf(err).String()
		status.Failures = append(status.Failures, fmt.Sprintf("%s: %s", sheet.Name, err))
		infrastructure.RecordError(ctx, err)
		p.logger.WarnContext(ctx, "Sheet not loaded",
			slog.String("file", input.Name),
			slog.String("sheet", sheet.Name),
			slog.String("outcome", outcome),
			slog.String("reason", err.Error()))
		p.recordSheet(ctx, outcome, result)
		return nil
	}

	status.SheetsLoaded++
	p.recordSheet(ctx, "merged", result)
	return nil
}

func (p *Processor) recordSheet(ctx context.Context, outcome string, result *analysis.Result) {
	if result == nil {
		p.metrics.RecordSheet(ctx, outcome, 0, 0, 0)
		return
	}
	p.metrics.RecordSheet(ctx, outcome, result.RowsMerged, result.RowsDiscarded, result.RowsSparse)
}
