package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/A248/bank-data/internal/merge"
	"github.com/A248/bank-data/internal/timestamp"
)

// TablePath is the output file of one frequency class:
// "{prefix}-timestamp-{slug}.csv".
func TablePath(prefix string, class timestamp.Class) string {
	return fmt.Sprintf("%s-timestamp-%s.csv", prefix, class.Slug())
}

// TableExporter writes exported buckets, one CSV file per frequency class
type TableExporter struct {
	writer *CSVWriter
}

// NewTableExporter creates an exporter writing through w
func NewTableExporter(w *CSVWriter) *TableExporter {
	return &TableExporter{writer: w}
}

// Export writes every table next to prefix and returns the written paths in
// table order. Tables are written concurrently.
func (e *TableExporter) Export(ctx context.Context, prefix string, tables []merge.Table) ([]string, error) {
	paths := make([]string, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	for i, table := range tables {
		paths[i] = TablePath(prefix, table.Class)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return e.writeTable(ctx, paths[i], table)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (e *TableExporter) writeTable(ctx context.Context, path string, table merge.Table) error {
	stream, err := e.writer.CreateStreamWriter(path, table.Header())
	if err != nil {
		return fmt.Errorf("failed to export %s table: %w", table.Class, err)
	}
	for i := range table.Rows {
		if err := stream.WriteRecord(table.Record(i)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to export %s table: %w", table.Class, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to export %s table: %w", table.Class, err)
	}

	slog.InfoContext(ctx, "Exported table",
		slog.String("class", table.Class.String()),
		slog.String("file_path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)))
	return nil
}
