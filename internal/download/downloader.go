package download

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/A248/bank-data/internal/files"
	"github.com/A248/bank-data/internal/infrastructure"
)

// Options configures a Downloader
type Options struct {
	BaseURL  string
	FromYear int
	Skip     []MonthlyReport
	Metrics  *infrastructure.Metrics
	Now      func() time.Time
}

// Downloader fills the data directory with every planned publication
type Downloader struct {
	fetcher Fetcher
	files   *files.Manager
	opts    Options
	logger  *slog.Logger
}

// NewDownloader creates a downloader storing files through manager
func NewDownloader(fetcher Fetcher, manager *files.Manager, opts Options) *Downloader {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Metrics == nil {
		opts.Metrics = infrastructure.NoopMetrics()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Downloader{
		fetcher: fetcher,
		files:   manager,
		opts:    opts,
		logger:  infrastructure.WithComponent(slog.Default(), "download"),
	}
}

// YearSummary lists what happened to the months of one year
type YearSummary struct {
	Year       int
	Downloaded []time.Month
	Existing   []time.Month
	Missing    []time.Month
}

// Summary is the outcome of DownloadAll, years ascending
type Summary struct {
	Years []YearSummary
}

// Missing counts months that could not be found
func (s *Summary) Missing() int {
	n := 0
	for _, y := range s.Years {
		n += len(y.Missing)
	}
	return n
}

// Downloaded counts months fetched during the run
func (s *Summary) Downloaded() int {
	n := 0
	for _, y := range s.Years {
		n += len(y.Downloaded)
	}
	return n
}

func (s *Summary) String() string {
	var b strings.Builder
	for _, y := range s.Years {
		fmt.Fprintf(&b, "%d: %d downloaded, %d already present", y.Year, len(y.Downloaded), len(y.Existing))
		if len(y.Missing) > 0 {
			fmt.Fprintf(&b, ", unavailable: %s", monthNames(y.Missing))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func monthNames(months []time.Month) string {
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

// DownloadAll fetches every planned report. Years run concurrently; months of
// one year run in order. A transport failure stops the run.
func (d *Downloader) DownloadAll(ctx context.Context) (*Summary, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	plan := Plan(d.opts.FromYear, d.opts.Now(), d.opts.Skip)

	var years []int
	byYear := make(map[int][]MonthlyReport)
	for _, r := range plan {
		if _, ok := byYear[r.Year]; !ok {
			years = append(years, r.Year)
		}
		byYear[r.Year] = append(byYear[r.Year], r)
	}

	d.logger.InfoContext(ctx, "Starting download",
		slog.Int("from_year", d.opts.FromYear),
		slog.Int("reports", len(plan)))

	summaries := make([]YearSummary, len(years))
	g, gctx := errgroup.WithContext(ctx)
	for i, year := range years {
		g.Go(func() error {
			summary, err := d.downloadYear(gctx, year, byYear[year])
			summaries[i] = summary
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Years: summaries}
	for _, y := range summary.Years {
		if len(y.Missing) > 0 {
			d.logger.WarnContext(ctx, "Data is unavailable",
				slog.Int("year", y.Year),
				slog.String("months", monthNames(y.Missing)))
		}
	}
	d.logger.InfoContext(ctx, "Download complete",
		slog.Int("downloaded", summary.Downloaded()),
		slog.Int("missing", summary.Missing()))
	return summary, nil
}

func (d *Downloader) downloadYear(ctx context.Context, year int, reports []MonthlyReport) (YearSummary, error) {
	summary := YearSummary{Year: year}
	for _, r := range reports {
		if d.exists(r) {
			summary.Existing = append(summary.Existing, r.Month)
			d.opts.Metrics.RecordDownload(ctx, "existing")
			continue
		}
		found, err := d.downloadReport(ctx, r)
		if err != nil {
			d.opts.Metrics.RecordDownload(ctx, "error")
			return summary, fmt.Errorf("failed to download %s: %w", r, err)
		}
		if found {
			summary.Downloaded = append(summary.Downloaded, r.Month)
			d.opts.Metrics.RecordDownload(ctx, "downloaded")
		} else {
			summary.Missing = append(summary.Missing, r.Month)
			d.opts.Metrics.RecordDownload(ctx, "not_found")
		}
	}
	return summary, nil
}

// exists reports whether r is already stored under any extension
func (d *Downloader) exists(r MonthlyReport) bool {
	for _, ext := range Extensions {
		if d.files.FileExists(r.FileName(ext)) {
			return true
		}
	}
	return false
}

// downloadReport tries the candidate URLs of r until one is found
func (d *Downloader) downloadReport(ctx context.Context, r MonthlyReport) (bool, error) {
	for _, url := range CandidateURLs(d.opts.BaseURL, r) {
		ext, ok := extensionOf(url)
		if !ok {
			return false, fmt.Errorf("no workbook extension in %s", url)
		}
		found, err := d.fetcher.Fetch(ctx, url, r.FileName(ext))
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
