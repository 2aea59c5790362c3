package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/A248/bank-data/internal/errors"
	"github.com/A248/bank-data/internal/files"
)

// Fetcher retrieves one URL into dest. It reports false when the URL does
// not exist and fails only on transport errors or unexpected statuses.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (bool, error)
}

// HTTPFetcher fetches over HTTP with a request rate limit
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	files   *files.Manager
	logger  *slog.Logger
}

// NewHTTPFetcher creates a fetcher writing through manager. Redirects are not
// followed: the publisher redirects missing files to an HTML page.
func NewHTTPFetcher(timeout time.Duration, rps float64, burst int, manager *files.Manager) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		files:   manager,
		logger:  slog.Default().With(slog.String("component", "fetcher")),
	}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) (bool, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, apperrors.NewNetworkError("failed to build request", err).WithContext("url", url)
	}
	req.Header.Set("User-Agent", "bank-data/1.0")

	f.logger.DebugContext(ctx, "Requesting", slog.String("url", url))
	resp, err := f.client.Do(req)
	if err != nil {
		return false, apperrors.NewNetworkError("request failed", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusMovedPermanently, http.StatusFound:
		io.Copy(io.Discard, resp.Body)
		return false, nil
	case http.StatusOK:
		n, err := f.files.WriteFrom(dest, resp.Body)
		if err != nil {
			return false, apperrors.NewStorageError("failed to save download", err).
				WithContext("url", url).
				WithContext("dest", dest)
		}
		f.logger.InfoContext(ctx, "Downloaded",
			slog.String("url", url),
			slog.String("dest", dest),
			slog.Int64("size_bytes", n))
		return true, nil
	default:
		return false, apperrors.NewNetworkError(fmt.Sprintf("unexpected status code %d", resp.StatusCode), nil).
			WithContext("url", url)
	}
}
