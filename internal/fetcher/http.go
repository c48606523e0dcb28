package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotFound indicates the server answered but had no document at the URL.
// Callers distinguish it from transport failures when labeling fallbacks.
var ErrNotFound = eris.New("fetcher: document not found")

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// HTTPFetcher downloads documents over HTTP with a browser-like User-Agent
// and a bounded per-request timeout. There is no retry here: the acquisition
// pipeline advances through its candidate dates instead.
type HTTPFetcher struct {
	client  *http.Client
	probe   *http.Client
	limiter *rate.Limiter
	opts    HTTPOptions
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "floodwatch/1.0"
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		probe:   &http.Client{Timeout: opts.ProbeTimeout},
		limiter: rate.NewLimiter(2, 2),
		opts:    opts,
	}
}

// Download fetches the URL and returns the response body. A non-200 status
// resolves to ErrNotFound so the caller can tell "no document for this date"
// apart from a connection failure.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrNotFound, "status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}

	return body, nil
}

// Probe performs a diagnostic request with the shorter probe timeout and
// returns the HTTP status code. The body is discarded.
func (f *HTTPFetcher) Probe(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, eris.Wrap(err, "create probe request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.probe.Do(req)
	if err != nil {
		return 0, eris.Wrapf(err, "probe %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	zap.L().Debug("probe complete",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
	)

	return resp.StatusCode, nil
}
