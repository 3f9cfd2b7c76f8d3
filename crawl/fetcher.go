// Package crawl discovers and fetches the bounded, keyword-prioritized set
// of pages used to build a site's context. All fetching is best effort: a
// slow or broken page is dropped, never fatal.
package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultUserAgent identifies outbound requests.
const DefaultUserAgent = "sitecontext-bot/1.0 (+https://github.com/tjelz/sitecontext)"

// DefaultFetchTimeout is the per-request budget. There are no retries; a
// page that cannot answer in time is simply dropped from the crawl.
const DefaultFetchTimeout = 7 * time.Second

// maxBodyBytes bounds how much of a response is read. Marketing pages past
// this size are framework noise anyway.
const maxBodyBytes = 5 << 20

// Fetcher issues single HTTP GETs with a hard per-request timeout.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	logger    *zap.Logger
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent overrides the outbound User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger attaches a logger; nil keeps the no-op default.
func WithLogger(l *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher builds a Fetcher with the default client, timeout and UA.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
		timeout:   DefaultFetchTimeout,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Timeout returns the configured per-request timeout.
func (f *Fetcher) Timeout() time.Duration { return f.timeout }

// Fetch GETs a URL and returns the response body as a string. Timeouts,
// connection errors and non-2xx statuses all come back as errors the caller
// treats as "page unavailable".
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed", zap.String("url", rawURL), zap.Error(err))
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debug("fetch returned non-2xx", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return string(body), nil
}
