package ingest

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/model"
)

const (
	userAgent    = "prospect-cli/1.0 (+https://github.com/sells-group/prospect-cli)"
	maxFeedBytes = 10 << 20
)

// Fetcher downloads feed documents with a shared client and a rate limiter,
// so polling many feeds stays polite.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher returns a fetcher allowing rps requests per second with a small
// burst.
func NewFetcher(rps float64) *Fetcher {
	if rps <= 0 {
		rps = 1
	}
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 2),
	}
}

// Fetch downloads one URL, honoring the rate limit and the context.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "ingest: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: build request for %s", url)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ingest: fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", url)
	}

	zap.L().Debug("feed fetched",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))
	return body, nil
}

// FetchFeed downloads and parses one RSS feed in a single call.
func (f *Fetcher) FetchFeed(ctx context.Context, url string, fallback time.Time) ([]model.SignalInput, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseRSS(body, fallback)
}
