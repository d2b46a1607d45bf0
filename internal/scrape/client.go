// Package scrape fetches and parses series results pages. The results site
// serves windows-1257 encoded HTML, so every fetched body is decoded before
// parsing.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"

	"github.com/noskrien/results-service/internal/config"
	"github.com/noskrien/results-service/internal/observability"
)

// Client fetches results pages with rate limiting and retries.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Client from scraper configuration. The metrics
// parameter may be nil to disable instrumentation.
func NewClient(cfg config.ScrapeConfig, logger zerolog.Logger, metrics *observability.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = 1
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "results-service/1.0"
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
		userAgent:  userAgent,
		maxRetries: cfg.MaxRetries,
		logger:     logger.With().Str("component", "scrape_client").Logger(),
		metrics:    metrics,
	}
}

// Get fetches a page and returns its body decoded from windows-1257.
// Transient failures (network errors and 5xx responses) are retried with
// exponential backoff up to the configured retry budget.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	start := time.Now()

	var body []byte
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			_, _ = io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s: %w", url, err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		c.recordRequest("error", start)
		c.logger.Warn().Err(err).Str("url", url).Msg("fetch failed")
		return "", err
	}

	decoded, err := charmap.Windows1257.NewDecoder().Bytes(body)
	if err != nil {
		c.recordRequest("error", start)
		return "", fmt.Errorf("decode %s: %w", url, err)
	}

	c.recordRequest("success", start)
	return string(decoded), nil
}

func (c *Client) recordRequest(outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordScrapeRequest(outcome, time.Since(start).Seconds())
	}
}
