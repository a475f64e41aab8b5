// Package fetcher retrieves remote pages with bounded retries and
// classifies failures for the analysis pipeline.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jonesrussell/siteinsight/internal/domain"
	"github.com/jonesrussell/siteinsight/internal/logger"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// Config holds fetcher settings.
type Config struct {
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// MaxAttempts is the total attempt budget, including the first request.
	MaxAttempts int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
	// MaxRedirects caps how many redirects one attempt may follow.
	MaxRedirects int
	// UserAgent is sent with every request.
	UserAgent string
}

// Fetcher performs HTTP page retrieval.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxAttempts int
	retryDelay  time.Duration
	log         logger.Interface
}

// New creates a Fetcher with the given configuration.
func New(cfg Config, log logger.Interface) *Fetcher {
	maxRedirects := cfg.MaxRedirects

	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{
		client:      client,
		userAgent:   cfg.UserAgent,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		log:         log,
	}
}

// Fetch retrieves the page at rawURL, prefixing https:// when no scheme is
// present. It retries on any transport or status failure with a fixed delay
// between attempts; the final attempt's failure is the one surfaced, as a
// classified *domain.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.RawContent, error) {
	target := domain.EnsureScheme(rawURL)

	var lastErr *domain.FetchError

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		content, fetchErr := f.fetchOnce(ctx, target)
		if fetchErr == nil {
			return content, nil
		}

		lastErr = fetchErr
		f.log.Warn("fetch attempt failed",
			"url", target,
			"attempt", attempt,
			"error", fetchErr.Error(),
		)

		if attempt == f.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, classify(target, 0, ctx.Err())
		case <-time.After(f.retryDelay):
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single GET attempt.
func (f *Fetcher) fetchOnce(ctx context.Context, target string) (*domain.RawContent, *domain.FetchError) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if reqErr != nil {
		return nil, classify(target, 0, reqErr)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return nil, classify(target, 0, doErr)
	}
	defer resp.Body.Close()

	// Any status >= 400 is a failure signal from the origin.
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, classify(target, resp.StatusCode, nil)
	}

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)

	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, classify(target, resp.StatusCode, readErr)
	}

	return &domain.RawContent{
		Body:     body,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// classify maps a transport error or HTTP status to a FetchError kind.
func classify(target string, status int, err error) *domain.FetchError {
	kind := domain.FetchOther

	switch {
	case status == http.StatusNotFound:
		kind = domain.FetchNotFound
	case err != nil:
		var dnsErr *net.DNSError
		var netErr net.Error

		switch {
		case errors.As(err, &dnsErr):
			kind = domain.FetchDomainNotFound
		case errors.As(err, &netErr) && netErr.Timeout(),
			errors.Is(err, context.DeadlineExceeded):
			kind = domain.FetchTimeout
		}
	}

	return &domain.FetchError{
		Kind:   kind,
		URL:    target,
		Status: status,
		Err:    err,
	}
}
