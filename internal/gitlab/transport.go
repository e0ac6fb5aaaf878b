package gitlab

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

const (
	userAgent       = "PipelineBot/1.0"
	maxRetries      = 3
	baseBackoff     = 1 * time.Second
	maxIdleConns    = 10
	maxConnsPerHost = 20
)

// NewHTTPClient builds the pooled HTTP client used for GitLab requests.
// Transient failures (network errors, 429 and 5xx responses) are retried up to
// three times with exponential backoff starting at one second.
func NewHTTPClient() *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = maxIdleConns
	t.MaxIdleConnsPerHost = maxConnsPerHost
	t.MaxConnsPerHost = maxConnsPerHost

	return &http.Client{
		Transport: newRetryTransport(t),
	}
}

// retryTransport wraps http.RoundTripper with retry logic for the GitLab API
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    func(attempt int) time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func newRetryTransport(base http.RoundTripper) *retryTransport {
	return &retryTransport{
		base:       base,
		maxRetries: maxRetries,
		backoff:    calculateBackoff,
		sleep:      sleepContext,
	}
}

// RoundTrip implements http.RoundTripper
func (rt *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= rt.maxRetries; attempt++ {
		if attempt > 0 && req.Body != nil && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}
		reqClone := req.Clone(req.Context())

		resp, err := rt.base.RoundTrip(reqClone)
		if err != nil {
			lastErr = err
			if attempt < rt.maxRetries {
				if sleepErr := rt.sleep(req.Context(), rt.backoff(attempt)); sleepErr != nil {
					return nil, sleepErr
				}
			}
			continue
		}

		if !shouldRetry(resp) || attempt == rt.maxRetries {
			return resp, nil
		}

		delay := rt.backoff(attempt)
		if resp.StatusCode == http.StatusTooManyRequests {
			if retryAfter := retryAfterDelay(resp); retryAfter > 0 {
				delay = retryAfter
			}
		}

		// Close response body to prevent resource leak
		resp.Body.Close()

		if err := rt.sleep(req.Context(), delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("GitLab API request failed after %d attempts: %w", rt.maxRetries+1, lastErr)
}

// shouldRetry reports whether a response status is worth another attempt
func shouldRetry(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryAfterDelay reads a Retry-After header expressed in seconds
func retryAfterDelay(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}

// calculateBackoff returns 1s, 2s, 4s, ... for attempts 0, 1, 2, ...
func calculateBackoff(attempt int) time.Duration {
	return time.Duration(float64(baseBackoff) * math.Pow(2, float64(attempt)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
