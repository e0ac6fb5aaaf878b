package testingfarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	resultsSuffix  = "/results.xml"
	requestTimeout = 30 * time.Second

	// NoErrorInfo is returned when no failing test case carries a testout.log
	NoErrorInfo = "No specific error information found in Testing Farm results."
)

// Client fetches Testing Farm result documents and their artifacts
type Client struct {
	results   *http.Client // results.xml, bearer token when configured
	artifacts *http.Client // artifact logs, never authenticated
	logger    *slog.Logger
}

// Option configures the Client during construction.
type Option func(*Client)

// WithHTTPClient replaces both the results and artifact HTTP clients.
// The bearer token is not applied to a replaced client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.results = c
		cl.artifacts = c
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// New creates a Testing Farm client. When token is non-empty, results.xml
// requests carry an "Authorization: Bearer <token>" header.
func New(token string, opts ...Option) *Client {
	c := &Client{
		results:   newResultsHTTPClient(token),
		artifacts: &http.Client{Timeout: requestTimeout},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newResultsHTTPClient(token string) *http.Client {
	if token == "" {
		return &http.Client{Timeout: requestTimeout}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   http.DefaultTransport,
		},
	}
}

// FetchFailureText resolves a Testing Farm report URL to the most relevant
// failure text: the testout.log of a failing test case. Problems are described
// in the returned text rather than reported as errors.
func (c *Client) FetchFailureText(ctx context.Context, reportURL string) string {
	xmlURL := strings.TrimRight(reportURL, "/") + resultsSuffix

	c.logger.Debug("Fetching Testing Farm results", "url", xmlURL)
	data, err := c.get(ctx, c.results, xmlURL)
	if err != nil {
		c.logger.Error("Error fetching Testing Farm results", "url", xmlURL, "error", err)
		return fmt.Sprintf("Error fetching Testing Farm results: %v", err)
	}

	suite, err := ParseResults(data)
	if err != nil {
		c.logger.Error("Error parsing Testing Farm results", "url", xmlURL, "error", err)
		return fmt.Sprintf("Error parsing Testing Farm XML: %v", errors.Unwrap(err))
	}

	links := ExtractLinks(suite)
	if links.Failures != "" {
		c.logger.Debug("Found failures artifact", "href", links.Failures)
	}
	if links.TestOut == "" {
		c.logger.Info("No testout.log found on failing test cases", "url", xmlURL)
		return NoErrorInfo
	}

	c.logger.Debug("Fetching testout.log", "href", links.TestOut)
	body, err := c.get(ctx, c.artifacts, links.TestOut)
	if err != nil {
		c.logger.Error("Error fetching testout.log", "href", links.TestOut, "error", err)
		return fmt.Sprintf("Error fetching testout.log: %v", err)
	}
	return string(body)
}

// HTTPError represents a non-2xx response
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

func (c *Client) get(ctx context.Context, hc *http.Client, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
