package ai

import (
	"context"
	"strings"
)

// Summarizer turns a failure log into a short "Summary: / Possible Fixes:" answer
type Summarizer interface {
	// Summarize returns the backend's answer for logText
	Summarize(ctx context.Context, logText string) (string, error)
}

// NoopSummarizer provides a fallback implementation that returns raw text without AI processing
type NoopSummarizer struct{}

// NewNoopSummarizer creates a new no-op summarizer
func NewNoopSummarizer() *NoopSummarizer {
	return &NoopSummarizer{}
}

// Summarize returns the trimmed raw log text
func (n *NoopSummarizer) Summarize(_ context.Context, logText string) (string, error) {
	return strings.TrimSpace(logText), nil
}
