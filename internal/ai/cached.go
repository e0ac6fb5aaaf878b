package ai

import (
	"context"

	"github.com/Attamusc/pipelinebot/internal/cache"
)

// SummaryCacheSize is the number of distinct log texts remembered
const SummaryCacheSize = 100

// outcome is one finished backend call, successful or not
type outcome struct {
	answer string
	err    error
}

// CachedSummarizer memoizes the outcome of another Summarizer by the exact
// input text. Backend failures are remembered too, so identical input never
// runs the backend twice. Calls cut short by the caller's context are not
// remembered.
type CachedSummarizer struct {
	next  Summarizer
	cache *cache.LRU[string, outcome]
}

// NewCachedSummarizer wraps next with a SummaryCacheSize entry cache
func NewCachedSummarizer(next Summarizer) *CachedSummarizer {
	return &CachedSummarizer{
		next:  next,
		cache: cache.NewLRU[string, outcome](SummaryCacheSize),
	}
}

// Summarize returns the cached outcome for logText or asks the wrapped summarizer
func (c *CachedSummarizer) Summarize(ctx context.Context, logText string) (string, error) {
	// A load error only keeps the outcome out of the cache
	result, _ := c.cache.GetOrLoad(logText, func() (outcome, error) {
		answer, err := c.next.Summarize(ctx, logText)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome{answer: answer, err: err}, ctxErr
		}
		return outcome{answer: answer, err: err}, nil
	})
	return result.answer, result.err
}

// ClearCache forgets every cached outcome
func (c *CachedSummarizer) ClearCache() {
	c.cache.Clear()
}
