// Package search turns an entity query into ranked, content-enhanced
// search results.
package search

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/resilience"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/pkg/serpapi"
)

// Default search tuning. Each value can be overridden through Config.
const (
	DefaultMaxResults   = 5
	DefaultContentLimit = 5000
	defaultFetchTimeout = 10 * time.Second
)

// Client issues web searches and enhances the hits with page content.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error)
}

// Config tunes the search client.
type Config struct {
	// HL and GL set the provider's interface language and geolocation.
	// Empty values use the provider defaults.
	HL string
	GL string
	// ContentLimit caps the enhanced page text length. Default 5000.
	ContentLimit int
	// FetchTimeout bounds each page fetch. Default 10s.
	FetchTimeout time.Duration
	// FetchRPS caps the rate at which enhancement fetches are issued.
	// Zero means unlimited.
	FetchRPS float64
	// Retry overrides the search retry policy. The zero value uses 3
	// attempts with exponential backoff between 4s and 10s.
	Retry resilience.RetryConfig
}

type client struct {
	api      serpapi.Client
	enhancer *enhancer
	retry    resilience.RetryConfig
	hl, gl   string
}

// New creates a search client over the given provider.
func New(api serpapi.Client, cfg Config) Client {
	if cfg.ContentLimit <= 0 {
		cfg.ContentLimit = DefaultContentLimit
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 4 * time.Second,
			MaxBackoff:     10 * time.Second,
			Multiplier:     2.0,
			OnRetry:        resilience.RetryLogger("serpapi", "search"),
		}
	}
	if retry.ShouldRetry == nil {
		// Every search failure gets the full attempt budget, provider
		// error payloads included; only exhaustion surfaces the error.
		retry.ShouldRetry = func(error) bool { return true }
	}
	return &client{
		api:      api,
		enhancer: newEnhancer(cfg.ContentLimit, cfg.FetchTimeout, cfg.FetchRPS),
		retry:    retry,
		hl:       cfg.HL,
		gl:       cfg.GL,
	}
}

// Search queries the provider, retrying any failure up to the attempt
// budget, then fetches page content for every hit. The returned slice
// preserves provider rank and never exceeds maxResults.
func (c *client) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*serpapi.SearchResponse, error) {
		return c.api.Search(ctx, serpapi.SearchRequest{Query: query, Num: maxResults, HL: c.hl, GL: c.gl})
	})
	if err != nil {
		return nil, eris.Wrap(err, "search: query provider")
	}

	organic := resp.OrganicResults
	if len(organic) > maxResults {
		organic = organic[:maxResults]
	}

	results := make([]model.SearchResult, len(organic))
	for i, r := range organic {
		results[i] = model.SearchResult{
			Title:         r.Title,
			Link:          r.Link,
			Snippet:       r.Snippet,
			DisplayedLink: r.DisplayedLink,
		}
	}

	// Enhancement failures are per-result and never fail the search.
	c.enhancer.enhance(ctx, results)

	zap.L().Debug("search complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}
