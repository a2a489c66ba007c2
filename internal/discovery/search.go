package discovery

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/job-hunter/internal/types"
)

// MaxSearchResults caps a single semantic search.
const MaxSearchResults = 50

// searchPageSize is the largest page the search API returns.
const searchPageSize = 10

// SearchResult is one raw web search hit.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// Searcher runs a web search and returns up to limit results.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// BuildQuery composes the search query from the hunt configuration.
func BuildQuery(cfg types.SearchConfig) string {
	parts := []string{strings.TrimSpace(cfg.SearchQuery), "jobs"}
	if loc := strings.TrimSpace(cfg.Location); loc != "" {
		parts = append(parts, "in "+loc)
	}
	if cfg.Remote {
		parts = append(parts, "remote")
	}
	if level := strings.TrimSpace(cfg.ExperienceLevel); level != "" {
		parts = append(parts, level+" level")
	}
	return strings.Join(parts, " ")
}

// CustomSearch is a Searcher backed by Google Programmable Search.
type CustomSearch struct {
	svc     *customsearch.Service
	cx      string
	limiter *rate.Limiter
}

// NewCustomSearch creates a search client. rps limits request pages per second; zero disables limiting.
func NewCustomSearch(ctx context.Context, apiKey, cx string, rps float64) (*CustomSearch, error) {
	if apiKey == "" || cx == "" {
		return nil, &DiscoveryError{Message: "search API key and engine ID are required"}
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &DiscoveryError{Message: "failed to create customsearch service", Cause: err}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	return &CustomSearch{svc: svc, cx: cx, limiter: limiter}, nil
}

// Search pages through results ten at a time until limit (at most MaxSearchResults) is reached.
// Results gathered before a failing page are returned along with the error.
func (s *CustomSearch) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	results := make([]SearchResult, 0, limit)
	for start := int64(1); len(results) < limit; start += searchPageSize {
		if err := s.limiter.Wait(ctx); err != nil {
			return results, err
		}

		num := min(searchPageSize, limit-len(results))
		resp, err := s.svc.Cse.List().Cx(s.cx).Q(query).Num(int64(num)).Start(start).Context(ctx).Do()
		if err != nil {
			return results, &DiscoveryError{Message: fmt.Sprintf("search failed for %q", query), Cause: err}
		}

		for _, item := range resp.Items {
			results = append(results, SearchResult{
				Title:   item.Title,
				Link:    item.Link,
				Snippet: item.Snippet,
			})
		}

		if len(resp.Items) < num {
			break
		}
	}
	return results, nil
}
