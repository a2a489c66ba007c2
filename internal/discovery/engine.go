package discovery

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/classifier"
	"github.com/jonathan/job-hunter/internal/fetch"
	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/types"
)

// SourceSearch marks jobs found by web search on a site that is not a known ATS.
const SourceSearch = "search"

// SourceCareersPage marks jobs scraped from a company careers page.
const SourceCareersPage = "careers_page"

// PageClassifier classifies the page currently shown in a browser tab.
type PageClassifier interface {
	ClassifyPage(ctx context.Context, page browser.Page) (classifier.ParseResult, error)
}

// SeenStore reports whether a job id was already handled by an earlier run.
type SeenStore interface {
	Seen(ctx context.Context, jobID string) (bool, error)
}

// Options configures an Engine.
type Options struct {
	// MaxSearchResults caps raw search results per query (at most 50).
	MaxSearchResults int
	// SearchWait is how long to wait after submitting an in-page search.
	SearchWait time.Duration
	Verbose    bool
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		MaxSearchResults: MaxSearchResults,
		SearchWait:       3 * time.Second,
	}
}

// Engine composes the search and careers-page strategies.
type Engine struct {
	searcher   Searcher
	classifier PageClassifier
	seen       SeenStore
	opts       Options
	now        func() time.Time
	// probe checks a guessed careers URL without a browser.
	probe func(ctx context.Context, url string) (string, bool)
}

// NewEngine creates an Engine. Either searcher or classifier may be nil to disable
// the corresponding strategy.
func NewEngine(searcher Searcher, pageClassifier PageClassifier, opts Options) *Engine {
	if opts.MaxSearchResults <= 0 || opts.MaxSearchResults > MaxSearchResults {
		opts.MaxSearchResults = MaxSearchResults
	}
	if opts.SearchWait <= 0 {
		opts.SearchWait = DefaultOptions().SearchWait
	}
	return &Engine{
		searcher:   searcher,
		classifier: pageClassifier,
		opts:       opts,
		now:        time.Now,
		probe:      fetch.NewClient(fetch.Options{Timeout: 10 * time.Second}).Reachable,
	}
}

// WithSeenStore makes Discover skip jobs already recorded in store.
func (e *Engine) WithSeenStore(store SeenStore) *Engine {
	e.seen = store
	return e
}

// Discover runs semantic search and then scrapes every configured company, deduplicating
// by job id, applying exclusions and the seen store, and capping at cfg.MaxJobs.
// Failures of one strategy or company are logged and skipped unless fatal.
func (e *Engine) Discover(ctx context.Context, page browser.Page, cfg types.SearchConfig) ([]types.DiscoveredJob, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &DiscoveryError{Message: "invalid search config", Cause: err}
	}

	var found []types.DiscoveredJob
	var firstErr error

	if e.searcher != nil {
		jobs, err := e.SearchJobs(ctx, cfg)
		if err != nil {
			if llm.IsFatal(err) {
				return nil, err
			}
			e.logf("Search failed: %v", err)
			firstErr = err
		}
		found = append(found, jobs...)
	}

	if e.classifier != nil && page != nil {
		for _, company := range cfg.Companies {
			if err := ctx.Err(); err != nil {
				return e.finalize(ctx, found, cfg), err
			}
			jobs, err := e.ScrapeCareers(ctx, page, company, cfg.SearchQuery)
			if err != nil {
				if llm.IsFatal(err) {
					return nil, err
				}
				e.logf("Careers scrape failed for %s: %v", company.Name, err)
				if firstErr == nil {
					firstErr = err
				}
			}
			found = append(found, jobs...)
		}
	}

	if len(found) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return e.finalize(ctx, found, cfg), nil
}

// SearchJobs runs the semantic search strategy.
func (e *Engine) SearchJobs(ctx context.Context, cfg types.SearchConfig) ([]types.DiscoveredJob, error) {
	if e.searcher == nil {
		return nil, &DiscoveryError{Message: "no search provider configured"}
	}

	query := BuildQuery(cfg)
	e.logf("Searching: %s", query)

	results, err := e.searcher.Search(ctx, query, e.opts.MaxSearchResults)
	jobs := make([]types.DiscoveredJob, 0, len(results))
	for _, result := range results {
		if !IsJobPage(result.Link, result.Title, result.Snippet) {
			continue
		}
		company := ExtractCompany(result.Link, result.Title)
		if IsExcluded(company, cfg.ExcludeCompanies) {
			continue
		}
		jobs = append(jobs, types.DiscoveredJob{
			ID:           JobID(result.Link),
			Title:        ExtractTitle(result.Title, result.Snippet),
			Company:      company,
			Location:     cfg.Location,
			Description:  result.Snippet,
			URL:          result.Link,
			Source:       sourceFor(result.Link, SourceSearch),
			DiscoveredAt: e.now(),
		})
	}

	e.logf("Search returned %d results, %d look like jobs", len(results), len(jobs))
	return jobs, err
}

// finalize dedups by id, drops excluded companies and seen ids, then applies MaxJobs.
func (e *Engine) finalize(ctx context.Context, jobs []types.DiscoveredJob, cfg types.SearchConfig) []types.DiscoveredJob {
	seenIDs := make(map[string]bool, len(jobs))
	out := make([]types.DiscoveredJob, 0, len(jobs))
	for _, job := range jobs {
		if seenIDs[job.ID] {
			continue
		}
		seenIDs[job.ID] = true

		if IsExcluded(job.Company, cfg.ExcludeCompanies) {
			continue
		}
		if e.alreadySeen(ctx, job.ID) {
			e.logf("Skipping previously seen job %s (%s)", job.ID, job.Title)
			continue
		}

		out = append(out, job)
		if cfg.MaxJobs > 0 && len(out) == cfg.MaxJobs {
			break
		}
	}
	return out
}

func (e *Engine) alreadySeen(ctx context.Context, id string) bool {
	if e.seen == nil {
		return false
	}
	seen, err := e.seen.Seen(ctx, id)
	if err != nil {
		e.logf("Seen-store lookup failed for %s: %v", id, err)
		return false
	}
	return seen
}

func (e *Engine) logf(format string, args ...any) {
	if e.opts.Verbose {
		log.Printf("[DISCOVERY] "+format, args...)
	}
}

func sourceFor(link, fallback string) string {
	if platform := fetch.DetectPlatform(link); platform != fetch.PlatformUnknown {
		return string(platform)
	}
	return fallback
}
