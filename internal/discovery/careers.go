package discovery

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/types"
)

// SearchInputSelectors locate an in-page job search box, most specific first.
var SearchInputSelectors = []string{
	"input[type='search']",
	"input[name='q']",
	"input[name*='search' i]",
	"input[placeholder*='search' i]",
	"input[aria-label*='search' i]",
	"input[id*='search' i]",
	"input[name*='keyword' i]",
	"input[placeholder*='job' i]",
}

// GuessCareersURL returns {website}/careers, deriving the website from the company
// name when none is configured.
func GuessCareersURL(target types.CompanyTarget) string {
	return CareersURLCandidates(target)[0]
}

// CareersURLCandidates lists the usual careers page locations for a company, most
// common first.
func CareersURLCandidates(target types.CompanyTarget) []string {
	website := strings.TrimRight(strings.TrimSpace(target.Website), "/")
	if website == "" {
		website = "https://" + companySlug(target.Name) + ".com"
	}
	candidates := []string{website + "/careers", website + "/jobs"}
	if u, err := url.Parse(website); err == nil && u.Host != "" {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		candidates = append(candidates, "https://careers."+host, "https://jobs."+host)
	}
	return candidates
}

func companySlug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// careersURL returns the configured careers page, else the first candidate that
// answers a plain GET, else the first candidate.
func (e *Engine) careersURL(ctx context.Context, target types.CompanyTarget) string {
	if u := strings.TrimSpace(target.CareersURL); u != "" {
		return u
	}
	candidates := CareersURLCandidates(target)
	if e.probe != nil {
		for _, candidate := range candidates {
			if final, ok := e.probe(ctx, candidate); ok {
				return final
			}
		}
	}
	return candidates[0]
}

// ScrapeCareers renders the company's careers page and maps its listings into jobs.
// When the page is not a listing and query is set, it tries the page's own search box
// once. Listings are filtered by TitleMatchesQuery when query is set.
func (e *Engine) ScrapeCareers(ctx context.Context, page browser.Page, target types.CompanyTarget, query string) ([]types.DiscoveredJob, error) {
	if e.classifier == nil {
		return nil, &DiscoveryError{Message: "no page classifier configured"}
	}

	careersURL := e.careersURL(ctx, target)
	e.logf("Scraping careers page for %s: %s", target.Name, careersURL)

	if err := page.Goto(ctx, careersURL); err != nil {
		return nil, &DiscoveryError{Message: "failed to open careers page for " + target.Name, Cause: err}
	}

	result, err := e.classifier.ClassifyPage(ctx, page)
	if err != nil {
		return nil, err
	}
	analysis := result.Analysis()

	if analysis.PageType != types.PageJobListing && query != "" {
		searched, err := e.searchInPage(ctx, page, query)
		if err != nil {
			e.logf("In-page search failed on %s: %v", careersURL, err)
		}
		if searched {
			result, err = e.classifier.ClassifyPage(ctx, page)
			if err != nil {
				return nil, err
			}
			analysis = result.Analysis()
		}
	}

	if analysis.PageType != types.PageJobListing {
		e.logf("%s is %s, not a job listing", careersURL, analysis.PageType)
		return []types.DiscoveredJob{}, nil
	}

	base, err := page.URL(ctx)
	if err != nil || base == "" {
		base = careersURL
	}
	return e.listingJobs(analysis.Jobs, base, target, query), nil
}

func (e *Engine) listingJobs(refs []types.JobRef, base string, target types.CompanyTarget, query string) []types.DiscoveredJob {
	jobs := make([]types.DiscoveredJob, 0, len(refs))
	for _, ref := range refs {
		if ref.URL == "" {
			continue
		}
		if query != "" && !TitleMatchesQuery(ref.Title, query) {
			continue
		}

		jobURL := ResolveURL(base, ref.URL)
		company := strings.TrimSpace(ref.Company)
		if company == "" {
			company = target.Name
		}
		title := strings.TrimSpace(ref.Title)
		if title == "" {
			title = UnknownPosition
		}

		jobs = append(jobs, types.DiscoveredJob{
			ID:           JobID(jobURL),
			Title:        title,
			Company:      company,
			Location:     ref.Location,
			URL:          jobURL,
			Source:       sourceFor(jobURL, SourceCareersPage),
			DiscoveredAt: e.now(),
		})
	}
	e.logf("Mapped %d of %d listed jobs for %s", len(jobs), len(refs), target.Name)
	return jobs
}

// searchInPage types the query into the first visible search box and submits it.
// It reports false when the page has no search box.
func (e *Engine) searchInPage(ctx context.Context, page browser.Page, query string) (bool, error) {
	input, selector, err := browser.FirstVisible(ctx, page, SearchInputSelectors)
	if err != nil || input == nil {
		return false, err
	}
	e.logf("Searching in page via %s", selector)

	if err := input.Click(ctx); err != nil {
		return false, err
	}
	if err := input.Clear(ctx); err != nil {
		return false, err
	}
	if err := input.Type(ctx, query); err != nil {
		return false, err
	}
	if err := input.PressEnter(ctx); err != nil {
		return false, err
	}
	if err := page.Wait(ctx, e.opts.SearchWait); err != nil {
		return false, err
	}
	return true, nil
}
