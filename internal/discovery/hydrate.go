package discovery

import (
	"context"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/fetch"
	"github.com/jonathan/job-hunter/internal/types"
)

// MaxDescriptionChars bounds hydrated descriptions.
const MaxDescriptionChars = 20000

// Hydrate visits the job page and returns a new value carrying the page's description
// (as Markdown) and apply link. Only the hydrated fields are set; merge the result
// into the original with types.MergeJob.
func (e *Engine) Hydrate(ctx context.Context, page browser.Page, job types.DiscoveredJob) (types.DiscoveredJob, error) {
	if err := page.Goto(ctx, job.URL); err != nil {
		return types.DiscoveredJob{}, &DiscoveryError{Message: "failed to open job page", Cause: err}
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return types.DiscoveredJob{}, &DiscoveryError{Message: "failed to read job page", Cause: err}
	}

	base, err := page.URL(ctx)
	if err != nil || base == "" {
		base = job.URL
	}

	detail := HydrateFromHTML(html, base)
	e.logf("Hydrated %s: %d chars description, apply URL %q", job.ID, len(detail.Description), detail.ApplyURL)
	return detail, nil
}

// HydrateFromHTML extracts the description and apply link from a rendered job page.
func HydrateFromHTML(html, pageURL string) types.DiscoveredJob {
	platform := fetch.DetectPlatform(pageURL)
	return types.DiscoveredJob{
		Description: describe(html, platform),
		ApplyURL:    applyLink(html, pageURL, platform),
	}
}

func describe(html string, platform fetch.Platform) string {
	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	content, err := fetch.MainContentHTML(html, contentSelectors, noiseSelectors...)
	if err == nil && content != "" {
		md, err := htmltomarkdown.ConvertString(content)
		if err == nil && strings.TrimSpace(md) != "" {
			return types.Truncate(strings.TrimSpace(md), MaxDescriptionChars)
		}
	}

	text, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return ""
	}
	return types.Truncate(text, MaxDescriptionChars)
}

func applyLink(html, pageURL string, platform fetch.Platform) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, selector := range fetch.ApplySelectors(platform) {
		var link string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, ok := s.Attr("href")
			href = strings.TrimSpace(href)
			if !ok || href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
				return true
			}
			link = ResolveURL(pageURL, href)
			return false
		})
		if link != "" {
			return link
		}
	}
	return ""
}
