package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// chromeSelectors never belong to page content.
const chromeSelectors = "nav, footer, header, script, style, noscript, svg, template, .cookie-banner, .popup"

var (
	commentRe  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blankRunRe = regexp.MustCompile(`\n\s*\n+`)
)

// mainSelection strips page chrome and noise, then returns the first element matching
// one of contentSelectors, or body.
func mainSelection(html string, contentSelectors, noiseSelectors []string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(chromeSelectors).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			return selection.First(), nil
		}
	}
	return doc.Find("body"), nil
}

// ExtractMainText returns the text of the page's main content, one non-blank line per line.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	main, err := mainSelection(html, contentSelectors, noiseSelectors)
	if err != nil {
		return "", err
	}
	return cleanLines(main.Text()), nil
}

// MainContentHTML is ExtractMainText returning inner HTML instead of text.
func MainContentHTML(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	main, err := mainSelection(html, contentSelectors, noiseSelectors)
	if err != nil {
		return "", err
	}
	out, err := main.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CompactHTML strips elements that carry no layout or form information (scripts, styles,
// inline SVG, comments, inline styles and event handlers) and truncates the result to
// maxChars runes. Unparseable input is truncated as-is.
func CompactHTML(html string, maxChars int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return truncateRunes(html, maxChars)
	}

	doc.Find("script, style, noscript, svg, link, meta, template, iframe").Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		drop := []string{"style"}
		for _, attr := range s.Nodes[0].Attr {
			if strings.HasPrefix(attr.Key, "on") || strings.HasPrefix(attr.Key, "data-v-") {
				drop = append(drop, attr.Key)
			}
		}
		for _, key := range drop {
			s.RemoveAttr(key)
		}
	})

	out, err := doc.Html()
	if err != nil {
		return truncateRunes(html, maxChars)
	}
	out = commentRe.ReplaceAllString(out, "")
	out = blankRunRe.ReplaceAllString(out, "\n")
	return truncateRunes(out, maxChars)
}

func truncateRunes(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func cleanLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
