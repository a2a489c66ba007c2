package discovery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnknownPosition is the title given to results no rule could name.
const UnknownPosition = "Unknown Position"

// titleBodyLines is how many body lines are searched for a title after the page title.
const titleBodyLines = 5

// jobKeywords mark a search result as job-related; one hit in the URL, title or body suffices.
var jobKeywords = []string{
	"job", "career", "hiring", "apply", "opening", "position", "vacanc", "recruit",
	"engineer", "developer", "designer", "manager", "analyst", "scientist", "architect",
	"greenhouse.io", "lever.co", "myworkdayjobs", "ashbyhq",
}

// IsJobPage reports whether a search result looks like a job posting rather than
// a generic marketing page.
func IsJobPage(link, title, body string) bool {
	haystack := strings.ToLower(link + "\n" + title + "\n" + body)
	for _, keyword := range jobKeywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// titleRule extracts a job title shape from free text.
type titleRule struct {
	name    string
	pattern *regexp.Regexp
}

// capitalizedWords matches up to n capitalized modifier words ("Senior Backend ").
const capitalizedWords = `(?:[A-Z][A-Za-z0-9+#./-]*\s+)`

// titleRules are evaluated in order; the first match wins.
var titleRules = []titleRule{
	{
		name:    "seniority-function-role",
		pattern: regexp.MustCompile(`\b` + capitalizedWords + `{0,3}(?i:engineer|developer|scientist|architect|analyst|administrator|programmer|sre)\b(?:\s+(?:I{1,3}|IV|V|[1-5])\b)?`),
	},
	{
		name:    "manager",
		pattern: regexp.MustCompile(`\b` + capitalizedWords + `{0,2}(?:Product|Program|Project|Engineering|Technical|Delivery)\s+(?i:manager|owner|director|lead)\b`),
	},
	{
		name:    "design",
		pattern: regexp.MustCompile(`\b` + capitalizedWords + `{0,3}(?i:designer|researcher)\b`),
	},
}

// ExtractTitle finds a job title in the page title, then in the first lines of body text.
// It falls back to the raw page title and finally to UnknownPosition.
func ExtractTitle(pageTitle, body string) string {
	candidates := append([]string{pageTitle}, firstLines(body, titleBodyLines)...)
	for _, text := range candidates {
		for _, rule := range titleRules {
			if match := rule.pattern.FindString(text); match != "" {
				return strings.TrimSpace(match)
			}
		}
	}

	if raw := strings.TrimSpace(pageTitle); raw != "" {
		return raw
	}
	return UnknownPosition
}

func firstLines(text string, n int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return lines
}

// companyRule extracts a company name or slug from a result URL and title.
type companyRule struct {
	name    string
	extract func(u *url.URL, title string) string
}

var (
	workdayHostRe  = regexp.MustCompile(`^([a-z0-9-]+)\.wd\d+\.myworkdayjobs\.com$`)
	linkedInAtRe   = regexp.MustCompile(`(?i)\bat\s+([^|\-–·(]+)`)
	secondLevelTLD = map[string]bool{"co": true, "com": true, "org": true, "net": true, "ac": true, "gov": true}
)

// companyRules are evaluated in order; the first non-empty extraction wins.
var companyRules = []companyRule{
	{
		name: "greenhouse",
		extract: func(u *url.URL, _ string) string {
			if !strings.Contains(u.Host, "greenhouse.io") {
				return ""
			}
			slug := firstPathSegment(u)
			if slug == "embed" {
				return u.Query().Get("for")
			}
			return slug
		},
	},
	{
		name: "lever",
		extract: func(u *url.URL, _ string) string {
			if !strings.Contains(u.Host, "lever.co") {
				return ""
			}
			return firstPathSegment(u)
		},
	},
	{
		name: "workday",
		extract: func(u *url.URL, _ string) string {
			if m := workdayHostRe.FindStringSubmatch(u.Host); m != nil {
				return m[1]
			}
			return ""
		},
	},
	{
		name: "linkedin",
		extract: func(u *url.URL, title string) string {
			if !strings.HasSuffix(u.Host, "linkedin.com") {
				return ""
			}
			if m := linkedInAtRe.FindStringSubmatch(title); m != nil {
				return strings.TrimSpace(m[1])
			}
			return ""
		},
	},
	{
		name: "second-level-domain",
		extract: func(u *url.URL, _ string) string {
			return secondLevelDomain(u.Host)
		},
	},
}

// ExtractCompany derives the hiring company from a result URL (and, for LinkedIn, its title).
// Slugs are title-cased with hyphens and underscores turned into spaces.
func ExtractCompany(link, title string) string {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Host == "" {
		return ""
	}
	parsed.Host = strings.ToLower(parsed.Host)

	for _, rule := range companyRules {
		if name := rule.extract(parsed, title); name != "" {
			return TitleCaseSlug(name)
		}
	}
	return ""
}

func firstPathSegment(u *url.URL) string {
	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			return segment
		}
	}
	return ""
}

func secondLevelDomain(host string) string {
	host = strings.TrimPrefix(host, "www.")
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	labels := strings.Split(host, ".")
	switch {
	case len(labels) < 2:
		return ""
	case len(labels) >= 3 && len(labels[len(labels)-1]) == 2 && secondLevelTLD[labels[len(labels)-2]]:
		return labels[len(labels)-3]
	default:
		return labels[len(labels)-2]
	}
}

// TitleCaseSlug turns "acme-labs" or "acme_labs" into "Acme Labs". Existing capitals are kept.
func TitleCaseSlug(slug string) string {
	slug = strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	words := strings.Fields(slug)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// IsExcluded reports whether company contains any exclusion substring, case-insensitively.
func IsExcluded(company string, exclusions []string) bool {
	lower := strings.ToLower(company)
	for _, exclusion := range exclusions {
		exclusion = strings.ToLower(strings.TrimSpace(exclusion))
		if exclusion != "" && strings.Contains(lower, exclusion) {
			return true
		}
	}
	return false
}

// minQueryWordLen is the length below which a query word is treated as matched.
const minQueryWordLen = 3

// TitleMatchesQuery reports whether at least half of the query's words appear in the title
// as case-insensitive substrings. Words shorter than three characters always count as present.
func TitleMatchesQuery(title, query string) bool {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return true
	}

	lowerTitle := strings.ToLower(title)
	matched := 0
	for _, word := range words {
		if utf8.RuneCountInString(word) < minQueryWordLen || strings.Contains(lowerTitle, word) {
			matched++
		}
	}
	return matched*2 >= len(words)
}
