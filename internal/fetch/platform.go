package fetch

import (
	"net/url"
	"strings"
)

// Platform is an applicant tracking system or job board recognized by host.
type Platform string

const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformAshby           Platform = "ashby"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformWorkable        Platform = "workable"
	PlatformLinkedIn        Platform = "linkedin"
	PlatformUnknown         Platform = "unknown"
)

// platformDef describes how to read and act on one platform's job pages.
type platformDef struct {
	platform Platform
	domains  []string
	apply    []string
	content  []string
	noise    []string
}

var platforms = []platformDef{
	{
		platform: PlatformGreenhouse,
		domains:  []string{"greenhouse.io"},
		apply:    []string{"#apply_button", "a[href*='#app']", "button[aria-label*='Apply']"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		domains:  []string{"lever.co"},
		apply:    []string{"a.postings-btn[href$='/apply']", ".posting-btn-submit"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		domains:  []string{"myworkdayjobs.com", "workday.com"},
		apply:    []string{"[data-automation-id='adventureButton']", "[data-automation-id='applyButton']"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		domains:  []string{"ashbyhq.com"},
		apply:    []string{"a[href$='/application']", "button[class*='ashby-job-posting-apply']"},
		content:  []string{"[class*='ashby-job-posting-description']", "[class*='_descriptionText']", "main"},
	},
	{
		platform: PlatformSmartRecruiters,
		domains:  []string{"smartrecruiters.com"},
		apply:    []string{"a#st-apply", "a[data-test='apply-button']", "oc-apply-button button"},
		content:  []string{".job-sections", "[itemprop='description']", "main"},
	},
	{
		platform: PlatformWorkable,
		domains:  []string{"workable.com"},
		apply:    []string{"a[data-ui='overview-apply-now']", "button[data-ui='apply-button']"},
		content:  []string{"[data-ui='job-description']", "section[class*='description']", "main"},
	},
	{
		platform: PlatformLinkedIn,
		domains:  []string{"linkedin.com"},
		apply:    []string{"button.jobs-apply-button", "a[data-tracking-control-name*='apply']"},
		content:  []string{".show-more-less-html__markup", ".description__text", ".jobs-description__content"},
	},
}

var genericApply = []string{
	"a[href*='/apply']",
	"a[href*='apply']",
	"button[data-qa*='apply']",
	"button[id*='apply']",
	"button[class*='apply']",
	"a[class*='apply']",
}

var genericContent = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// genericNoise is removed from every job page before its description is read:
// embedded application forms, EEO notices, share widgets and cookie banners.
var genericNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the platform from the URL's host. Subdomains match;
// look-alike hosts such as linkedin.com.example.io do not.
func DetectPlatform(rawURL string) Platform {
	if def := lookup(rawURL); def != nil {
		return def.platform
	}
	return PlatformUnknown
}

func lookup(rawURL string) *platformDef {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return nil
	}
	for i := range platforms {
		for _, domain := range platforms[i].domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return &platforms[i]
			}
		}
	}
	return nil
}

func defFor(platform Platform) *platformDef {
	for i := range platforms {
		if platforms[i].platform == platform {
			return &platforms[i]
		}
	}
	return nil
}

// ApplySelectors returns selectors for the control that opens an application form,
// platform-specific ones first.
func ApplySelectors(platform Platform) []string {
	var out []string
	if def := defFor(platform); def != nil {
		out = append(out, def.apply...)
	}
	return append(out, genericApply...)
}

// PlatformContentSelectors returns selectors for the element holding the job
// description, most specific first.
func PlatformContentSelectors(platform Platform) []string {
	if def := defFor(platform); def != nil {
		return append([]string(nil), def.content...)
	}
	return append([]string(nil), genericContent...)
}

// PlatformNoiseSelectors returns selectors for page parts that are not part of the
// description.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string(nil), genericNoise...)
	if def := defFor(platform); def != nil {
		out = append(out, def.noise...)
	}
	return out
}
