package form

import (
	"strings"

	"github.com/jonathan/job-hunter/internal/browser"
)

// MatchOption picks the select option for value: exact text or value match first
// (case-insensitive), then a substring match between option text and value in either
// direction, then the first option with a non-empty value. Options with an empty value
// are placeholders and only match exactly. fallback reports that the last rule applied;
// the index is -1 when nothing is selectable.
func MatchOption(options []browser.Option, value string) (index int, fallback bool) {
	want := strings.ToLower(strings.TrimSpace(value))

	for i, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt.Text)) == want || strings.ToLower(opt.Value) == want {
			return i, false
		}
	}

	if want != "" {
		for i, opt := range options {
			text := strings.ToLower(strings.TrimSpace(opt.Text))
			if opt.Value == "" || text == "" {
				continue
			}
			if strings.Contains(text, want) || strings.Contains(want, text) {
				return i, false
			}
		}
	}

	for i, opt := range options {
		if opt.Value != "" {
			return i, true
		}
	}
	return -1, true
}

// radioChoice is one member of a radio group as seen on the page.
type radioChoice struct {
	value string
	label string
}

// matchRadio picks the group member for value by exact value or label, then by
// case-insensitive substring of either; it falls back to the first member.
func matchRadio(choices []radioChoice, value string) (index int, fallback bool) {
	want := strings.ToLower(strings.TrimSpace(value))
	if want != "" {
		for i, c := range choices {
			if strings.ToLower(c.value) == want || strings.ToLower(strings.TrimSpace(c.label)) == want {
				return i, false
			}
		}
		for i, c := range choices {
			label := strings.ToLower(strings.TrimSpace(c.label))
			v := strings.ToLower(c.value)
			if (label != "" && (strings.Contains(label, want) || strings.Contains(want, label))) ||
				(v != "" && strings.Contains(v, want)) {
				return i, false
			}
		}
	}
	if len(choices) == 0 {
		return -1, true
	}
	return 0, true
}

// ParseBool interprets a resolved checkbox value.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1", "y", "on", "checked":
		return true
	}
	return false
}
