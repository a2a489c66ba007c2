package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("classifier.json", "classify-page")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.URL}}")

	_, err = Get("classifier.json", "no-such-prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = Get("missing.json", "classify-page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestMustGet(t *testing.T) {
	assert.NotPanics(t, func() { MustGet("classifier.json", "match-job") })
	assert.Panics(t, func() { MustGet("classifier.json", "no-such-prompt") })
}

func TestKeys(t *testing.T) {
	keys, err := Keys("classifier.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"answer-field", "classify-page", "match-job", "resolve-careers-page"}, keys)
}

func TestFormat(t *testing.T) {
	got := Format("Careers page for {{.Company}} ({{.Website}}), not {{.Other}}", map[string]string{
		"Company": "Acme",
		"Website": "https://acme.example",
	})
	assert.Equal(t, "Careers page for Acme (https://acme.example), not {{.Other}}", got)
}

func TestFormat_ValuesAreNotExpandedAgain(t *testing.T) {
	got := Format("{{.Label}} / {{.Type}}", map[string]string{
		"Label": "Enter {{.Type}}",
		"Type":  "text",
	})
	assert.Equal(t, "Enter {{.Type}} / text", got)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Placeholders("{{.B}} {{.A}} {{.B}}"))
	assert.Empty(t, Placeholders("no placeholders"))
}

func TestClassifierPromptPlaceholders(t *testing.T) {
	want := map[string][]string{
		"classify-page":        {"HTML", "URL"},
		"match-job":            {"Description", "Profile"},
		"resolve-careers-page": {"Company", "Website"},
		"answer-field":         {"Company", "JobDescription", "JobTitle", "Label", "Options", "Profile", "Type"},
	}
	for key, names := range want {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, names, Placeholders(MustGet("classifier.json", key)))
		})
	}
}
