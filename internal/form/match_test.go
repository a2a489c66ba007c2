package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-hunter/internal/browser"
)

func TestMatchOption(t *testing.T) {
	options := []browser.Option{
		{Value: "", Text: "Select one"},
		{Value: "ca", Text: "Canada"},
		{Value: "us", Text: "United States"},
		{Value: "uk", Text: "United Kingdom"},
	}

	tests := []struct {
		name         string
		value        string
		wantIndex    int
		wantFallback bool
	}{
		{"exact text", "canada", 1, false},
		{"exact value", "UK", 3, false},
		{"text contains value", "Kingdom", 3, false},
		{"value contains text", "United States of America", 2, false},
		{"no match falls back to first non-empty", "usa", 1, true},
		{"placeholder only matches exactly", "select", 1, true},
		{"empty value", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, fallback := MatchOption(options, tt.value)
			assert.Equal(t, tt.wantIndex, idx)
			assert.Equal(t, tt.wantFallback, fallback)
		})
	}
}

func TestMatchOption_SpecScenario(t *testing.T) {
	options := []browser.Option{{Value: "", Text: "Select one"}, {Value: "us", Text: "United States"}}

	idx, fallback := MatchOption(options, "usa")
	assert.Equal(t, 1, idx)
	assert.True(t, fallback)
	assert.Equal(t, "us", options[idx].Value)
}

func TestMatchOption_NothingSelectable(t *testing.T) {
	idx, fallback := MatchOption([]browser.Option{{Value: "", Text: "--"}}, "x")
	assert.Equal(t, -1, idx)
	assert.True(t, fallback)
}

func TestMatchRadio(t *testing.T) {
	choices := []radioChoice{{value: "1", label: "Yes"}, {value: "0", label: "No, I do not"}}

	idx, fallback := matchRadio(choices, "yes")
	assert.Equal(t, 0, idx)
	assert.False(t, fallback)

	idx, fallback = matchRadio(choices, "I do not")
	assert.Equal(t, 1, idx)
	assert.False(t, fallback)

	idx, fallback = matchRadio(choices, "maybe")
	assert.Equal(t, 0, idx)
	assert.True(t, fallback)

	idx, _ = matchRadio(nil, "yes")
	assert.Equal(t, -1, idx)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "Yes", " 1 ", "y", "on"} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"false", "no", "0", "", "maybe"} {
		assert.False(t, ParseBool(v), v)
	}
}

func TestHumanPacing_WithinRange(t *testing.T) {
	p := NewHumanPacing(42)
	for i := 0; i < 100; i++ {
		d := p.DelayBefore(ActionKeystroke)
		assert.GreaterOrEqual(t, d, 40*time.Millisecond)
		assert.LessOrEqual(t, d, 140*time.Millisecond)
	}
	assert.Zero(t, p.DelayBefore("unknown"))
	assert.Zero(t, NoPacing{}.DelayBefore(ActionClick))
}
