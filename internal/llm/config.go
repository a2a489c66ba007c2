// Package llm provides the generative model client used for page classification,
// job matching and form answers.
package llm

import "time"

// ModelTier selects a model by how much judgement a request needs.
type ModelTier string

const (
	// TierLite is for short answers: single form field values, careers URL guesses.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: page classification from screenshots.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for judgement calls: scoring a job against a profile.
	TierAdvanced ModelTier = "advanced"
)

// Config holds the Gemini model settings.
type Config struct {
	Models map[ModelTier]string
	// Temperature applied to every request. Low values keep JSON output stable.
	Temperature float32
	// MaxOutputTokens caps each response; 0 leaves the model default.
	MaxOutputTokens int32
	// RequestTimeout bounds a single request; 0 means no bound beyond the caller's context.
	RequestTimeout time.Duration
}

// DefaultGeminiConfig returns the default Gemini configuration.
// Every tier must accept image input because classification sends screenshots.
func DefaultGeminiConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     0.1,
		MaxOutputTokens: 8192,
		RequestTimeout:  90 * time.Second,
	}
}

// GetModel returns the model for tier, falling back to the standard and then the lite
// model. It returns "" when none is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}
