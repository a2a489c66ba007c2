package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/prompts"
	"github.com/jonathan/job-hunter/internal/schemas"
	"github.com/jonathan/job-hunter/internal/types"
	schemafiles "github.com/jonathan/job-hunter/schemas"
)

// NeutralScore is assigned when the match response cannot be parsed.
const NeutralScore = 50

// MatchResult is the model's assessment of a job against a profile.
type MatchResult struct {
	Score         int      `json:"score"`
	Analysis      string   `json:"analysis"`
	MissingSkills []string `json:"missing_skills"`
	StrongMatches []string `json:"strong_matches"`
}

// MatchJobToProfile scores how well the profile fits the job description (0-100).
// An unparseable response returns NeutralScore with an explanatory analysis and no error.
func (c *Classifier) MatchJobToProfile(ctx context.Context, description string, profile *types.UserProfile) (MatchResult, error) {
	template := prompts.MustGet(promptFile, "match-job")
	prompt := prompts.Format(template, map[string]string{
		"Profile":     profile.Summary(maxProfileChars),
		"Description": types.Truncate(description, maxDescriptionChars),
	})

	responseText, err := c.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return MatchResult{}, &ClassificationError{Message: "failed to match job to profile", Cause: err}
	}

	return parseMatchResult(responseText), nil
}

func parseMatchResult(responseText string) MatchResult {
	cleaned := llm.CleanJSONBlock(responseText)

	if err := schemas.ValidateJSONString(schemafiles.MatchResult, cleaned); err != nil {
		return neutralMatch(err)
	}

	var raw struct {
		Score         float64  `json:"score"`
		Analysis      string   `json:"analysis"`
		MissingSkills []string `json:"missing_skills"`
		StrongMatches []string `json:"strong_matches"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return neutralMatch(err)
	}

	return MatchResult{
		Score:         clampScore(raw.Score),
		Analysis:      strings.TrimSpace(raw.Analysis),
		MissingSkills: nonNil(raw.MissingSkills),
		StrongMatches: nonNil(raw.StrongMatches),
	}
}

func neutralMatch(cause error) MatchResult {
	return MatchResult{
		Score:         NeutralScore,
		Analysis:      fmt.Sprintf("match analysis unavailable, response could not be parsed: %v", cause),
		MissingSkills: []string{},
		StrongMatches: []string{},
	}
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return NeutralScore
	}
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
