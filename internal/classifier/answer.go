package classifier

import (
	"context"
	"net/url"
	"strings"

	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/prompts"
	"github.com/jonathan/job-hunter/internal/types"
)

const unknownCareersPage = "unknown"

// ResolveCareersPage asks the model for the company's careers page.
// It returns "" when the model does not know or answers with something that is not an http(s) URL.
func (c *Classifier) ResolveCareersPage(ctx context.Context, company, website string) (string, error) {
	template := prompts.MustGet(promptFile, "resolve-careers-page")
	prompt := prompts.Format(template, map[string]string{
		"Company": company,
		"Website": website,
	})

	responseText, err := c.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &ClassificationError{Message: "failed to resolve careers page", Cause: err}
	}

	return parseCareersURL(responseText), nil
}

func parseCareersURL(responseText string) string {
	answer := trimAnswer(responseText)
	if fields := strings.Fields(answer); len(fields) > 0 {
		answer = trimAnswer(fields[0])
	}
	if answer == "" || strings.EqualFold(answer, unknownCareersPage) {
		return ""
	}

	parsed, err := url.Parse(answer)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return answer
}

// AnswerField asks the model for the literal value of a form field: free text,
// or the exact text of one of the field's options.
func (c *Classifier) AnswerField(ctx context.Context, field types.FormField, profile *types.UserProfile, job types.JobContext) (string, error) {
	options := "(none)"
	if len(field.Options) > 0 {
		options = strings.Join(field.Options, " | ")
	}

	template := prompts.MustGet(promptFile, "answer-field")
	prompt := prompts.Format(template, map[string]string{
		"Label":          field.Label,
		"Type":           string(field.Type),
		"Options":        options,
		"Profile":        profile.Summary(maxProfileChars),
		"JobTitle":       job.Title,
		"Company":        job.Company,
		"JobDescription": types.Truncate(job.Description, 2000),
	})

	responseText, err := c.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &ClassificationError{Message: "failed to answer field " + field.Label, Cause: err}
	}

	return trimAnswer(responseText), nil
}

// trimAnswer strips whitespace, then one layer of wrapping quotes or backticks.
func trimAnswer(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
