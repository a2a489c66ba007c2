package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/fetch"
	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/prompts"
	"github.com/jonathan/job-hunter/internal/schemas"
	"github.com/jonathan/job-hunter/internal/types"
	schemafiles "github.com/jonathan/job-hunter/schemas"
)

const promptFile = "classifier.json"

// DefaultMaxHTMLChars bounds the HTML sent alongside the screenshot.
const DefaultMaxHTMLChars = 15000

const (
	maxProfileChars     = 4000
	maxDescriptionChars = 8000
)

// Options configures a Classifier.
type Options struct {
	MaxHTMLChars int
	Verbose      bool
}

// Classifier issues model requests. It keeps no state between calls and caches nothing:
// the same URL can render differently on every visit.
type Classifier struct {
	client       llm.Client
	maxHTMLChars int
	verbose      bool
}

// New creates a Classifier on top of an LLM client.
func New(client llm.Client, opts Options) *Classifier {
	if opts.MaxHTMLChars <= 0 {
		opts.MaxHTMLChars = DefaultMaxHTMLChars
	}
	return &Classifier{
		client:       client,
		maxHTMLChars: opts.MaxHTMLChars,
		verbose:      opts.Verbose,
	}
}

// ClassifyPage captures the current page and classifies it.
func (c *Classifier) ClassifyPage(ctx context.Context, page browser.Page) (ParseResult, error) {
	snap, err := browser.Snapshot(ctx, page)
	if err != nil {
		return ParseResult{}, &ClassificationError{Message: "failed to capture page", Cause: err}
	}
	return c.Classify(ctx, snap)
}

// Classify sends one vision request for the snapshot. Malformed or invalid model output
// yields a degraded result and a nil error; the error is reserved for failed model calls.
func (c *Classifier) Classify(ctx context.Context, snap types.PageSnapshot) (ParseResult, error) {
	prompt := c.buildClassifyPrompt(snap)

	if c.verbose {
		log.Printf("[CLASSIFIER] Classifying %s (%d bytes screenshot)", snap.URL, len(snap.Screenshot))
	}

	responseText, err := c.client.GenerateVisionJSON(ctx, prompt, snap.Screenshot, llm.TierStandard)
	if err != nil {
		return ParseResult{}, &ClassificationError{Message: "failed to classify page", Cause: err}
	}

	result := parsePageAnalysis(responseText)
	if c.verbose {
		if result.IsOk() {
			a := result.Analysis()
			log.Printf("[CLASSIFIER] %s -> %s (%d jobs, %d fields)", snap.URL, a.PageType, len(a.Jobs), len(a.FormFields))
		} else {
			log.Printf("[CLASSIFIER] %s -> degraded: %s", snap.URL, result.Reason())
		}
	}
	return result, nil
}

func (c *Classifier) buildClassifyPrompt(snap types.PageSnapshot) string {
	template := prompts.MustGet(promptFile, "classify-page")
	return prompts.Format(template, map[string]string{
		"URL":  snap.URL,
		"HTML": fetch.CompactHTML(snap.HTML, c.maxHTMLChars),
	})
}

// parsePageAnalysis never fails: every problem becomes a degraded result.
func parsePageAnalysis(responseText string) ParseResult {
	cleaned := llm.CleanJSONBlock(responseText)
	if !strings.HasPrefix(cleaned, "{") {
		return Degraded("no JSON object in classifier response")
	}

	if err := schemas.ValidateJSONString(schemafiles.PageAnalysis, cleaned); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return Degraded("classifier response failed schema validation: " + validationErr.Summary())
		}
		return Degraded(fmt.Sprintf("classifier response could not be validated: %v", err))
	}

	var analysis types.PageAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return Degraded(fmt.Sprintf("failed to decode classifier response: %v", err))
	}

	return Ok(normalizeAnalysis(analysis))
}

func normalizeAnalysis(a types.PageAnalysis) types.PageAnalysis {
	a.PageType = types.NormalizePageType(strings.ToLower(strings.TrimSpace(string(a.PageType))))
	a.Title = strings.TrimSpace(a.Title)
	a.SubmitButton = strings.TrimSpace(a.SubmitButton)
	a.NextButton = strings.TrimSpace(a.NextButton)

	jobs := make([]types.JobRef, 0, len(a.Jobs))
	for _, job := range a.Jobs {
		job.Title = strings.TrimSpace(job.Title)
		job.URL = strings.TrimSpace(job.URL)
		if job.Title == "" && job.URL == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	a.Jobs = jobs

	fields := make([]types.FormField, 0, len(a.FormFields))
	for _, field := range a.FormFields {
		field.Selector = strings.TrimSpace(field.Selector)
		if field.Selector == "" {
			continue
		}
		field.Type = NormalizeFieldType(string(field.Type))
		field.Label = strings.TrimSpace(field.Label)
		field.ProfileMapping = strings.TrimSpace(field.ProfileMapping)
		fields = append(fields, field)
	}
	a.FormFields = fields

	if a.Errors == nil {
		a.Errors = []string{}
	}
	return a
}

// fieldTypeAliases maps model vocabulary onto the closed FieldType set.
var fieldTypeAliases = map[string]types.FieldType{
	"text":      types.FieldText,
	"email":     types.FieldEmail,
	"phone":     types.FieldPhone,
	"tel":       types.FieldPhone,
	"file":      types.FieldFile,
	"upload":    types.FieldFile,
	"select":    types.FieldSelect,
	"dropdown":  types.FieldSelect,
	"combobox":  types.FieldSelect,
	"checkbox":  types.FieldCheckbox,
	"radio":     types.FieldRadio,
	"textarea":  types.FieldTextarea,
	"multiline": types.FieldTextarea,
	"":          types.FieldText,
	"string":    types.FieldText,
	"number":    types.FieldText,
	"date":      types.FieldText,
	"url":       types.FieldText,
	"search":    types.FieldText,
}

// NormalizeFieldType lowercases a field type and resolves aliases. Types with no alias
// (submit, button, hidden, ...) pass through lowercased so the filler skips them.
func NormalizeFieldType(s string) types.FieldType {
	key := strings.ToLower(strings.TrimSpace(s))
	if ft, ok := fieldTypeAliases[key]; ok {
		return ft
	}
	return types.FieldType(key)
}
