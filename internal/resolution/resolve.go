// Package resolution decides the value to enter into each form field using a fixed
// precedence chain: explicit value, profile mapping, label keywords, then the model.
package resolution

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/job-hunter/internal/types"
)

// FieldAnswerer produces a literal field value when nothing in the profile applies.
type FieldAnswerer interface {
	AnswerField(ctx context.Context, field types.FormField, profile *types.UserProfile, job types.JobContext) (string, error)
}

// Resolution is a resolved value and the step that produced it.
// Err is set when the generative step failed; Value is then empty.
type Resolution struct {
	Value  string
	Source types.ValueSource
	Err    error
}

// Resolver holds no state between calls and never mutates the profile.
type Resolver struct {
	answerer FieldAnswerer
	verbose  bool
}

// NewResolver creates a Resolver. A nil answerer disables the generative step.
func NewResolver(answerer FieldAnswerer, verbose bool) *Resolver {
	return &Resolver{answerer: answerer, verbose: verbose}
}

// Resolve runs the precedence chain for one field. Each step is tried only when the
// previous produced nothing.
func (r *Resolver) Resolve(ctx context.Context, field types.FormField, profile *types.UserProfile, job types.JobContext) Resolution {
	if field.Value != "" {
		return Resolution{Value: field.Value, Source: types.SourceExplicit}
	}

	if field.ProfileMapping != "" {
		if value, known := profile.Attribute(field.ProfileMapping); known && value != "" {
			return Resolution{Value: value, Source: types.SourceProfileMapping}
		}
	}

	if attr := MatchLabel(field.Label); attr != "" {
		if value, _ := profile.Attribute(attr); value != "" {
			return Resolution{Value: value, Source: types.SourceLabelHeuristic}
		}
	}

	// a model cannot produce a usable file path
	if field.Type == types.FieldFile || r.answerer == nil {
		return Resolution{Source: types.SourceNone}
	}

	answer, err := r.answerer.AnswerField(ctx, field, profile, job)
	if err != nil {
		if r.verbose {
			log.Printf("[RESOLVE] Generative answer failed for %q: %v", field.Label, err)
		}
		return Resolution{Source: types.SourceNone, Err: err}
	}
	if answer == "" {
		return Resolution{Source: types.SourceNone}
	}
	return Resolution{Value: answer, Source: types.SourceGenerated}
}

// ResolveValue returns only the resolved string.
func (r *Resolver) ResolveValue(ctx context.Context, field types.FormField, profile *types.UserProfile, job types.JobContext) string {
	return r.Resolve(ctx, field, profile, job).Value
}

// labelRule maps label keywords to a canonical profile attribute.
// Keywords of four characters or fewer must match a whole word; a leading "=" requires
// the whole label to match.
type labelRule struct {
	attr     string
	keywords []string
}

// labelRules are evaluated in order; the first rule with a matching keyword wins.
var labelRules = []labelRule{
	{types.AttrFirstName, []string{"first name", "firstname", "given name", "forename", "preferred name"}},
	{types.AttrLastName, []string{"last name", "lastname", "surname", "family name"}},
	{types.AttrFullName, []string{"full name", "fullname", "legal name", "your name", "candidate name", "=name"}},
	{types.AttrEmail, []string{"email", "e-mail"}},
	{types.AttrPhone, []string{"phone", "mobile", "telephone", "cell"}},
	{types.AttrLinkedIn, []string{"linkedin"}},
	{types.AttrGitHub, []string{"github"}},
	{types.AttrWebsite, []string{"website", "portfolio", "personal site", "personal url", "blog"}},
	{types.AttrLocation, []string{"address", "location", "city"}},
	{types.AttrResumePath, []string{"resume", "résumé", "curriculum vitae", "cv"}},
}

// MatchLabel returns the profile attribute a label refers to, or "".
func MatchLabel(label string) string {
	lower := strings.Trim(strings.ToLower(label), " \t\n*:")
	if lower == "" {
		return ""
	}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' && r < 0x80
	})

	for _, rule := range labelRules {
		for _, keyword := range rule.keywords {
			if matchesKeyword(lower, words, keyword) {
				return rule.attr
			}
		}
	}
	return ""
}

func matchesKeyword(label string, words []string, keyword string) bool {
	if exact, ok := strings.CutPrefix(keyword, "="); ok {
		return label == exact
	}
	if len(keyword) > 4 || strings.Contains(keyword, " ") {
		return strings.Contains(label, keyword)
	}
	for _, word := range words {
		if word == keyword {
			return true
		}
	}
	return false
}
