package resolution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-hunter/internal/types"
)

type fakeAnswerer struct {
	answer string
	err    error
	calls  int
}

func (f *fakeAnswerer) AnswerField(_ context.Context, _ types.FormField, _ *types.UserProfile, _ types.JobContext) (string, error) {
	f.calls++
	return f.answer, f.err
}

func profile() *types.UserProfile {
	return &types.UserProfile{
		ID:        "p1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Contact: types.Contact{
			Email:    "ada@example.com",
			Phone:    "+44 20 7946 0000",
			LinkedIn: "https://linkedin.com/in/ada",
			GitHub:   "https://github.com/ada",
			Location: "London, UK",
		},
		ResumePath: "/home/ada/resume.pdf",
	}
}

func TestResolve_ExplicitWinsOverMapping(t *testing.T) {
	answerer := &fakeAnswerer{answer: "model"}
	r := NewResolver(answerer, false)

	field := types.FormField{Label: "First name", Value: "Augusta", ProfileMapping: types.AttrFirstName}
	res := r.Resolve(context.Background(), field, profile(), types.JobContext{})

	assert.Equal(t, "Augusta", res.Value)
	assert.Equal(t, types.SourceExplicit, res.Source)
	assert.Zero(t, answerer.calls)
}

func TestResolve_ProfileMapping(t *testing.T) {
	r := NewResolver(&fakeAnswerer{}, false)

	field := types.FormField{Label: "Contact", ProfileMapping: "email"}
	res := r.Resolve(context.Background(), field, profile(), types.JobContext{})

	assert.Equal(t, "ada@example.com", res.Value)
	assert.Equal(t, types.SourceProfileMapping, res.Source)
}

func TestResolve_EmptyMappingFallsThroughToLabel(t *testing.T) {
	r := NewResolver(&fakeAnswerer{}, false)

	// website is empty in the profile, label points at GitHub
	field := types.FormField{Label: "GitHub profile", ProfileMapping: types.AttrWebsite}
	res := r.Resolve(context.Background(), field, profile(), types.JobContext{})

	assert.Equal(t, "https://github.com/ada", res.Value)
	assert.Equal(t, types.SourceLabelHeuristic, res.Source)
}

func TestResolve_UnknownMappingFallsThrough(t *testing.T) {
	r := NewResolver(&fakeAnswerer{}, false)

	field := types.FormField{Label: "Last name", ProfileMapping: "favouriteColour"}
	res := r.Resolve(context.Background(), field, profile(), types.JobContext{})

	assert.Equal(t, "Lovelace", res.Value)
	assert.Equal(t, types.SourceLabelHeuristic, res.Source)
}

func TestResolve_GenerativeFallback(t *testing.T) {
	answerer := &fakeAnswerer{answer: "Because I love compilers."}
	r := NewResolver(answerer, false)

	field := types.FormField{Label: "Why do you want to work here?", Type: types.FieldTextarea}
	res := r.Resolve(context.Background(), field, profile(), types.JobContext{Title: "Compiler Engineer"})

	assert.Equal(t, "Because I love compilers.", res.Value)
	assert.Equal(t, types.SourceGenerated, res.Source)
	assert.Equal(t, 1, answerer.calls)
}

func TestResolve_GenerativeErrorYieldsEmpty(t *testing.T) {
	cause := errors.New("quota exceeded")
	r := NewResolver(&fakeAnswerer{err: cause}, true)

	res := r.Resolve(context.Background(), types.FormField{Label: "Salary expectation"}, profile(), types.JobContext{})

	assert.Empty(t, res.Value)
	assert.Equal(t, types.SourceNone, res.Source)
	assert.ErrorIs(t, res.Err, cause)
}

func TestResolve_FileFieldNeverAsksModel(t *testing.T) {
	answerer := &fakeAnswerer{answer: "resume.pdf"}
	r := NewResolver(answerer, false)

	res := r.Resolve(context.Background(), types.FormField{Label: "Attachment", Type: types.FieldFile}, profile(), types.JobContext{})

	assert.Empty(t, res.Value)
	assert.Zero(t, answerer.calls)
}

func TestResolve_NilAnswerer(t *testing.T) {
	r := NewResolver(nil, false)

	res := r.Resolve(context.Background(), types.FormField{Label: "Cover letter"}, profile(), types.JobContext{})
	assert.Empty(t, res.Value)
	assert.NoError(t, res.Err)
}

func TestResolveValue(t *testing.T) {
	r := NewResolver(&fakeAnswerer{}, false)

	value := r.ResolveValue(context.Background(), types.FormField{Label: "Upload your Resume/CV", Type: types.FieldFile}, profile(), types.JobContext{})
	require.Equal(t, "/home/ada/resume.pdf", value)
}

func TestMatchLabel(t *testing.T) {
	tests := map[string]string{
		"First Name *":           types.AttrFirstName,
		"Given name":             types.AttrFirstName,
		"Surname":                types.AttrLastName,
		"Full legal name":        types.AttrFullName,
		"Name":                   types.AttrFullName,
		"Name:":                  types.AttrFullName,
		"Company name":           "",
		"E-mail address":         types.AttrEmail,
		"Mobile phone":           types.AttrPhone,
		"Cell":                   types.AttrPhone,
		"Cellular carrier":       "",
		"LinkedIn Profile URL":   types.AttrLinkedIn,
		"GitHub":                 types.AttrGitHub,
		"Portfolio website":      types.AttrWebsite,
		"Current city":           types.AttrLocation,
		"Street address":         types.AttrLocation,
		"Ethnicity":              "",
		"Resume/CV":              types.AttrResumePath,
		"CV":                     types.AttrResumePath,
		"CVV":                    "",
		"Years of experience":    "",
		"":                       "",
		"How did you hear about": "",
	}
	for label, want := range tests {
		assert.Equal(t, want, MatchLabel(label), label)
	}
}
