package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-hunter/internal/config"
	"github.com/jonathan/job-hunter/internal/db"
	"github.com/jonathan/job-hunter/internal/hunt"
	"github.com/jonathan/job-hunter/internal/types"
)

func newSearchCommand(t *testing.T, set map[string]string) (*cobra.Command, *searchFlags) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	s := &searchFlags{}
	s.register(cmd.Flags())
	for name, value := range set {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd, s
}

func TestSearchFlags_QueryReplacesConfigSearches(t *testing.T) {
	cmd, s := newSearchCommand(t, map[string]string{
		"query":    "backend engineer",
		"location": "Berlin",
		"remote":   "true",
		"level":    "senior",
		"max-jobs": "3",
		"exclude":  "Initech,Hooli",
		"company":  "Acme",
	})
	cfg := config.Config{Searches: []types.SearchConfig{{SearchQuery: "old"}, {SearchQuery: "older"}}}

	searches, err := s.searches(cmd, &cfg)
	require.NoError(t, err)
	require.Len(t, searches, 1)

	search := searches[0]
	assert.Equal(t, "backend engineer", search.SearchQuery)
	assert.Equal(t, "Berlin", search.Location)
	assert.True(t, search.Remote)
	assert.Equal(t, "senior", search.ExperienceLevel)
	assert.Equal(t, 3, search.MaxJobs)
	assert.Equal(t, []string{"Initech", "Hooli"}, search.ExcludeCompanies)
	assert.Equal(t, []types.CompanyTarget{{Name: "Acme"}}, search.Companies)
}

func TestSearchFlags_OverridesOnlyChangedFields(t *testing.T) {
	cmd, s := newSearchCommand(t, map[string]string{"remote": "true"})
	cfg := config.Config{Searches: []types.SearchConfig{
		{SearchQuery: "go developer", Location: "Lisbon"},
		{SearchQuery: "sre", Location: "Porto", MaxJobs: 2},
	}}

	searches, err := s.searches(cmd, &cfg)
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "Lisbon", searches[0].Location)
	assert.True(t, searches[0].Remote)
	assert.Equal(t, "Porto", searches[1].Location)
	assert.Equal(t, 2, searches[1].MaxJobs)
	assert.True(t, searches[1].Remote)
}

func TestSearchFlags_RequiresQuery(t *testing.T) {
	cmd, s := newSearchCommand(t, nil)
	cfg := config.Config{}

	_, err := s.searches(cmd, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--query is required")
}

func TestSearchFlags_RejectsInvalidSearch(t *testing.T) {
	cmd, s := newSearchCommand(t, map[string]string{"query": "designer", "level": "wizard"})
	cfg := config.Config{}

	_, err := s.searches(cmd, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search 1")
}

func TestLoadProfile_RequiresPath(t *testing.T) {
	_, err := loadProfile(config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--profile is required")
}

func TestConfirmer(t *testing.T) {
	job := types.DiscoveredJob{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.example/jobs/1"}

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes spelled out", input: "Yes\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "end of input", input: "", want: false},
		{name: "no trailing newline", input: "yes", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := newConfirmer(strings.NewReader(tt.input), &out)
			assert.Equal(t, tt.want, c.Confirm(context.Background(), job))
			assert.Contains(t, out.String(), "Backend Engineer at Acme")
		})
	}
}

func TestConfirmer_CancelledContextDeclines(t *testing.T) {
	var out bytes.Buffer
	c := newConfirmer(strings.NewReader("y\n"), &out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, c.Confirm(ctx, types.DiscoveredJob{Title: "SRE"}))
	assert.Empty(t, out.String())
}

func TestRunStatus(t *testing.T) {
	assert.Equal(t, db.RunStatusCompleted, runStatus(hunt.HuntResult{Phase: hunt.PhaseCompleted}))
	assert.Equal(t, db.RunStatusCancelled, runStatus(hunt.HuntResult{Phase: hunt.PhaseCompleted, Cancelled: true}))
	assert.Equal(t, db.RunStatusError, runStatus(hunt.HuntResult{Phase: hunt.PhaseError, Err: errors.New("quota")}))
}

func TestRunCounts(t *testing.T) {
	result := hunt.HuntResult{Attempts: []types.ApplicationAttempt{
		{Outcome: types.OutcomeApplied},
		{Outcome: types.OutcomeApplied},
		{Outcome: types.OutcomeFailed},
		{Outcome: types.OutcomeSkipped},
		{Outcome: types.OutcomeUnprocessable},
	}}

	assert.Equal(t, db.RunCounts{Applied: 2, Failed: 1, Skipped: 1, Unprocessable: 1}, runCounts(result))
}

func TestCallbacks_PrintEvents(t *testing.T) {
	rt := &runtime{}
	var out bytes.Buffer
	cb := rt.callbacks(&out, "go developer", nil)

	job := types.DiscoveredJob{Title: "Go Developer", Company: "Acme"}
	cb.OnJobMatched(job, 82)
	cb.OnApplicationStart(job)
	cb.OnApplicationComplete(types.ApplicationAttempt{Job: job, Outcome: types.OutcomeSkipped, Message: "dry run"})
	cb.OnProgress(hunt.Progress{Phase: hunt.PhaseApplying, Message: "Go Developer at Acme", Current: 1, Total: 2})

	text := out.String()
	assert.Contains(t, text, "[go developer] Matched (82): Go Developer at Acme")
	assert.Contains(t, text, "[go developer] Applying: Go Developer at Acme")
	assert.Contains(t, text, "-> skipped dry run")
	assert.Contains(t, text, "[applying] Go Developer at Acme (1/2)")
	assert.Nil(t, cb.OnJobDiscovered)
	assert.Nil(t, cb.OnConfirmationRequired)
}
