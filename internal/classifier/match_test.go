package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/types"
)

func testProfile() *types.UserProfile {
	return &types.UserProfile{
		ID:        "p1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Contact:   types.Contact{Email: "ada@example.com", Location: "London"},
		Skills:    []string{"Go", "PostgreSQL"},
	}
}

func TestMatchJobToProfile(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantScore int
	}{
		{"valid", `{"score": 82, "analysis": "Strong Go background.", "missing_skills": ["Kafka"], "strong_matches": ["Go"]}`, 82},
		{"fractional rounds", `{"score": 67.6}`, 68},
		{"clamped high", `{"score": 140}`, 100},
		{"clamped low", `{"score": -5}`, 0},
		{"unparseable", "no idea", NeutralScore},
		{"schema violation", `{"score": "high"}`, NeutralScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{response: tt.response}
			c := New(client, Options{})

			result, err := c.MatchJobToProfile(context.Background(), "We need a Go engineer.", testProfile())
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.NotNil(t, result.MissingSkills)
			assert.NotNil(t, result.StrongMatches)
			assert.Equal(t, llm.TierAdvanced, client.tiers[0])
		})
	}
}

func TestMatchJobToProfile_UnparseableExplains(t *testing.T) {
	c := New(&scriptedClient{response: "garbage"}, Options{})

	result, err := c.MatchJobToProfile(context.Background(), "desc", testProfile())
	require.NoError(t, err)
	assert.Contains(t, result.Analysis, "could not be parsed")
}

func TestMatchJobToProfile_PromptContents(t *testing.T) {
	client := &scriptedClient{response: `{"score": 10}`}
	c := New(client, Options{})

	_, err := c.MatchJobToProfile(context.Background(), "Kubernetes operators in Go", testProfile())
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "Kubernetes operators in Go")
	assert.Contains(t, client.prompts[0], "Ada Lovelace")
	assert.Contains(t, client.prompts[0], "PostgreSQL")
}

func TestMatchJobToProfile_ProviderError(t *testing.T) {
	c := New(&scriptedClient{err: errors.New("boom")}, Options{})

	_, err := c.MatchJobToProfile(context.Background(), "desc", testProfile())
	assert.Error(t, err)
}

func TestResolveCareersPage(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"plain url", "https://acme.com/careers", "https://acme.com/careers"},
		{"backticks and whitespace", "  `https://jobs.acme.com`\n", "https://jobs.acme.com"},
		{"quoted", `"https://acme.com/jobs"`, "https://acme.com/jobs"},
		{"unknown sentinel", "unknown", ""},
		{"unknown capitalized", "Unknown", ""},
		{"not a url", "I am not sure", ""},
		{"bare domain", "acme.com/careers", ""},
		{"ftp scheme", "ftp://acme.com/careers", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{response: tt.response}
			c := New(client, Options{})

			got, err := c.ResolveCareersPage(context.Background(), "Acme", "https://acme.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, llm.TierLite, client.tiers[0])
		})
	}
}

func TestAnswerField(t *testing.T) {
	client := &scriptedClient{response: "  \"Yes\"  "}
	c := New(client, Options{})

	field := types.FormField{
		Selector: "#sponsorship",
		Type:     types.FieldSelect,
		Label:    "Will you require sponsorship?",
		Options:  []string{"Yes", "No"},
	}
	job := types.JobContext{Title: "Backend Engineer", Company: "Acme"}

	answer, err := c.AnswerField(context.Background(), field, testProfile(), job)
	require.NoError(t, err)
	assert.Equal(t, "Yes", answer)

	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Will you require sponsorship?")
	assert.Contains(t, prompt, "Yes | No")
	assert.Contains(t, prompt, "Backend Engineer at Acme")
}

func TestAnswerField_ProviderError(t *testing.T) {
	c := New(&scriptedClient{err: errors.New("quota")}, Options{})

	_, err := c.AnswerField(context.Background(), types.FormField{Label: "Why us?"}, testProfile(), types.JobContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Why us?")
}

func TestTrimAnswer(t *testing.T) {
	assert.Equal(t, "hello", trimAnswer(" 'hello' "))
	assert.Equal(t, "it's", trimAnswer("it's"))
	assert.Equal(t, `"`, trimAnswer(`"`))
}
