package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(finish genai.FinishReason, parts ...genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: "model", Parts: parts}, FinishReason: finish}
}

func TestResponseText_JoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		candidate(genai.FinishReasonStop, genai.Text(`{"score": `), genai.ImageData("png", []byte{1}), genai.Text(`72}`)),
		candidate(genai.FinishReasonStop, genai.Text("ignored")),
	}}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"score": 72}`, text)
}

func TestResponseText_Empty(t *testing.T) {
	_, err := responseText(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")

	_, err = responseText(&genai.GenerateContentResponse{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestResponseText_Blocked(t *testing.T) {
	resp := &genai.GenerateContentResponse{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}}

	_, err := responseText(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt blocked")
	assert.False(t, IsFatal(err))
}

func TestResponseText_NoTextReportsFinishReason(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(genai.FinishReasonMaxTokens)}}

	_, err := responseText(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text in response")

	var providerErr *ProviderError
	assert.ErrorAs(t, err, &providerErr)
}
