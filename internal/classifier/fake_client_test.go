package classifier

import (
	"context"

	"github.com/jonathan/job-hunter/internal/llm"
)

// scriptedClient returns canned responses and records the prompts it was sent.
type scriptedClient struct {
	response string
	err      error
	prompts  []string
	tiers    []llm.ModelTier
	images   [][]byte
}

func (c *scriptedClient) record(prompt string, tier llm.ModelTier) {
	c.prompts = append(c.prompts, prompt)
	c.tiers = append(c.tiers, tier)
}

func (c *scriptedClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	c.record(prompt, tier)
	return c.response, c.err
}

func (c *scriptedClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	c.record(prompt, tier)
	return c.response, c.err
}

func (c *scriptedClient) GenerateVisionJSON(_ context.Context, prompt string, png []byte, tier llm.ModelTier) (string, error) {
	c.record(prompt, tier)
	c.images = append(c.images, png)
	return c.response, c.err
}

func (c *scriptedClient) GetModel(_ llm.ModelTier) string { return "scripted" }
func (c *scriptedClient) Close() error                    { return nil }
