package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	calls int
}

func (c *countingClient) GenerateContent(_ context.Context, _ string, _ ModelTier) (string, error) {
	c.calls++
	return "text", nil
}

func (c *countingClient) GenerateJSON(_ context.Context, _ string, _ ModelTier) (string, error) {
	c.calls++
	return "{}", nil
}

func (c *countingClient) GenerateVisionJSON(_ context.Context, _ string, _ []byte, _ ModelTier) (string, error) {
	c.calls++
	return "{}", nil
}

func (c *countingClient) GetModel(_ ModelTier) string { return "fake" }
func (c *countingClient) Close() error                { return nil }

func TestWithRateLimit_ZeroReturnsSameClient(t *testing.T) {
	inner := &countingClient{}
	assert.Same(t, inner, WithRateLimit(inner, 0))
}

func TestWithRateLimit_Delegates(t *testing.T) {
	inner := &countingClient{}
	client := WithRateLimit(inner, 1000)

	ctx := context.Background()
	_, err := client.GenerateContent(ctx, "p", TierLite)
	require.NoError(t, err)
	_, err = client.GenerateJSON(ctx, "p", TierStandard)
	require.NoError(t, err)
	_, err = client.GenerateVisionJSON(ctx, "p", []byte{0x89}, TierStandard)
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "fake", client.GetModel(TierLite))
}

func TestWithRateLimit_CancelledContext(t *testing.T) {
	inner := &countingClient{}
	client := WithRateLimit(inner, 0.001)

	ctx := context.Background()
	// first call consumes the only burst token
	_, err := client.GenerateContent(ctx, "p", TierLite)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = client.GenerateContent(cancelled, "p", TierLite)
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
