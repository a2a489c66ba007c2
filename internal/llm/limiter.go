package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedClient wraps a Client so that every request waits for a token first.
type RateLimitedClient struct {
	Client
	limiter *rate.Limiter
}

// WithRateLimit wraps client with a limiter allowing rps requests per second.
// A non-positive rps returns client unchanged.
func WithRateLimit(client Client, rps float64) Client {
	if rps <= 0 {
		return client
	}
	return &RateLimitedClient{
		Client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// GenerateContent waits for the limiter then delegates.
func (c *RateLimitedClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.Client.GenerateContent(ctx, prompt, tier)
}

// GenerateJSON waits for the limiter then delegates.
func (c *RateLimitedClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.Client.GenerateJSON(ctx, prompt, tier)
}

// GenerateVisionJSON waits for the limiter then delegates.
func (c *RateLimitedClient) GenerateVisionJSON(ctx context.Context, prompt string, png []byte, tier ModelTier) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.Client.GenerateVisionJSON(ctx, prompt, png, tier)
}
