package llm

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider re-issues requests that failed for a transient reason.
// A malformed response is given exactly one second chance; anything in
// Transient is retried until MaxAttempts is spent.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p so transient failures are retried according to cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	secondChance := true

	var err error
	for n := 0; n < attempts; n++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch {
		case IsInvalidResponse(err) && secondChance:
			secondChance = false
		case IsInvalidResponse(err), !Transient(err):
			return nil, err
		}
		if n == attempts-1 {
			break
		}

		timer := time.NewTimer(r.config.delay(n, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

// delay is the pause before attempt n+1. A rate limit's RetryAfter wins;
// otherwise the wait grows geometrically up to MaxWait with ±20% jitter.
func (c RetryConfig) delay(n int, err error) time.Duration {
	if d := RetryAfter(err); d > 0 {
		return d
	}

	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := math.Min(float64(c.InitialWait)*math.Pow(mult, float64(n)), float64(c.MaxWait))
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(max(wait, 0))
}
