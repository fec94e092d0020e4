package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedProvider spaces out calls so a child mashing "next question"
// cannot burn through the vendor quota.
type RateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit allows perMinute calls per minute with the given burst.
// perMinute <= 0 disables limiting and returns p unchanged.
func WithRateLimit(p Provider, perMinute float64, burst int) Provider {
	if perMinute <= 0 {
		return p
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(perMinute/60), burst),
	}
}

func (r *RateLimitedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limit wait: %w", ctxErr)
		}
		// Wait refuses up front when the next token lands after the deadline.
		return nil, fmt.Errorf("rate limit wait: %w: %w", context.DeadlineExceeded, err)
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitedProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RateLimitedProvider) Unwrap() Provider {
	return r.inner
}
