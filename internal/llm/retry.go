package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig configures retries for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MISPARIA_LLM_RETRY_MAX_ATTEMPTS" envDefault:"3" validate:"gte=1,lte=10"`
	InitialWait time.Duration `env:"MISPARIA_LLM_RETRY_INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MISPARIA_LLM_RETRY_MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MISPARIA_LLM_RETRY_MULTIPLIER" envDefault:"2" validate:"gte=1"`
}

// RetryProvider retries transient errors with exponential backoff and
// ±20% jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger
}

// WithRetry wraps p with retry logic.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger.Named("retry")}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidRetried := false

	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !shouldRetry(err, &invalidRetried) || attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.logger.Debug("retrying oracle call",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) Unwrap() Provider {
	return r.inner
}

// shouldRetry reports whether err is transient. Schema failures get a
// single retry since the model may do better on a second sample.
func shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}
	if IsUnauthorized(err) {
		return false
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limits, 5xx and network errors.
	return true
}

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)

	return time.Duration(max(wait, 0))
}
