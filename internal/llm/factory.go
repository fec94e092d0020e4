package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider builds the configured provider wrapped in its middleware:
//
//	caller → rate limit → retry → logging → vendor
func NewProvider(ctx context.Context, cfg Config, sink EventSink, logger *zap.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, sink, logger)
	p = WithRetry(p, cfg.Retry, logger)
	p = WithRateLimit(p, cfg.RatePerMinute, cfg.RateBurst)
	return p, nil
}
