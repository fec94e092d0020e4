package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported provider names.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds oracle configuration. Every field can be set from the
// environment; see ConfigFromEnv.
type Config struct {
	Provider string `env:"MISPARIA_LLM_PROVIDER" envDefault:"gemini" validate:"oneof=gemini anthropic openai openrouter mock"`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single call including retries.
	Timeout time.Duration `env:"MISPARIA_LLM_TIMEOUT" envDefault:"30s"`

	// RatePerMinute caps outgoing calls; zero disables the limiter.
	RatePerMinute float64 `env:"MISPARIA_LLM_RATE_PER_MINUTE" envDefault:"30" validate:"gte=0"`
	RateBurst     int     `env:"MISPARIA_LLM_RATE_BURST" envDefault:"3" validate:"gte=0"`
}

type AnthropicConfig struct {
	APIKey string `env:"MISPARIA_ANTHROPIC_API_KEY"`
	Model  string `env:"MISPARIA_ANTHROPIC_MODEL" envDefault:"claude-haiku"`
}

type OpenAIConfig struct {
	APIKey  string `env:"MISPARIA_OPENAI_API_KEY"`
	Model   string `env:"MISPARIA_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"MISPARIA_OPENAI_BASE_URL"`
}

type GeminiConfig struct {
	APIKey string `env:"MISPARIA_GEMINI_API_KEY"`
	Model  string `env:"MISPARIA_GEMINI_MODEL" envDefault:"gemini-flash"`
}

type OpenRouterConfig struct {
	APIKey  string `env:"MISPARIA_OPENROUTER_API_KEY"`
	Model   string `env:"MISPARIA_OPENROUTER_MODEL" envDefault:"google/gemini-3-flash-preview"`
	BaseURL string `env:"MISPARIA_OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
}

// DefaultConfig returns the built-in defaults without reading the
// environment.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-3-flash-preview", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout:       30 * time.Second,
		RatePerMinute: 30,
		RateBurst:     3,
	}
}

// ConfigFromEnv reads MISPARIA_* variables over the defaults. When no
// MISPARIA key is set for the selected provider, the vendor's standard
// variable (GEMINI_API_KEY and friends) is used instead.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse oracle env: %w", err)
	}
	if cfg.APIKey() == "" {
		if k := vendorKey(cfg.Provider); k != "" {
			cfg = cfg.WithAPIKey(k)
		}
	}
	return cfg, nil
}

// DiscoverConfig probes the vendor API key variables in priority order
// (Gemini, then the bare API_KEY, OpenAI, Anthropic, OpenRouter) and
// returns a config for the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
		if k := vendorKey(p); k != "" {
			cfg.Provider = p
			return cfg.WithAPIKey(k), true
		}
	}
	return Config{}, false
}

func vendorKey(provider string) string {
	switch provider {
	case ProviderGemini:
		if k := os.Getenv("GEMINI_API_KEY"); k != "" {
			return k
		}
		return os.Getenv("API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderOpenRouter:
		return os.Getenv("OPENROUTER_API_KEY")
	}
	return ""
}

// APIKey returns the key of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// WithAPIKey returns a copy of c with the selected provider's key replaced.
func (c Config) WithAPIKey(key string) Config {
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.APIKey = key
	case ProviderOpenAI:
		c.OpenAI.APIKey = key
	case ProviderAnthropic:
		c.Anthropic.APIKey = key
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
	return c
}

// Validate checks that the selected provider has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter:
		if c.APIKey() == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

// resolveModel maps a friendly model name to a vendor model ID. Unknown
// names pass through so full IDs work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
