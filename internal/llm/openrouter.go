package llm

import "errors"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider targets OpenRouter through its OpenAI-compatible
// API. Model names are OpenRouter slugs such as "google/gemini-3-flash-preview".
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newChatProvider(ProviderOpenRouter, cfg.APIKey, baseURL, cfg.Model), nil
}
