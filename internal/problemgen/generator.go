package problemgen

import (
	"context"

	"github.com/abhisek/misparia/internal/llm"
)

// Generator produces arithmetic problems.
type Generator interface {
	// Generate always returns a problem satisfying Problem.Validate.
	// Failures are absorbed by falling back to local synthesis.
	Generate(ctx context.Context, input Input) Problem
}

// ProviderSource hands out the current oracle provider. A nil provider means
// no credential is configured.
type ProviderSource interface {
	Provider() llm.Provider
}
