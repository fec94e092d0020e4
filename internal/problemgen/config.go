package problemgen

import "time"

// Config controls the oracle-backed generator.
type Config struct {
	// Validators run in order on every repaired oracle problem. The first
	// failure discards the problem.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// Timeout bounds a single oracle call, retries included.
	Timeout time.Duration

	// MaxRecent caps how many recent questions are listed in the prompt.
	MaxRecent int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&MathCheckValidator{},
		},
		MaxTokens:   512,
		Temperature: 0.9,
		Timeout:     20 * time.Second,
		MaxRecent:   8,
	}
}
