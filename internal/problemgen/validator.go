package problemgen

import "fmt"

// Validator checks an oracle-produced problem after local repair.
type Validator interface {
	// Name identifies the validator in log output.
	Name() string

	// Validate returns nil when the problem passes.
	Validate(p *Problem, input Input) *ValidationError
}

// ValidationError describes why a problem was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
