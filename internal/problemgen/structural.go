package problemgen

import "unicode/utf8"

// StructuralValidator checks required fields, length limits and the option
// invariants.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem, _ Input) *ValidationError {
	switch {
	case p.Question == "":
		return v.fail("question is empty")
	case utf8.RuneCountInString(p.Question) > 200:
		return v.fail("question exceeds 200 characters")
	case p.Explanation == "":
		return v.fail("explanation is empty")
	case utf8.RuneCountInString(p.Explanation) > 500:
		return v.fail("explanation exceeds 500 characters")
	case !p.Topic.Valid():
		return v.fail("unknown topic " + string(p.Topic))
	}
	if err := p.Validate(); err != nil {
		return v.fail(err.Error())
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}
