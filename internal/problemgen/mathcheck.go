package problemgen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MathCheckValidator recomputes simple arithmetic questions and rejects
// problems whose claimed answer disagrees. Word problems pass through.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(p *Problem, _ Input) *ValidationError {
	computed, err := Evaluate(p.Question)
	if err != nil {
		return nil
	}
	claimed, err := strconv.Atoi(strings.TrimSpace(p.CorrectAnswer))
	if err != nil || claimed != computed {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %d but oracle claimed %q", computed, p.CorrectAnswer),
		}
	}
	return nil
}

var (
	binaryExprRe = regexp.MustCompile(`(-?\d+)\s*([+\-−*×xX÷/:])\s*(-?\d+)`)
	halfPlusHalf = regexp.MustCompile(`½\s*\+\s*½`)
)

// ErrNotComputable is returned by Evaluate for text it cannot parse.
var ErrNotComputable = errors.New("not computable")

// Evaluate computes the integer value of a question of the form "a op b"
// (with + - × * ÷ / :) or "½ + ½". Division must be exact.
func Evaluate(question string) (int, error) {
	if halfPlusHalf.MatchString(question) {
		return 1, nil
	}

	loc := binaryExprRe.FindStringSubmatchIndex(question)
	if loc == nil {
		return 0, ErrNotComputable
	}
	// Anything numeric outside the matched expression means a longer
	// expression or a word problem.
	if hasDigit(question[:loc[0]]) || hasDigit(question[loc[1]:]) {
		return 0, ErrNotComputable
	}
	m := binaryExprRe.FindStringSubmatch(question)
	a, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrNotComputable
	}
	b, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, ErrNotComputable
	}

	switch normalizeOp(m[2]) {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 || a%b != 0 {
			return 0, ErrNotComputable
		}
		return a / b, nil
	}
	return 0, ErrNotComputable
}

// normalizeOp folds the display symbols onto ASCII operators.
func normalizeOp(op string) string {
	switch op {
	case "×", "x", "X":
		return "*"
	case "÷", ":":
		return "/"
	case "−":
		return "-"
	default:
		return op
	}
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
