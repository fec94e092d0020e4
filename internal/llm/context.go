package llm

import "context"

type contextKey string

const purposeKey contextKey = "oracle_purpose"

// Purposes recorded with every oracle call.
const (
	PurposeProblem  = "problem-gen"
	PurposeTutor    = "tutor"
	PurposeAnalysis = "analysis"
	PurposeKeyCheck = "key-check"
)

// WithPurpose labels the calls made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
