package problemgen

import "github.com/abhisek/misparia/internal/llm"

func topicEnum() []any {
	out := make([]any, 0, len(AllTopics()))
	for _, t := range AllTopics() {
		out = append(out, string(t))
	}
	return out
}

// ProblemSchema is the structured-output contract for oracle problems.
var ProblemSchema = &llm.Schema{
	Name:        "misparia-problem",
	Description: "A single multiple-choice arithmetic problem for a child",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"enum":        topicEnum(),
				"description": "The topic key this problem exercises; must be one of the allowed topics",
			},
			"question": map[string]any{
				"type":        "string",
				"description": "The math expression or short question, e.g. \"5 + 3\"",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 4 distinct possible answers",
			},
			"correctAnswer": map[string]any{
				"type":        "string",
				"description": "The correct answer; must equal one of the options",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "A super short, fun explanation in Hebrew",
			},
		},
		"required":             []any{"topic", "question", "options", "correctAnswer", "explanation"},
		"additionalProperties": false,
	},
}
