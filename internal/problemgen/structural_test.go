package problemgen

import (
	"strings"
	"testing"
)

func validProblem() *Problem {
	return &Problem{
		Question:      "3 + 4",
		Options:       []string{"6", "7", "8", "9"},
		CorrectAnswer: "7",
		Explanation:   "שלוש ועוד ארבע זה שבע.",
		Topic:         TopicAddition,
		Difficulty:    DifficultyBeginner,
	}
}

func TestStructural(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Problem)
		ok     bool
	}{
		{"valid", func(*Problem) {}, true},
		{"empty question", func(p *Problem) { p.Question = "" }, false},
		{"long question", func(p *Problem) { p.Question = strings.Repeat("א", 201) }, false},
		{"empty explanation", func(p *Problem) { p.Explanation = "" }, false},
		{"unknown topic", func(p *Problem) { p.Topic = "algebra" }, false},
		{"three options", func(p *Problem) { p.Options = p.Options[:3] }, false},
		{"duplicate option", func(p *Problem) { p.Options[0] = "7" }, false},
		{"correct missing", func(p *Problem) { p.CorrectAnswer = "10" }, false},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProblem()
			tt.mutate(p)
			err := v.Validate(p, Input{})
			if tt.ok && err != nil {
				t.Fatalf("expected pass, got %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected failure")
				}
				if err.Validator != "structural" {
					t.Errorf("expected validator %q, got %q", "structural", err.Validator)
				}
			}
		})
	}
}

func TestParseTopic(t *testing.T) {
	for _, topic := range AllTopics() {
		got, err := ParseTopic(topic.Label())
		if err != nil || got != topic {
			t.Errorf("ParseTopic(%q) = %q, %v", topic.Label(), got, err)
		}
		got, err = ParseTopic(strings.ToUpper(string(topic)))
		if err != nil || got != topic {
			t.Errorf("ParseTopic(%q) = %q, %v", topic, got, err)
		}
	}
	if _, err := ParseTopic("geometry"); err == nil {
		t.Error("expected error for unknown topic")
	}
}

func TestParseDifficulty(t *testing.T) {
	got, err := ParseDifficulty("אלוף")
	if err != nil || got != DifficultyAdvanced {
		t.Errorf("ParseDifficulty(אלוף) = %q, %v", got, err)
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}
