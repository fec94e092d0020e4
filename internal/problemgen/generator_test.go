package problemgen

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/misparia/internal/llm"
)

type staticSource struct {
	p llm.Provider
}

func (s staticSource) Provider() llm.Provider { return s.p }

func oracleJSON(topic, question string, options []string, correct string) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"topic":         topic,
		"question":      question,
		"options":       options,
		"correctAnswer": correct,
		"explanation":   "הסבר קצר",
	})
	return b
}

func newTestGenerator(p llm.Provider) *OracleGenerator {
	var src ProviderSource = staticSource{}
	if p != nil {
		src = staticSource{p: p}
	}
	return NewOracleGenerator(src, seeded(1), DefaultConfig(), nil)
}

func TestOracle_UsesOracleProblem(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: oracleJSON("multiplication", "6 × 7", []string{"40", "42", "44", "48"}, "42"),
	})
	gen := newTestGenerator(mock)

	p := gen.Generate(context.Background(), Input{
		Topics:     []Topic{TopicMultiplication},
		Difficulty: DifficultyAdvanced,
	})

	if p.Question != "6 × 7" || p.CorrectAnswer != "42" {
		t.Fatalf("expected oracle problem, got %q = %q", p.Question, p.CorrectAnswer)
	}
	if p.Difficulty != DifficultyAdvanced {
		t.Errorf("difficulty should be injected locally, got %s", p.Difficulty)
	}
	if p.Topic != TopicMultiplication {
		t.Errorf("expected multiplication, got %s", p.Topic)
	}
	if got := p.Options; len(got) != 4 || got[0] != "40" || got[3] != "48" {
		t.Errorf("well-formed options should keep oracle order, got %v", got)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != ProblemSchema {
		t.Error("expected problem schema on request")
	}
	if req.System == "" || len(req.Messages) != 1 {
		t.Error("expected system prompt and one user message")
	}
}

func TestOracle_CoercesUnrequestedTopic(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: oracleJSON("division", "3 + 4", []string{"6", "7", "8", "9"}, "7"),
	})
	p := newTestGenerator(mock).Generate(context.Background(), Input{
		Topics: []Topic{TopicSubtraction, TopicAddition},
	})
	if p.Topic != TopicSubtraction {
		t.Errorf("expected first requested topic, got %s", p.Topic)
	}
	if p.Question != "3 + 4" {
		t.Errorf("expected oracle question to be kept, got %q", p.Question)
	}
}

func TestOracle_RepairsShortOptions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: oracleJSON("addition", "5 + 3", []string{"8", "9", "9"}, "8"),
	})
	p := newTestGenerator(mock).Generate(context.Background(), Input{Topics: []Topic{TopicAddition}})

	if p.Question != "5 + 3" {
		t.Fatalf("expected repaired oracle problem, got %q", p.Question)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("repaired problem invalid: %v (%v)", err, p.Options)
	}
}

func TestOracle_InsertsMissingCorrectAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: oracleJSON("addition", "5 + 3", []string{"7", "9", "10", "11", "12"}, "8"),
	})
	p := newTestGenerator(mock).Generate(context.Background(), Input{Topics: []Topic{TopicAddition}})
	if p.Question != "5 + 3" {
		t.Fatalf("expected repaired oracle problem, got %q", p.Question)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("repaired problem invalid: %v (%v)", err, p.Options)
	}
}

func TestOracle_WrongMathFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: oracleJSON("addition", "5 + 3", []string{"7", "9", "10", "11"}, "9"),
	})
	p := newTestGenerator(mock).Generate(context.Background(), Input{Topics: []Topic{TopicAddition}})
	if p.Question == "5 + 3" && p.CorrectAnswer == "9" {
		t.Fatal("incorrect oracle math must be rejected")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("fallback problem invalid: %v", err)
	}
}

func TestOracle_ProviderErrorFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("down")},
	})
	p := newTestGenerator(mock).Generate(context.Background(), Input{Topics: []Topic{TopicDivision}})
	if p.Topic != TopicDivision {
		t.Errorf("fallback should respect topics, got %s", p.Topic)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("fallback problem invalid: %v", err)
	}
}

func TestOracle_GarbageFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
	p := newTestGenerator(mock).Generate(context.Background(), Input{Topics: []Topic{TopicAddition}})
	if err := p.Validate(); err != nil {
		t.Fatalf("fallback problem invalid: %v", err)
	}
}

func TestOracle_NoProviderUsesLocal(t *testing.T) {
	p := newTestGenerator(nil).Generate(context.Background(), Input{Topics: []Topic{TopicFractions}})
	if p.Question != "½ + ½" {
		t.Errorf("expected local fractions problem, got %q", p.Question)
	}
}
