package problemgen

import (
	"context"
	"math/rand/v2"
	"strconv"
	"testing"
)

func seeded(seed uint64) *Synthesizer {
	return NewSynthesizer(rand.New(rand.NewPCG(seed, seed+1)))
}

func TestSynthesizer_OptionsInvariant(t *testing.T) {
	s := seeded(1)
	for _, topic := range AllTopics() {
		for i := range 200 {
			p := s.Generate(context.Background(), Input{Topics: []Topic{topic}})
			if err := p.Validate(); err != nil {
				t.Fatalf("%s #%d: %v (options %v, correct %q)", topic, i, err, p.Options, p.CorrectAnswer)
			}
			if p.Topic != topic {
				t.Fatalf("expected topic %s, got %s", topic, p.Topic)
			}
			if p.IsChallenge {
				t.Fatal("generator must never flag challenges")
			}
		}
	}
}

func TestSynthesizer_QuestionEvaluatesToAnswer(t *testing.T) {
	s := seeded(7)
	for _, topic := range AllTopics() {
		for range 100 {
			p := s.Generate(context.Background(), Input{Topics: []Topic{topic}})
			got, err := Evaluate(p.Question)
			if err != nil {
				t.Fatalf("%s: question %q not computable: %v", topic, p.Question, err)
			}
			if strconv.Itoa(got) != p.CorrectAnswer {
				t.Fatalf("%s: %q evaluates to %d, answer %q", topic, p.Question, got, p.CorrectAnswer)
			}
		}
	}
}

func TestSynthesizer_Shapes(t *testing.T) {
	s := seeded(3)
	ctx := context.Background()

	p := s.Generate(ctx, Input{Topics: []Topic{TopicFractions}})
	if p.Question != "½ + ½" || p.CorrectAnswer != "1" {
		t.Errorf("fractions: got %q = %q", p.Question, p.CorrectAnswer)
	}

	for range 50 {
		p := s.Generate(ctx, Input{Topics: []Topic{TopicDivision}})
		b, _ := strconv.Atoi(p.CorrectAnswer)
		if b < 1 || b > 10 {
			t.Fatalf("division quotient %d out of operand range", b)
		}
	}
}

func TestSynthesizer_DistractorsStayNear(t *testing.T) {
	s := seeded(11)
	for range 200 {
		p := s.Generate(context.Background(), Input{Topics: []Topic{TopicAddition}})
		c, _ := strconv.Atoi(p.CorrectAnswer)
		for _, o := range p.Options {
			v, err := strconv.Atoi(o)
			if err != nil {
				t.Fatalf("non-numeric option %q", o)
			}
			if d := v - c; d < -5 || d > 4 {
				t.Fatalf("option %d too far from %d", v, c)
			}
		}
	}
}

func TestSynthesizer_OffsetRange(t *testing.T) {
	s := seeded(5)
	seen := map[int]bool{}
	for range 1000 {
		o := s.offset()
		if o == 0 || o < -5 || o > 4 {
			t.Fatalf("offset %d outside [-5,4] without zero", o)
		}
		seen[o] = true
	}
	if !seen[-5] || !seen[4] || !seen[1] {
		t.Errorf("expected both bounds and the remapped +1, saw %v", seen)
	}
}

func TestSynthesizer_PicksOnlyRequestedTopics(t *testing.T) {
	s := seeded(5)
	allowed := []Topic{TopicSubtraction, TopicMultiplication}
	seen := map[Topic]bool{}
	for range 200 {
		p := s.Generate(context.Background(), Input{Topics: allowed})
		if p.Topic != TopicSubtraction && p.Topic != TopicMultiplication {
			t.Fatalf("unexpected topic %s", p.Topic)
		}
		seen[p.Topic] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected both topics to appear, saw %v", seen)
	}
}

func TestSynthesizer_EmptyTopicsFallsBackToAddition(t *testing.T) {
	p := seeded(9).Generate(context.Background(), Input{})
	if p.Topic != TopicAddition {
		t.Errorf("expected addition, got %s", p.Topic)
	}
	if p.Difficulty != DifficultyBeginner {
		t.Errorf("expected beginner difficulty, got %s", p.Difficulty)
	}
}

func TestSynthesizer_Deterministic(t *testing.T) {
	a := seeded(42).Generate(context.Background(), Input{Topics: AllTopics()})
	b := seeded(42).Generate(context.Background(), Input{Topics: AllTopics()})
	if a.Question != b.Question || a.CorrectAnswer != b.CorrectAnswer {
		t.Errorf("same seed produced %q and %q", a.Question, b.Question)
	}
}
