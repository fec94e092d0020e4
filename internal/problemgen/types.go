package problemgen

import (
	"fmt"
	"strings"
)

// Topic is one of the five arithmetic categories.
type Topic string

const (
	TopicAddition       Topic = "addition"
	TopicSubtraction    Topic = "subtraction"
	TopicMultiplication Topic = "multiplication"
	TopicDivision       Topic = "division"
	TopicFractions      Topic = "fractions"
)

var topicLabels = map[Topic]string{
	TopicAddition:       "חיבור",
	TopicSubtraction:    "חיסור",
	TopicMultiplication: "כפל",
	TopicDivision:       "חילוק",
	TopicFractions:      "שברים",
}

// AllTopics returns every topic in display order.
func AllTopics() []Topic {
	return []Topic{
		TopicAddition,
		TopicSubtraction,
		TopicMultiplication,
		TopicDivision,
		TopicFractions,
	}
}

// Label returns the Hebrew display name.
func (t Topic) Label() string {
	if l, ok := topicLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	_, ok := topicLabels[t]
	return ok
}

// ParseTopic accepts a topic key ("addition") or its Hebrew label.
func ParseTopic(s string) (Topic, error) {
	s = strings.TrimSpace(s)
	if t := Topic(strings.ToLower(s)); t.Valid() {
		return t, nil
	}
	for t, label := range topicLabels {
		if label == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// Difficulty is a coarse tier passed to the oracle.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var difficultyLabels = map[Difficulty]string{
	DifficultyBeginner:     "מתחיל",
	DifficultyIntermediate: "מתקדם",
	DifficultyAdvanced:     "אלוף",
}

// AllDifficulties returns the tiers from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// Label returns the Hebrew display name.
func (d Difficulty) Label() string {
	if l, ok := difficultyLabels[d]; ok {
		return l
	}
	return string(d)
}

// ParseDifficulty accepts a difficulty key or its Hebrew label.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	d := Difficulty(strings.ToLower(s))
	if _, ok := difficultyLabels[d]; ok {
		return d, nil
	}
	for d, label := range difficultyLabels {
		if label == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// OptionCount is the number of answer options every problem carries.
const OptionCount = 4

// Problem is a single multiple-choice arithmetic question.
type Problem struct {
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Topic         Topic      `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`

	// IsChallenge marks a boss problem. Set by the game engine, never by a
	// generator.
	IsChallenge bool `json:"isChallenge"`
}

// IsCorrect reports whether answer matches the correct answer.
func (p Problem) IsCorrect(answer string) bool {
	return strings.TrimSpace(answer) == p.CorrectAnswer
}

// Validate checks the option invariants: exactly four distinct options, one
// of which is the correct answer.
func (p Problem) Validate() error {
	if len(p.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(p.Options))
	}
	seen := make(map[string]bool, len(p.Options))
	found := false
	for _, o := range p.Options {
		if seen[o] {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = true
		if o == p.CorrectAnswer {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("correct answer %q is not among the options", p.CorrectAnswer)
	}
	return nil
}

// Input describes what kind of problem to produce.
type Input struct {
	// Topics is the allowed topic set. Must be non-empty; an empty set is
	// treated as addition only.
	Topics []Topic

	Difficulty Difficulty

	// Recent holds questions already shown in this session, newest last.
	// Sent to the oracle to reduce repeats.
	Recent []string
}

func (in Input) normalized() Input {
	out := in
	out.Topics = nil
	for _, t := range in.Topics {
		if t.Valid() {
			out.Topics = append(out.Topics, t)
		}
	}
	if len(out.Topics) == 0 {
		out.Topics = []Topic{TopicAddition}
	}
	if _, ok := difficultyLabels[out.Difficulty]; !ok {
		out.Difficulty = DifficultyBeginner
	}
	return out
}

func (in Input) allows(t Topic) bool {
	for _, x := range in.Topics {
		if x == t {
			return true
		}
	}
	return false
}

// CardKind distinguishes the two halves of a memory pair.
type CardKind string

const (
	CardProblem CardKind = "problem"
	CardAnswer  CardKind = "answer"
)

// MemoryCard is one face-down card in the matching game.
type MemoryCard struct {
	ID      string
	Content string
	Kind    CardKind
	PairID  string
	Topic   Topic
	Flipped bool
	Matched bool
}
