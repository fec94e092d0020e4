package game

import "fmt"

// Mode identifies one of the game variants.
type Mode string

const (
	ModeQuiz    Mode = "quiz"
	ModeSpeed   Mode = "speed"
	ModeTower   Mode = "tower"
	ModeMemory  Mode = "memory"
	ModeSnake   Mode = "snake"
	ModeSpace   Mode = "space"
	ModeBalance Mode = "balance"
)

var modeLabels = map[Mode]string{
	ModeQuiz:    "חידון",
	ModeSpeed:   "ריצת מהירות",
	ModeTower:   "מגדל",
	ModeMemory:  "זיכרון",
	ModeSnake:   "נחש",
	ModeSpace:   "הגנת חלל",
	ModeBalance: "מאזניים",
}

// AllModes returns every mode in menu order.
func AllModes() []Mode {
	return []Mode{ModeQuiz, ModeSpeed, ModeTower, ModeMemory, ModeSnake, ModeSpace, ModeBalance}
}

// Label returns the Hebrew display name.
func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

// ParseMode accepts a mode key.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modeLabels[m]; !ok {
		return "", fmt.Errorf("unknown game mode %q", s)
	}
	return m, nil
}

// Phase is the engine's position in the round cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseAwaitingAnswer
	PhaseFeedback
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseAwaitingAnswer:
		return "awaiting-answer"
	case PhaseFeedback:
		return "feedback"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Feedback is the verdict on the last answer.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

func verdict(correct bool) Feedback {
	if correct {
		return FeedbackCorrect
	}
	return FeedbackIncorrect
}
