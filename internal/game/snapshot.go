package game

import (
	"slices"
	"time"

	"github.com/abhisek/misparia/internal/problemgen"
)

// Snapshot is a read-only copy of the session for rendering. Fields that do
// not apply to the mode are zero.
type Snapshot struct {
	SessionID string
	Mode      Mode
	Phase     Phase
	Feedback  Feedback

	// Problem is nil while loading and in the locally driven modes.
	Problem *problemgen.Problem

	// Chosen is the option picked (or eaten) in the current round.
	Chosen string

	Score    int
	Answered int
	Correct  int

	// Elapsed counts whole seconds spent on open questions.
	Elapsed int

	// TimeLeft is the speed-run countdown in seconds.
	TimeLeft int

	TowerHeight int

	Cards []problemgen.MemoryCard

	Snake   []Point
	Heading Direction
	Foods   []Food

	Asteroids []Asteroid
	Input     string

	// Played is the total session time fed through Advance.
	Played time.Duration
}

// Snapshot returns the current session state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		SessionID: e.id,
		Mode:      e.mode,
		Phase:     e.phase,
		Feedback:  e.feedback,
		Chosen:    e.chosen,
		Score:     e.score,
		Answered:  e.answered,
		Correct:   e.correct,
		Played:    e.played,
	}
	if e.problem != nil {
		p := *e.problem
		p.Options = slices.Clone(p.Options)
		s.Problem = &p
	}

	switch v := e.variant.(type) {
	case *quizMode:
		s.Elapsed = v.clock.seconds
	case *speedMode:
		s.TimeLeft = v.left
	case *towerMode:
		s.Elapsed = v.clock.seconds
		s.TowerHeight = v.height
	case *balanceMode:
		s.Elapsed = v.clock.seconds
	case *memoryMode:
		s.Cards = slices.Clone(v.cards)
	case *snakeMode:
		s.Snake = slices.Clone(v.body)
		s.Heading = v.heading
		s.Foods = slices.Clone(v.foods)
	case *spaceMode:
		s.Asteroids = slices.Clone(v.asteroids)
		s.Input = v.input
	}
	return s
}

// Result is the summary of a session, recorded when it ends.
type Result struct {
	SessionID   string
	Mode        Mode
	Score       int
	Answered    int
	Correct     int
	TowerHeight int
	StartedAt   time.Time
	Played      time.Duration
}

// Result summarizes the session so far.
func (e *Engine) Result() Result {
	r := Result{
		SessionID: e.id,
		Mode:      e.mode,
		Score:     e.score,
		Answered:  e.answered,
		Correct:   e.correct,
		StartedAt: e.started,
		Played:    e.played,
	}
	if t, ok := e.variant.(*towerMode); ok {
		r.TowerHeight = t.height
	}
	return r
}
