package game

import (
	"time"

	"github.com/abhisek/misparia/internal/problemgen"
)

const (
	// matchCheckDelay is how long two face-up cards stay visible.
	matchCheckDelay = 600 * time.Millisecond

	scoreMatch = 50
)

// memoryMode is the pair-matching game. Its deck is synthesized locally, so
// it never waits on the generator.
type memoryMode struct {
	pairs int
	cards []problemgen.MemoryCard

	// first is the index of the lone face-up card, -1 when none.
	first  int
	second int
}

func (m *memoryMode) start(e *Engine) bool {
	m.cards = e.local.GenerateMemorySet(e.topics, m.pairs)
	e.phase = PhaseAwaitingAnswer
	return false
}

func (m *memoryMode) tick(*Engine, time.Duration)        {}
func (m *memoryMode) accept(*Engine, problemgen.Problem) {}

// flip turns card i face up. The second card of a turn starts the match
// check.
func (m *memoryMode) flip(e *Engine, i int) bool {
	if e.phase != PhaseAwaitingAnswer || i < 0 || i >= len(m.cards) {
		return false
	}
	c := &m.cards[i]
	if c.Flipped || c.Matched {
		return false
	}
	c.Flipped = true

	if m.first < 0 {
		m.first = i
		return true
	}
	m.second = i
	e.hold(verdict(m.cards[m.first].PairID == c.PairID), matchCheckDelay)
	return true
}

// settle resolves the pending pair.
func (m *memoryMode) settle(e *Engine) bool {
	a, b := &m.cards[m.first], &m.cards[m.second]
	if a.PairID == b.PairID {
		a.Matched, b.Matched = true, true
		e.score += scoreMatch
		e.record(a.Topic, true, xpCorrect, coinsCorrect)
	} else {
		a.Flipped, b.Flipped = false, false
	}
	m.first, m.second = -1, -1

	e.feedback = FeedbackNone
	if m.cleared() {
		e.end()
		return false
	}
	e.phase = PhaseAwaitingAnswer
	return false
}

func (m *memoryMode) cleared() bool {
	for _, c := range m.cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

// Flip turns over memory card i. It reports whether the flip was accepted:
// flips during a match check, on face-up or matched cards, or outside the
// memory mode are ignored.
func (e *Engine) Flip(i int) bool {
	m, ok := e.variant.(*memoryMode)
	if !ok {
		return false
	}
	return m.flip(e, i)
}
