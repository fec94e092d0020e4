package game

import (
	"time"

	"github.com/abhisek/misparia/internal/problemgen"
)

const (
	// advanceDelay is how long the verdict stays on screen.
	advanceDelay = 1200 * time.Millisecond

	// speedMissDelay is the shorter pause after a wrong speed-run answer.
	speedMissDelay = 800 * time.Millisecond

	speedRunSeconds = 60
)

// answerer is implemented by the modes played with option buttons.
type answerer interface {
	answer(e *Engine, option string)
}

// stopwatch counts whole seconds spent waiting for an answer.
type stopwatch struct {
	acc     time.Duration
	seconds int
}

func (s *stopwatch) tick(e *Engine, dt time.Duration) {
	if e.phase != PhaseAwaitingAnswer {
		return
	}
	s.acc += dt
	for s.acc >= time.Second {
		s.acc -= time.Second
		s.seconds++
	}
}

// scoreAnswer grades option against the current problem, credits rewards
// and enters Feedback. It returns the verdict.
func scoreAnswer(e *Engine, option string, hit, miss time.Duration) bool {
	p := e.problem
	correct := p.IsCorrect(option)
	e.chosen = option

	xp, coins := 0, 0
	if correct {
		xp, coins = xpCorrect, coinsCorrect
		e.score += scoreCorrect
		if p.IsChallenge {
			xp = xpChallenge
			e.score += scoreChallenge - scoreCorrect
		}
	}
	e.record(p.Topic, correct, xp, coins)

	if correct {
		e.hold(FeedbackCorrect, hit)
	} else {
		e.hold(FeedbackIncorrect, miss)
	}
	return correct
}

type quizMode struct {
	clock stopwatch
}

func (q *quizMode) start(*Engine) bool               { return true }
func (q *quizMode) tick(e *Engine, dt time.Duration) { q.clock.tick(e, dt) }
func (q *quizMode) settle(*Engine) bool              { return true }

func (q *quizMode) answer(e *Engine, option string) {
	scoreAnswer(e, option, advanceDelay, advanceDelay)
}

func (q *quizMode) accept(e *Engine, p problemgen.Problem) {
	p.IsChallenge = e.rng.Float64() < challengeChance
	e.present(p)
}

// speedMode counts down from 60 seconds across every phase and ends the
// session at zero.
type speedMode struct {
	acc  time.Duration
	left int
}

func (s *speedMode) start(*Engine) bool  { return true }
func (s *speedMode) settle(*Engine) bool { return true }

func (s *speedMode) tick(e *Engine, dt time.Duration) {
	s.acc += dt
	for s.acc >= time.Second && s.left > 0 {
		s.acc -= time.Second
		s.left--
	}
	if s.left == 0 {
		e.end()
	}
}

func (s *speedMode) accept(e *Engine, p problemgen.Problem) {
	p.IsChallenge = false
	e.present(p)
}

func (s *speedMode) answer(e *Engine, option string) {
	scoreAnswer(e, option, advanceDelay, speedMissDelay)
}

// towerMode stacks a block per correct answer and drops one per miss.
type towerMode struct {
	clock  stopwatch
	height int
}

func (t *towerMode) start(*Engine) bool               { return true }
func (t *towerMode) tick(e *Engine, dt time.Duration) { t.clock.tick(e, dt) }
func (t *towerMode) settle(*Engine) bool              { return true }

func (t *towerMode) accept(e *Engine, p problemgen.Problem) {
	p.IsChallenge = false
	e.present(p)
}

func (t *towerMode) answer(e *Engine, option string) {
	if scoreAnswer(e, option, advanceDelay, advanceDelay) {
		t.height++
	} else {
		t.height = max(t.height-1, 0)
	}
}

// balanceMode shows the question as the known pan of a scale; the options
// are candidate weights for the other pan.
type balanceMode struct {
	clock stopwatch
}

func (b *balanceMode) start(*Engine) bool               { return true }
func (b *balanceMode) tick(e *Engine, dt time.Duration) { b.clock.tick(e, dt) }
func (b *balanceMode) settle(*Engine) bool              { return true }

func (b *balanceMode) accept(e *Engine, p problemgen.Problem) {
	p.IsChallenge = false
	e.present(p)
}

func (b *balanceMode) answer(e *Engine, option string) {
	scoreAnswer(e, option, advanceDelay, advanceDelay)
}
