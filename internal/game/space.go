package game

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/misparia/internal/problemgen"
)

const (
	// SpaceRows is the height of the asteroid field.
	SpaceRows = 20

	// SpaceCols is the width of the asteroid field.
	SpaceCols = 12

	spaceStep     = 100 * time.Millisecond
	spawnInterval = 2 * time.Second
	rowFallTime   = 500 * time.Millisecond
	minAsteroids  = 2
	scoreAsteroid = 20
)

// Asteroid is a falling problem in the space-defense mode.
type Asteroid struct {
	ID      int
	Col     int
	Problem problemgen.Problem
	age     time.Duration
}

// Row is the asteroid's current row, 0 at the top.
func (a Asteroid) Row() int {
	return int(a.age / rowFallTime)
}

type spaceMode struct {
	asteroids []Asteroid
	nextID    int
	acc       time.Duration
	spawnAcc  time.Duration
	input     string
}

func (s *spaceMode) start(e *Engine) bool {
	e.phase = PhaseAwaitingAnswer
	s.topUp(e)
	return false
}

func (s *spaceMode) accept(*Engine, problemgen.Problem) {}
func (s *spaceMode) settle(*Engine) bool                { return false }

func (s *spaceMode) tick(e *Engine, dt time.Duration) {
	if e.phase != PhaseAwaitingAnswer {
		return
	}
	s.acc += dt
	for s.acc >= spaceStep {
		s.acc -= spaceStep
		s.step(e)
	}
}

// step moves every asteroid down, drops the ones past the bottom and
// spawns new ones.
func (s *spaceMode) step(e *Engine) {
	kept := s.asteroids[:0]
	for _, a := range s.asteroids {
		a.age += spaceStep
		if a.Row() < SpaceRows {
			kept = append(kept, a)
		}
	}
	s.asteroids = kept

	s.spawnAcc += spaceStep
	if s.spawnAcc >= spawnInterval {
		s.spawnAcc -= spawnInterval
		s.spawn(e)
	}
	s.topUp(e)
}

func (s *spaceMode) topUp(e *Engine) {
	for len(s.asteroids) < minAsteroids {
		s.spawn(e)
	}
}

func (s *spaceMode) spawn(e *Engine) {
	s.nextID++
	s.asteroids = append(s.asteroids, Asteroid{
		ID:      s.nextID,
		Col:     e.rng.IntN(SpaceCols),
		Problem: e.local.Generate(context.Background(), e.localInput()),
	})
}

// typeInput replaces the typed answer and shoots the lowest asteroid it
// matches.
func (s *spaceMode) typeInput(e *Engine, text string) bool {
	s.input = text
	answer := strings.TrimSpace(text)
	if answer == "" {
		return false
	}

	hit := -1
	for i, a := range s.asteroids {
		if !a.Problem.IsCorrect(answer) {
			continue
		}
		if hit < 0 || a.age > s.asteroids[hit].age {
			hit = i
		}
	}
	if hit < 0 {
		return false
	}

	a := s.asteroids[hit]
	s.asteroids = append(s.asteroids[:hit], s.asteroids[hit+1:]...)
	s.input = ""
	e.score += scoreAsteroid
	e.record(a.Problem.Topic, true, xpCorrect, coinsCorrect)
	return true
}

// Type sets the space-defense input line. It reports whether the text
// destroyed an asteroid, which also clears the input.
func (e *Engine) Type(text string) bool {
	s, ok := e.variant.(*spaceMode)
	if !ok || e.phase != PhaseAwaitingAnswer {
		return false
	}
	return s.typeInput(e, text)
}
