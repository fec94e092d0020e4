package game

import (
	"time"

	"github.com/abhisek/misparia/internal/problemgen"
)

const (
	// SnakeGrid is the side of the square, wrap-around snake field.
	SnakeGrid = 15

	snakeStep      = 300 * time.Millisecond
	snakeBiteDelay = 300 * time.Millisecond
	scoreBite      = 50
)

// Point is a cell on a game grid.
type Point struct {
	X, Y int
}

// Direction is a snake heading.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) horizontal() bool { return d == Left || d == Right }

// Food is one answer option placed on the snake field.
type Food struct {
	Pos     Point
	Option  string
	Correct bool
}

type snakeMode struct {
	body    []Point // head first
	heading Direction
	next    Direction
	foods   []Food
	acc     time.Duration
}

func newSnakeMode() *snakeMode {
	c := SnakeGrid / 2
	return &snakeMode{
		body:    []Point{{c, c}, {c - 1, c}, {c - 2, c}},
		heading: Right,
		next:    Right,
	}
}

func (s *snakeMode) start(*Engine) bool { return true }

func (s *snakeMode) accept(e *Engine, p problemgen.Problem) {
	p.IsChallenge = false
	e.present(p)
	s.placeFoods(e, p)
	s.acc = 0
}

func (s *snakeMode) settle(*Engine) bool {
	s.foods = nil
	return true
}

// placeFoods drops the correct option first so it always finds a cell.
func (s *snakeMode) placeFoods(e *Engine, p problemgen.Problem) {
	s.foods = s.foods[:0]
	opts := make([]string, 0, len(p.Options))
	opts = append(opts, p.CorrectAnswer)
	for _, o := range p.Options {
		if o != p.CorrectAnswer {
			opts = append(opts, o)
		}
	}
	for _, o := range opts {
		free := s.freeCells()
		if len(free) == 0 {
			return
		}
		s.foods = append(s.foods, Food{
			Pos:     free[e.rng.IntN(len(free))],
			Option:  o,
			Correct: o == p.CorrectAnswer,
		})
	}
}

func (s *snakeMode) freeCells() []Point {
	taken := make(map[Point]bool, len(s.body)+len(s.foods))
	for _, b := range s.body {
		taken[b] = true
	}
	for _, f := range s.foods {
		taken[f.Pos] = true
	}
	free := make([]Point, 0, SnakeGrid*SnakeGrid-len(taken))
	for y := range SnakeGrid {
		for x := range SnakeGrid {
			if p := (Point{x, y}); !taken[p] {
				free = append(free, p)
			}
		}
	}
	return free
}

func (s *snakeMode) tick(e *Engine, dt time.Duration) {
	if e.phase != PhaseAwaitingAnswer {
		s.acc = 0
		return
	}
	s.acc += dt
	for s.acc >= snakeStep && e.phase == PhaseAwaitingAnswer {
		s.acc -= snakeStep
		s.move(e)
	}
}

func (s *snakeMode) move(e *Engine) {
	s.heading = s.next
	dx, dy := s.heading.delta()
	h := s.body[0]
	head := Point{wrap(h.X + dx), wrap(h.Y + dy)}
	s.body = append([]Point{head}, s.body...)

	idx := -1
	for i, f := range s.foods {
		if f.Pos == head {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.body = s.body[:len(s.body)-1]
		return
	}

	food := s.foods[idx]
	e.chosen = food.Option
	s.foods = nil
	if food.Correct {
		e.score += scoreBite
		e.record(e.problem.Topic, true, xpCorrect, coinsCorrect)
		e.hold(FeedbackCorrect, snakeBiteDelay)
		return
	}
	s.body = s.body[:len(s.body)-1]
	if len(s.body) > 1 {
		s.body = s.body[:len(s.body)-1]
	}
	e.record(e.problem.Topic, false, 0, 0)
	e.hold(FeedbackIncorrect, snakeBiteDelay)
}

// steer queues a heading change for the next step. Turning back on the
// current axis is rejected.
func (s *snakeMode) steer(d Direction) bool {
	if d.horizontal() == s.heading.horizontal() {
		return false
	}
	s.next = d
	return true
}

func wrap(v int) int {
	return ((v % SnakeGrid) + SnakeGrid) % SnakeGrid
}

// Steer changes the snake's heading. It reports whether the turn was
// accepted; reversals, same-axis turns and other modes are rejected.
func (e *Engine) Steer(d Direction) bool {
	s, ok := e.variant.(*snakeMode)
	if !ok || e.phase == PhaseEnded || e.phase == PhaseIdle {
		return false
	}
	return s.steer(d)
}
