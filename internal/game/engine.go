// Package game runs one play session of any game mode: it paces rounds,
// scores answers and reports them to a stats recorder.
//
// An Engine is not safe for concurrent use. It is owned by a single event
// loop; problem fetches happen elsewhere and come back through Deliver with
// the Ticket that requested them.
package game

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/misparia/internal/problemgen"
	"github.com/abhisek/misparia/internal/stats"
)

// Rewards shared by the modes.
const (
	xpCorrect      = 20
	xpChallenge    = 50
	coinsCorrect   = 10
	scoreCorrect   = 100
	scoreChallenge = 500

	// challengeChance is the probability a quiz problem becomes a boss round.
	challengeChance = 0.2

	// maxRecent bounds the question history sent with each request.
	maxRecent = 10
)

// Ticket identifies one outstanding problem request.
type Ticket struct {
	SessionID string
	Seq       uint64

	// Input is what the generator should be asked for.
	Input problemgen.Input
}

// Config selects the mode and the problem mix of a session.
type Config struct {
	Mode       Mode
	Topics     []problemgen.Topic
	Difficulty problemgen.Difficulty

	// MemoryPairs is the deck size of the matching game. Zero means
	// problemgen.DefaultMemoryPairs.
	MemoryPairs int

	// Rand drives challenge rolls, food placement and asteroid spawns. A
	// nil Rand is seeded from the clock.
	Rand *rand.Rand
}

// variant is the per-mode half of the engine. The set of implementations is
// closed: one per Mode.
type variant interface {
	// start prepares the mode and reports whether a problem must be fetched.
	start(e *Engine) bool

	// tick advances mode timers by dt.
	tick(e *Engine, dt time.Duration)

	// accept installs a delivered problem.
	accept(e *Engine, p problemgen.Problem)

	// settle runs when the feedback delay is over and reports whether a new
	// problem must be fetched.
	settle(e *Engine) bool
}

// Engine is one game session.
type Engine struct {
	id      string
	mode    Mode
	topics  []problemgen.Topic
	diff    problemgen.Difficulty
	local   *problemgen.Synthesizer
	rec     stats.Recorder
	rng     *rand.Rand
	variant variant

	phase    Phase
	feedback Feedback
	problem  *problemgen.Problem
	chosen   string
	delay    time.Duration

	seq     uint64
	recent  []string
	started time.Time
	played  time.Duration

	score    int
	answered int
	correct  int
}

// NewEngine creates an idle session. local synthesizes the problems of the
// modes that never wait on the generator; rec may be nil.
func NewEngine(cfg Config, local *problemgen.Synthesizer, rec stats.Recorder) *Engine {
	rng := cfg.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if local == nil {
		local = problemgen.NewSynthesizer(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
	}
	topics := slices.Clone(cfg.Topics)
	if len(topics) == 0 {
		topics = []problemgen.Topic{problemgen.TopicAddition}
	}
	diff := cfg.Difficulty
	if diff == "" {
		diff = problemgen.DifficultyBeginner
	}

	e := &Engine{
		id:     uuid.NewString(),
		mode:   cfg.Mode,
		topics: topics,
		diff:   diff,
		local:  local,
		rec:    rec,
		rng:    rng,
	}
	e.variant = newVariant(cfg)
	return e
}

func newVariant(cfg Config) variant {
	switch cfg.Mode {
	case ModeSpeed:
		return &speedMode{left: speedRunSeconds}
	case ModeTower:
		return &towerMode{}
	case ModeMemory:
		pairs := cfg.MemoryPairs
		if pairs <= 0 {
			pairs = problemgen.DefaultMemoryPairs
		}
		return &memoryMode{pairs: pairs, first: -1}
	case ModeSnake:
		return newSnakeMode()
	case ModeSpace:
		return &spaceMode{}
	case ModeBalance:
		return &balanceMode{}
	default:
		return &quizMode{}
	}
}

// SessionID returns the session's uuid.
func (e *Engine) SessionID() string { return e.id }

// Mode returns the session's mode.
func (e *Engine) Mode() Mode { return e.mode }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Start begins the session. The returned ticket is valid when ok is true and
// must be answered with Deliver.
func (e *Engine) Start(now time.Time) (t Ticket, ok bool) {
	if e.phase != PhaseIdle {
		return Ticket{}, false
	}
	e.started = now
	if e.variant.start(e) {
		return e.request(), true
	}
	return Ticket{}, false
}

// Deliver installs a fetched problem. Deliveries for another session, for a
// superseded request, or after the session ended are ignored and reported
// as false.
func (e *Engine) Deliver(t Ticket, p problemgen.Problem) bool {
	if e.phase != PhaseLoading || t.SessionID != e.id || t.Seq != e.seq {
		return false
	}
	e.remember(p.Question)
	e.variant.accept(e, p)
	return true
}

// Advance moves session time forward by dt. A ticket is returned when the
// feedback delay elapsed and the mode wants the next problem.
func (e *Engine) Advance(dt time.Duration) (t Ticket, ok bool) {
	if dt <= 0 || e.phase == PhaseIdle || e.phase == PhaseEnded {
		return Ticket{}, false
	}
	e.played += dt

	if e.phase == PhaseFeedback && e.delay > 0 {
		e.delay -= dt
		if e.delay <= 0 {
			t, ok = e.settle()
		}
	}
	e.variant.tick(e, dt)
	if e.phase == PhaseEnded {
		return Ticket{}, false
	}
	return t, ok
}

// Next skips the rest of the feedback delay.
func (e *Engine) Next() (Ticket, bool) {
	if e.phase != PhaseFeedback {
		return Ticket{}, false
	}
	return e.settle()
}

// Answer submits one of the current problem's options. It reports whether
// the answer was accepted; modes without option buttons reject it.
func (e *Engine) Answer(option string) bool {
	if e.phase != PhaseAwaitingAnswer || e.problem == nil {
		return false
	}
	a, ok := e.variant.(answerer)
	if !ok {
		return false
	}
	a.answer(e, option)
	return true
}

// Exit ends the session early. It is a no-op once ended.
func (e *Engine) Exit() {
	e.end()
}

// Ended reports whether the session is over.
func (e *Engine) Ended() bool { return e.phase == PhaseEnded }

func (e *Engine) end() {
	if e.phase == PhaseEnded {
		return
	}
	e.phase = PhaseEnded
	e.delay = 0
}

func (e *Engine) settle() (Ticket, bool) {
	e.delay = 0
	if e.variant.settle(e) {
		return e.request(), true
	}
	return Ticket{}, false
}

// request opens a new problem request and supersedes any older one.
func (e *Engine) request() Ticket {
	e.seq++
	e.phase = PhaseLoading
	e.feedback = FeedbackNone
	e.problem = nil
	e.chosen = ""
	return Ticket{
		SessionID: e.id,
		Seq:       e.seq,
		Input: problemgen.Input{
			Topics:     slices.Clone(e.topics),
			Difficulty: e.diff,
			Recent:     slices.Clone(e.recent),
		},
	}
}

func (e *Engine) remember(q string) {
	if q == "" {
		return
	}
	e.recent = append(e.recent, q)
	if len(e.recent) > maxRecent {
		e.recent = e.recent[len(e.recent)-maxRecent:]
	}
}

// present shows p and waits for input.
func (e *Engine) present(p problemgen.Problem) {
	e.problem = &p
	e.phase = PhaseAwaitingAnswer
	e.feedback = FeedbackNone
	e.chosen = ""
}

// hold enters Feedback for d.
func (e *Engine) hold(f Feedback, d time.Duration) {
	e.phase = PhaseFeedback
	e.feedback = f
	e.delay = d
}

// record counts an answer and forwards it to the recorder.
func (e *Engine) record(topic problemgen.Topic, correct bool, xp, coins int) {
	e.answered++
	if correct {
		e.correct++
	}
	if e.rec == nil {
		return
	}
	e.rec.Record(stats.Answer{
		SessionID: e.id,
		Mode:      string(e.mode),
		Topic:     topic,
		Correct:   correct,
		XP:        xp,
		Coins:     coins,
	})
}

// localInput is the input used for synchronous synthesis.
func (e *Engine) localInput() problemgen.Input {
	return problemgen.Input{Topics: e.topics, Difficulty: e.diff}
}
