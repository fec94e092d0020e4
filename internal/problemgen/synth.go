package problemgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// Synthesizer builds problems locally from operand templates. It never
// fails and never touches the network.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthesizer returns a Synthesizer drawing from rng. A nil rng is
// seeded from the clock.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Synthesizer{rng: rng}
}

// Generate picks a topic from the input set and synthesizes a problem.
func (s *Synthesizer) Generate(_ context.Context, input Input) Problem {
	input = input.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	topic := input.Topics[s.rng.IntN(len(input.Topics))]
	f := s.formula(topic)

	return Problem{
		Question:      f.question,
		Options:       s.fillOptions(f.value, []string{strconv.Itoa(f.value)}),
		CorrectAnswer: strconv.Itoa(f.value),
		Explanation:   f.explanation,
		Topic:         topic,
		Difficulty:    input.Difficulty,
	}
}

// formula is a synthesized question with its integer result.
type formula struct {
	question    string
	value       int
	explanation string
}

// operandRange is the inclusive operand range per topic.
func operandRange(Topic) (lo, hi int) {
	return 1, 10
}

// formula must be called with s.mu held.
func (s *Synthesizer) formula(topic Topic) formula {
	lo, hi := operandRange(topic)
	a := lo + s.rng.IntN(hi-lo+1)
	b := lo + s.rng.IntN(hi-lo+1)

	switch topic {
	case TopicSubtraction:
		sum := a + b
		return formula{
			question:    fmt.Sprintf("%d - %d", sum, a),
			value:       b,
			explanation: fmt.Sprintf("אם יש לך %d ומורידים %d, נשארים עם %d.", sum, a, b),
		}
	case TopicMultiplication:
		return formula{
			question:    fmt.Sprintf("%d × %d", a, b),
			value:       a * b,
			explanation: fmt.Sprintf("כפל הוא חיבור חוזר. %d פעמים %d זה %d.", a, b, a*b),
		}
	case TopicDivision:
		product := a * b
		return formula{
			question:    fmt.Sprintf("%d ÷ %d", product, a),
			value:       b,
			explanation: fmt.Sprintf("%d נכנס ב-%d בדיוק %d פעמים.", a, product, b),
		}
	case TopicFractions:
		return formula{
			question:    "½ + ½",
			value:       1,
			explanation: "חצי ועוד חצי זה שלם אחד!",
		}
	default:
		return formula{
			question:    fmt.Sprintf("%d + %d", a, b),
			value:       a + b,
			explanation: fmt.Sprintf("אם מחברים %d ועוד %d, מקבלים %d.", a, b, a+b),
		}
	}
}

// fillOptions pads opts with distinct neighbours of correct until it holds
// OptionCount values, then shuffles. Must be called with s.mu held.
func (s *Synthesizer) fillOptions(correct int, opts []string) []string {
	set := make(map[string]bool, OptionCount)
	for _, o := range opts {
		set[o] = true
	}
	for len(opts) < OptionCount {
		o := strconv.Itoa(correct + s.offset())
		if set[o] {
			continue
		}
		set[o] = true
		opts = append(opts, o)
	}
	s.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

// offset returns a nonzero perturbation in [-5, 4], with 0 mapped to +1.
func (s *Synthesizer) offset() int {
	o := s.rng.IntN(10) - 5
	if o == 0 {
		return 1
	}
	return o
}

// pad completes a partial option list around correct. Used to repair
// oracle output.
func (s *Synthesizer) pad(correct int, opts []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fillOptions(correct, opts)
}

// shuffle reorders opts in place.
func (s *Synthesizer) shuffle(opts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
}
