package problemgen

import (
	"strconv"

	"github.com/google/uuid"
)

// DefaultMemoryPairs is the deck size used by the matching game.
const DefaultMemoryPairs = 6

// GenerateMemorySet deals a shuffled deck of 2*pairCount cards. Each pair
// is a locally synthesized question and its result. The oracle is never
// consulted.
func (s *Synthesizer) GenerateMemorySet(topics []Topic, pairCount int) []MemoryCard {
	if pairCount <= 0 {
		return nil
	}
	topics = Input{Topics: topics}.normalized().Topics

	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]MemoryCard, 0, 2*pairCount)
	for range pairCount {
		topic := topics[s.rng.IntN(len(topics))]
		f := s.formula(topic)
		pairID := uuid.NewString()

		cards = append(cards,
			MemoryCard{
				ID:      pairID + "-p",
				Content: f.question,
				Kind:    CardProblem,
				PairID:  pairID,
				Topic:   topic,
			},
			MemoryCard{
				ID:      pairID + "-a",
				Content: strconv.Itoa(f.value),
				Kind:    CardAnswer,
				PairID:  pairID,
				Topic:   topic,
			},
		)
	}

	s.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return cards
}
