package problemgen

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMemorySet_PairsAreConsistent(t *testing.T) {
	s := seeded(21)
	cards := s.GenerateMemorySet(AllTopics(), 6)
	require.Len(t, cards, 12)

	type pair struct {
		problem, answer *MemoryCard
	}
	pairs := map[string]*pair{}
	for i := range cards {
		c := &cards[i]
		assert.False(t, c.Flipped)
		assert.False(t, c.Matched)
		p := pairs[c.PairID]
		if p == nil {
			p = &pair{}
			pairs[c.PairID] = p
		}
		switch c.Kind {
		case CardProblem:
			require.Nil(t, p.problem, "duplicate problem card for %s", c.PairID)
			p.problem = c
		case CardAnswer:
			require.Nil(t, p.answer, "duplicate answer card for %s", c.PairID)
			p.answer = c
		default:
			t.Fatalf("unknown card kind %q", c.Kind)
		}
	}

	require.Len(t, pairs, 6)
	for id, p := range pairs {
		require.NotNil(t, p.problem, id)
		require.NotNil(t, p.answer, id)
		v, err := Evaluate(p.problem.Content)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(v), p.answer.Content)
		assert.Equal(t, p.problem.Topic, p.answer.Topic)
	}
}

func TestGenerateMemorySet_UniqueCardIDs(t *testing.T) {
	cards := seeded(2).GenerateMemorySet([]Topic{TopicAddition}, 8)
	ids := map[string]bool{}
	for _, c := range cards {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
	}
}

func TestGenerateMemorySet_Shuffled(t *testing.T) {
	// With a fixed seed at least one pair must end up non-adjacent.
	cards := seeded(99).GenerateMemorySet([]Topic{TopicMultiplication}, 6)
	adjacent := 0
	for i := 0; i+1 < len(cards); i += 2 {
		if cards[i].PairID == cards[i+1].PairID {
			adjacent++
		}
	}
	assert.Less(t, adjacent, 6)
}

func TestGenerateMemorySet_NonPositiveCount(t *testing.T) {
	assert.Empty(t, seeded(1).GenerateMemorySet(AllTopics(), 0))
	assert.Empty(t, seeded(1).GenerateMemorySet(AllTopics(), -3))
}
