package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/misparia/internal/problemgen"
)

// pairIndexes groups card indexes by pair id.
func pairIndexes(cards []problemgen.MemoryCard) map[string][]int {
	out := make(map[string][]int)
	for i, c := range cards {
		out[c.PairID] = append(out[c.PairID], i)
	}
	return out
}

func TestMemory_StartsWithDeck(t *testing.T) {
	e, _ := newTestEngine(t, ModeMemory)
	_, ok := e.Start(time.Now())
	assert.False(t, ok, "memory never waits on the generator")
	assert.Equal(t, PhaseAwaitingAnswer, e.Phase())

	snap := e.Snapshot()
	require.Len(t, snap.Cards, 12)
	pairs := pairIndexes(snap.Cards)
	assert.Len(t, pairs, 6)
	for _, idx := range pairs {
		require.Len(t, idx, 2)
		assert.NotEqual(t, snap.Cards[idx[0]].Kind, snap.Cards[idx[1]].Kind)
	}
}

func TestMemory_Match(t *testing.T) {
	e, rec := newTestEngine(t, ModeMemory)
	e.Start(time.Now())
	cards := e.Snapshot().Cards
	var pair []int
	for _, idx := range pairIndexes(cards) {
		pair = idx
		break
	}

	require.True(t, e.Flip(pair[0]))
	assert.False(t, e.Flip(pair[0]), "face-up card")
	require.True(t, e.Flip(pair[1]))
	assert.Equal(t, PhaseFeedback, e.Phase())
	assert.Equal(t, FeedbackCorrect, e.Snapshot().Feedback)

	other := (pair[0] + 1) % len(cards)
	if other == pair[1] {
		other = (other + 1) % len(cards)
	}
	assert.False(t, e.Flip(other), "check pending")

	e.Advance(599 * time.Millisecond)
	assert.Equal(t, PhaseFeedback, e.Phase())
	e.Advance(time.Millisecond)
	assert.Equal(t, PhaseAwaitingAnswer, e.Phase())

	snap := e.Snapshot()
	assert.True(t, snap.Cards[pair[0]].Matched)
	assert.True(t, snap.Cards[pair[1]].Matched)
	assert.Equal(t, 50, snap.Score)
	require.Len(t, rec.answers, 1)
	assert.True(t, rec.answers[0].Correct)
	assert.Equal(t, 20, rec.answers[0].XP)
	assert.Equal(t, 10, rec.answers[0].Coins)
	assert.Equal(t, cards[pair[0]].Topic, rec.answers[0].Topic)

	assert.False(t, e.Flip(pair[0]), "matched card")
}

func TestMemory_Miss(t *testing.T) {
	e, rec := newTestEngine(t, ModeMemory)
	e.Start(time.Now())
	cards := e.Snapshot().Cards

	j := 1
	for cards[j].PairID == cards[0].PairID {
		j++
	}
	require.True(t, e.Flip(0))
	require.True(t, e.Flip(j))
	assert.Equal(t, FeedbackIncorrect, e.Snapshot().Feedback)

	_, ok := e.Advance(600 * time.Millisecond)
	assert.False(t, ok)

	snap := e.Snapshot()
	assert.False(t, snap.Cards[0].Flipped)
	assert.False(t, snap.Cards[j].Flipped)
	assert.Equal(t, 0, snap.Score)
	assert.Empty(t, rec.answers)
}

func TestMemory_EndsWhenCleared(t *testing.T) {
	e, rec := newTestEngine(t, ModeMemory)
	e.Start(time.Now())

	for _, idx := range pairIndexes(e.Snapshot().Cards) {
		require.False(t, e.Ended())
		require.True(t, e.Flip(idx[0]))
		require.True(t, e.Flip(idx[1]))
		e.Next()
	}
	assert.True(t, e.Ended())
	assert.Equal(t, 300, e.Snapshot().Score)
	assert.Len(t, rec.answers, 6)
}

func TestSnake_Steering(t *testing.T) {
	e, _ := newTestEngine(t, ModeSnake)
	tk, _ := e.Start(time.Now())
	require.True(t, e.Deliver(tk, sampleProblem()))

	assert.False(t, e.Steer(Left), "reversal")
	assert.False(t, e.Steer(Right), "same axis")
	assert.True(t, e.Steer(Up))
	assert.True(t, e.Steer(Down), "heading has not changed yet")
	assert.True(t, e.Steer(Up))

	v := e.variant.(*snakeMode)
	v.foods = nil
	e.Advance(snakeStep)
	snap := e.Snapshot()
	assert.Equal(t, Up, snap.Heading)
	assert.Equal(t, Point{7, 6}, snap.Snake[0])
	assert.Len(t, snap.Snake, 3)

	assert.False(t, e.Steer(Down), "reversal")
	assert.True(t, e.Steer(Left))
}

func TestSnake_MovesOnlyWhileAwaiting(t *testing.T) {
	e, _ := newTestEngine(t, ModeSnake)
	tk, _ := e.Start(time.Now())
	e.Advance(time.Second)
	assert.Equal(t, Point{7, 7}, e.Snapshot().Snake[0])

	require.True(t, e.Deliver(tk, sampleProblem()))
	e.variant.(*snakeMode).foods = nil
	e.Advance(599 * time.Millisecond)
	assert.Equal(t, Point{8, 7}, e.Snapshot().Snake[0])
}

func TestSnake_Wraps(t *testing.T) {
	e, _ := newTestEngine(t, ModeSnake)
	tk, _ := e.Start(time.Now())
	require.True(t, e.Deliver(tk, sampleProblem()))

	v := e.variant.(*snakeMode)
	v.foods = nil
	v.body = []Point{{14, 3}, {13, 3}}
	e.Advance(snakeStep)
	assert.Equal(t, Point{0, 3}, e.Snapshot().Snake[0])
}

func TestSnake_FoodPlacement(t *testing.T) {
	e, _ := newTestEngine(t, ModeSnake)
	tk, _ := e.Start(time.Now())
	require.True(t, e.Deliver(tk, sampleProblem()))

	snap := e.Snapshot()
	require.Len(t, snap.Foods, 4)
	body := make(map[Point]bool)
	for _, b := range snap.Snake {
		body[b] = true
	}
	cells := make(map[Point]bool)
	correct := 0
	opts := make(map[string]bool)
	for _, f := range snap.Foods {
		assert.False(t, body[f.Pos], "food on the snake")
		assert.False(t, cells[f.Pos], "two foods on one cell")
		cells[f.Pos] = true
		opts[f.Option] = true
		if f.Correct {
			correct++
			assert.Equal(t, "5", f.Option)
		}
	}
	assert.Equal(t, 1, correct)
	assert.Len(t, opts, 4)
}

func TestSnake_EatCorrect(t *testing.T) {
	e, rec := newTestEngine(t, ModeSnake)
	tk, _ := e.Start(time.Now())
	require.True(t, e.Deliver(tk, sampleProblem()))

	v := e.variant.(*snakeMode)
	v.foods = []Food{{Pos: Point{8, 7}, Option: "5", Correct: true}}
	e.Advance(snakeStep)

	snap := e.Snapshot()
	assert.Len(t, snap.Snake, 4)
	assert.Equal(t, 50, snap.Score)
	assert.Equal(t, PhaseFeedback, snap.Phase)
	assert.Equal(t, FeedbackCorrect, snap.Feedback)
	assert.Empty(t, snap.Foods)
	require.Len(t, rec.answers, 1)
	assert.True(t, rec.answers[0].Correct)
	assert.Equal(t, 20, rec.answers[0].XP)
	assert.Equal(t, 10, rec.answers[0].Coins)

	tk2, ok := e.Advance(snakeBiteDelay)
	require.True(t, ok)
	assert.Equal(t, tk.Seq+1, tk2.Seq)
	assert.Len(t, e.Snapshot().Snake, 4, "snake holds still while loading")
}

func TestSnake_EatWrongShrinks(t *testing.T) {
	e, rec := newTestEngine(t, ModeSnake)
	tk, _ := e.Start(time.Now())
	require.True(t, e.Deliver(tk, sampleProblem()))

	v := e.variant.(*snakeMode)
	v.foods = []Food{{Pos: Point{8, 7}, Option: "4"}}
	e.Advance(snakeStep)

	snap := e.Snapshot()
	assert.Len(t, snap.Snake, 2)
	assert.Equal(t, Point{8, 7}, snap.Snake[0])
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, FeedbackIncorrect, snap.Feedback)
	require.Len(t, rec.answers, 1)
	assert.False(t, rec.answers[0].Correct)
}

func TestSnake_ShrinkKeepsHead(t *testing.T) {
	e, _ := newTestEngine(t, ModeSnake)
	tk, _ := e.Start(time.Now())
	require.True(t, e.Deliver(tk, sampleProblem()))

	v := e.variant.(*snakeMode)
	v.body = []Point{{7, 7}}
	v.foods = []Food{{Pos: Point{8, 7}, Option: "4"}}
	e.Advance(snakeStep)
	assert.Equal(t, []Point{{8, 7}}, e.Snapshot().Snake)
}

func TestSpace_StartsWithAsteroids(t *testing.T) {
	e, _ := newTestEngine(t, ModeSpace)
	_, ok := e.Start(time.Now())
	assert.False(t, ok)
	assert.Equal(t, PhaseAwaitingAnswer, e.Phase())

	snap := e.Snapshot()
	require.Len(t, snap.Asteroids, 2)
	for _, a := range snap.Asteroids {
		assert.NoError(t, a.Problem.Validate())
		assert.Equal(t, 0, a.Row())
		assert.GreaterOrEqual(t, a.Col, 0)
		assert.Less(t, a.Col, SpaceCols)
	}
}

func TestSpace_FallAndSpawn(t *testing.T) {
	e, _ := newTestEngine(t, ModeSpace)
	e.Start(time.Now())

	e.Advance(1900 * time.Millisecond)
	snap := e.Snapshot()
	assert.Len(t, snap.Asteroids, 2)
	assert.Equal(t, 3, snap.Asteroids[0].Row())

	e.Advance(100 * time.Millisecond)
	snap = e.Snapshot()
	assert.Len(t, snap.Asteroids, 3)
	assert.Equal(t, 4, snap.Asteroids[0].Row())
	assert.Equal(t, 0, snap.Asteroids[2].Row())
}

func TestSpace_RemovedPastBottom(t *testing.T) {
	e, _ := newTestEngine(t, ModeSpace)
	e.Start(time.Now())

	v := e.variant.(*spaceMode)
	v.asteroids = []Asteroid{{ID: 99, Problem: sampleProblem(), age: SpaceRows*rowFallTime - spaceStep}}
	e.Advance(spaceStep)

	snap := e.Snapshot()
	require.Len(t, snap.Asteroids, 2, "refilled to the minimum")
	for _, a := range snap.Asteroids {
		assert.NotEqual(t, 99, a.ID)
	}
}

func TestSpace_TypeMatchesLowestFirst(t *testing.T) {
	e, rec := newTestEngine(t, ModeSpace)
	e.Start(time.Now())

	v := e.variant.(*spaceMode)
	v.asteroids = []Asteroid{
		{ID: 1, Problem: sampleProblem(), age: time.Second},
		{ID: 2, Problem: sampleProblem(), age: 3 * time.Second},
		{ID: 3, Problem: sampleProblem()},
	}

	assert.False(t, e.Type("4"))
	assert.Equal(t, "4", e.Snapshot().Input)

	require.True(t, e.Type(" 5"))
	snap := e.Snapshot()
	assert.Empty(t, snap.Input)
	assert.Equal(t, 20, snap.Score)
	ids := []int{snap.Asteroids[0].ID, snap.Asteroids[1].ID}
	assert.Equal(t, []int{1, 3}, ids)

	require.Len(t, rec.answers, 1)
	assert.True(t, rec.answers[0].Correct)
	assert.Equal(t, problemgen.TopicAddition, rec.answers[0].Topic)
}

func TestSpace_NeverEnds(t *testing.T) {
	e, _ := newTestEngine(t, ModeSpace)
	e.Start(time.Now())
	for range 600 {
		e.Advance(100 * time.Millisecond)
	}
	assert.False(t, e.Ended())
	assert.NotEmpty(t, e.Snapshot().Asteroids)
}
