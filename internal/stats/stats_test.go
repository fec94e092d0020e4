package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/misparia/internal/problemgen"
)

func TestApply_CorrectAnswer(t *testing.T) {
	s := Apply(Initial(), problemgen.TopicAddition, true, 20, 10)

	assert.Equal(t, 20, s.XP)
	assert.Equal(t, 10, s.Coins)
	assert.Equal(t, 1, s.CorrectAnswers)
	assert.Equal(t, 1, s.GamesPlayed)
	assert.Equal(t, TopicStats{Correct: 1, Total: 1}, s.Topics.Addition)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.Streak)
}

func TestApply_IncorrectAnswer(t *testing.T) {
	s := Apply(Initial(), problemgen.TopicDivision, false, 0, 0)

	assert.Equal(t, 0, s.XP)
	assert.Equal(t, 0, s.CorrectAnswers)
	assert.Equal(t, 1, s.GamesPlayed)
	assert.Equal(t, TopicStats{Correct: 0, Total: 1}, s.Topics.Division)
}

func TestApply_NeverDecrements(t *testing.T) {
	s := Apply(Initial(), problemgen.TopicAddition, true, 20, 10)
	s = Apply(s, problemgen.TopicAddition, false, -50, -10)

	assert.Equal(t, 20, s.XP)
	assert.Equal(t, 10, s.Coins)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := Initial()
	_ = Apply(in, problemgen.TopicFractions, true, 20, 10)
	assert.Equal(t, Initial(), in)
}

func TestApply_OrderIndependent(t *testing.T) {
	type ev struct {
		topic   problemgen.Topic
		correct bool
		xp      int
	}
	events := []ev{
		{problemgen.TopicAddition, true, 20},
		{problemgen.TopicSubtraction, false, 0},
		{problemgen.TopicMultiplication, true, 50},
		{problemgen.TopicDivision, true, 20},
		{problemgen.TopicFractions, false, 0},
	}

	forward := Initial()
	for _, e := range events {
		forward = Apply(forward, e.topic, e.correct, e.xp, 10)
	}
	backward := Initial()
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		backward = Apply(backward, e.topic, e.correct, e.xp, 10)
	}

	assert.Equal(t, forward, backward)
}

func TestApply_EveryTopicPresent(t *testing.T) {
	s := Initial()
	for _, l := range s.Breakdown() {
		assert.Equal(t, TopicStats{}, l.TopicStats, l.Topic)
	}
	assert.Len(t, s.Breakdown(), len(problemgen.AllTopics()))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, TopicStats{}.Percent())
	assert.Equal(t, 67, TopicStats{Correct: 2, Total: 3}.Percent())
	assert.Equal(t, 33, TopicStats{Correct: 1, Total: 3}.Percent())
	assert.Equal(t, 100, TopicStats{Correct: 4, Total: 4}.Percent())
}

func TestSummary(t *testing.T) {
	s := Apply(Initial(), problemgen.TopicMultiplication, true, 20, 10)
	s = Apply(s, problemgen.TopicMultiplication, false, 0, 0)

	want := "חיבור: 0%\nחיסור: 0%\nכפל: 50%\nחילוק: 0%\nשברים: 0%"
	assert.Equal(t, want, Summary(s))
}
