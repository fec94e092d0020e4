// Package stats folds answer events into the player's cumulative record.
package stats

import (
	"time"

	"github.com/abhisek/misparia/internal/problemgen"
)

// TopicStats counts answers for one topic.
type TopicStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent returns the success rate rounded to the nearest integer, 0 when
// nothing was answered.
func (t TopicStats) Percent() int {
	if t.Total == 0 {
		return 0
	}
	return (t.Correct*200 + t.Total) / (2 * t.Total)
}

// TopicPerformance holds one record per topic, so no topic can be missing.
type TopicPerformance struct {
	Addition       TopicStats `json:"addition"`
	Subtraction    TopicStats `json:"subtraction"`
	Multiplication TopicStats `json:"multiplication"`
	Division       TopicStats `json:"division"`
	Fractions      TopicStats `json:"fractions"`
}

// field returns a pointer to the record for t, or nil for unknown topics.
func (tp *TopicPerformance) field(t problemgen.Topic) *TopicStats {
	switch t {
	case problemgen.TopicAddition:
		return &tp.Addition
	case problemgen.TopicSubtraction:
		return &tp.Subtraction
	case problemgen.TopicMultiplication:
		return &tp.Multiplication
	case problemgen.TopicDivision:
		return &tp.Division
	case problemgen.TopicFractions:
		return &tp.Fractions
	}
	return nil
}

// Get returns the record for t.
func (tp TopicPerformance) Get(t problemgen.Topic) TopicStats {
	if f := tp.field(t); f != nil {
		return *f
	}
	return TopicStats{}
}

// UserStats is the persisted player record.
type UserStats struct {
	XP             int              `json:"xp"`
	Level          int              `json:"level"`
	Streak         int              `json:"streak"`
	Coins          int              `json:"coins"`
	GamesPlayed    int              `json:"gamesPlayed"`
	CorrectAnswers int              `json:"correctAnswers"`
	Topics         TopicPerformance `json:"topicPerformance"`
	LastAnalysis   *time.Time       `json:"lastAnalysisDate,omitempty"`
}

// Initial is the record of a brand new player.
func Initial() UserStats {
	return UserStats{Level: 1}
}

// Answer is one scored answer event.
type Answer struct {
	SessionID string
	Mode      string
	Topic     problemgen.Topic
	Correct   bool
	XP        int
	Coins     int
}

// Apply folds one answer into s. It only ever adds: negative gains count
// as zero. Level and Streak are left untouched.
func Apply(s UserStats, topic problemgen.Topic, correct bool, xpGain, coinGain int) UserStats {
	s.XP += max(xpGain, 0)
	s.Coins += max(coinGain, 0)
	s.GamesPlayed++
	if correct {
		s.CorrectAnswers++
	}
	if f := s.Topics.field(topic); f != nil {
		f.Total++
		if correct {
			f.Correct++
		}
	}
	return s
}

// Recorder receives answer events from a game session.
type Recorder interface {
	Record(a Answer)
}
