package stats

import (
	"fmt"
	"strings"

	"github.com/abhisek/misparia/internal/problemgen"
)

// TopicLine pairs a topic with its record.
type TopicLine struct {
	Topic problemgen.Topic
	TopicStats
}

// Breakdown lists every topic's record in display order.
func (s UserStats) Breakdown() []TopicLine {
	out := make([]TopicLine, 0, len(problemgen.AllTopics()))
	for _, t := range problemgen.AllTopics() {
		out = append(out, TopicLine{Topic: t, TopicStats: s.Topics.Get(t)})
	}
	return out
}

// Accuracy is the overall success rate in percent.
func (s UserStats) Accuracy() int {
	return TopicStats{Correct: s.CorrectAnswers, Total: s.GamesPlayed}.Percent()
}

// Summary renders one "label: NN%" line per topic.
func Summary(s UserStats) string {
	lines := make([]string, 0, 5)
	for _, l := range s.Breakdown() {
		lines = append(lines, fmt.Sprintf("%s: %d%%", l.Topic.Label(), l.Percent()))
	}
	return strings.Join(lines, "\n")
}
