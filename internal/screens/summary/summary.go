// Package summary is the game-over screen.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/misparia/internal/game"
	"github.com/abhisek/misparia/internal/router"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/layout"
	"github.com/abhisek/misparia/internal/ui/theme"
)

// SummaryScreen displays the result of a finished game.
type SummaryScreen struct {
	result   game.Result
	prevBest int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. prevBest is the mode's best score before
// this game.
func New(result game.Result, prevBest int) *SummaryScreen {
	return &SummaryScreen{result: result, prevBest: prevBest}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Game Over"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

// NewRecord reports whether the game beat the previous best.
func (s *SummaryScreen) NewRecord() bool {
	return s.result.Score > 0 && s.result.Score > s.prevBest
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "space":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw - 6).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("GAME OVER"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(res.Mode.Label()))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Gold).Bold(true).Render(fmt.Sprintf("★ %d", res.Score)))
	b.WriteString("\n")
	if s.NewRecord() {
		b.WriteString(center.Render(theme.Challenge.Render("🏆 שיא חדש!")))
		b.WriteString("\n")
	} else if s.prevBest > 0 {
		b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf("שיא: %d", s.prevBest)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	mins := int(res.Played.Minutes())
	secs := int(res.Played.Seconds()) % 60
	accuracy := 0
	if res.Answered > 0 {
		accuracy = res.Correct * 100 / res.Answered
	}
	statsLine := fmt.Sprintf("תשובות: %d   נכונות: %d   דיוק: %d%%   זמן: %d:%02d",
		res.Answered, res.Correct, accuracy, mins, secs)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))

	if res.Mode == game.ModeTower {
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Violet).Render(fmt.Sprintf("גובה המגדל: %d", res.TowerHeight)))
	}

	return components.CabinetFrame(components.ArcadeCard(b.String(), cw, theme.Primary), width, height)
}
