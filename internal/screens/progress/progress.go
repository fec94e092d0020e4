// Package progress shows the player's record: per-topic accuracy, recent
// games and the Game Master analysis.
package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/game"
	"github.com/abhisek/misparia/internal/oracle"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/stats"
	"github.com/abhisek/misparia/internal/store"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/layout"
	"github.com/abhisek/misparia/internal/ui/theme"
)

// recentLimit is how many past games are listed.
const recentLimit = 8

type historyLoadedMsg struct {
	Sessions []store.GameSession
	Err      error
}

type analysisMsg struct {
	Analysis oracle.Analysis
}

// ProgressScreen displays the persisted stats and game history.
type ProgressScreen struct {
	svc      *screen.Services
	sessions []store.GameSession
	loaded   bool
	errMsg   string

	analyzing bool
	analysis  *oracle.Analysis
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a new ProgressScreen.
func New(svc *screen.Services) *ProgressScreen {
	return &ProgressScreen{svc: svc}
}

func (s *ProgressScreen) Init() tea.Cmd {
	hist := s.svc.History
	if hist == nil {
		s.loaded = true
		return nil
	}
	return func() tea.Msg {
		sessions, err := hist.QueryGameSessions(context.Background(), store.QueryOpts{Limit: recentLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "A", Description: "Analyze"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true

	case analysisMsg:
		s.analyzing = false
		s.analysis = &msg.Analysis

	case tea.KeyPressMsg:
		switch msg.String() {
		case "a", "A":
			return s, s.analyze()
		}
	}
	return s, nil
}

// analyze requests a report. Successful reports stamp the stats record.
func (s *ProgressScreen) analyze() tea.Cmd {
	if s.analyzing {
		return nil
	}
	s.analyzing = true

	client, tracker, log := s.svc.Oracle, s.svc.Stats, s.svc.Log()
	current := stats.Initial()
	if tracker != nil {
		current = tracker.Stats()
	}
	return func() tea.Msg {
		if client == nil {
			return analysisMsg{Analysis: oracle.Analysis{Text: oracle.AnalysisNoKeyReply}}
		}
		ctx := context.Background()
		a := client.Analyze(ctx, current)
		if a.Generated && tracker != nil {
			if err := tracker.MarkAnalyzed(ctx, time.Now()); err != nil {
				log.Warn("stamping analysis time failed", zap.Error(err))
			}
		}
		return analysisMsg{Analysis: a}
	}
}

func (s *ProgressScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	st := stats.Initial()
	if s.svc.Stats != nil {
		st = s.svc.Stats.Stats()
	}

	sections := []string{
		theme.Title.Render("PROGRESS"),
		renderTotals(st),
		renderTopics(st, cw),
		s.renderHistory(cw),
		s.renderAnalysis(st, cw),
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func renderTotals(st stats.UserStats) string {
	return strings.Join([]string{
		components.Badge(fmt.Sprintf("XP %d", st.XP), theme.Primary),
		components.Badge(fmt.Sprintf("● %d", st.Coins), theme.Gold),
		components.Badge(fmt.Sprintf("✓ %d/%d", st.CorrectAnswers, st.GamesPlayed), theme.Success),
		components.Badge(fmt.Sprintf("%d%%", st.Accuracy()), theme.Secondary),
	}, "   ")
}

func renderTopics(st stats.UserStats, cw int) string {
	var rows []string
	for _, line := range st.Breakdown() {
		bar := components.NewProgressBar(fmt.Sprintf("%-8s", line.Topic.Label()), float64(line.Percent())/100, true, cw-4)
		if line.Total == 0 {
			bar.Fill = theme.Border
		}
		rows = append(rows, bar.View())
	}
	return strings.Join(rows, "\n")
}

func (s *ProgressScreen) renderHistory(cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch {
	case s.errMsg != "":
		return lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + s.errMsg)
	case !s.loaded:
		return dim.Render("טוען היסטוריה...")
	case len(s.sessions) == 0:
		return dim.Italic(true).Render("עוד לא שיחקת. יאללה למשימה!")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("משחקים אחרונים"))
	b.WriteString("\n")
	for _, gs := range s.sessions {
		mode, err := game.ParseMode(gs.Mode)
		label := gs.Mode
		if err == nil {
			label = mode.Label()
		}
		accuracy := 0
		if gs.Answers > 0 {
			accuracy = gs.Correct * 100 / gs.Answers
		}
		secs := int(gs.Duration.Seconds())
		line := fmt.Sprintf("%s  %-12s ★ %-5d %3d%%  %d:%02d",
			gs.Timestamp.Format("Jan 02 15:04"), label, gs.Score, accuracy, secs/60, secs%60)
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ProgressScreen) renderAnalysis(st stats.UserStats, cw int) string {
	switch {
	case s.analyzing:
		return theme.Hint.Render("🎮 ה-Game Master מנתח...")
	case s.analysis != nil:
		border := theme.Violet
		if !s.analysis.Generated {
			border = theme.Error
		}
		return components.ArcadeCard(s.analysis.Text, cw, border)
	case st.LastAnalysis != nil:
		return theme.Hint.Render("ניתוח אחרון: " + st.LastAnalysis.Format("Jan 02 15:04") + "  ·  A לניתוח חדש")
	}
	return theme.Hint.Render("לחצו A לניתוח של ה-Game Master")
}
