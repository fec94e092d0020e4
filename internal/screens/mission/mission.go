// Package mission is the pre-game setup screen: topics, difficulty and
// game mode.
package mission

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/misparia/internal/game"
	"github.com/abhisek/misparia/internal/problemgen"
	"github.com/abhisek/misparia/internal/router"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/screens/arena"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/layout"
	"github.com/abhisek/misparia/internal/ui/theme"
)

// Selection is the chosen problem mix. It always holds at least one topic.
type Selection struct {
	Topics     []problemgen.Topic
	Difficulty problemgen.Difficulty
}

// Toggle adds or removes t. Removing the last topic is refused.
func (s Selection) Toggle(t problemgen.Topic) Selection {
	if i := slices.Index(s.Topics, t); i >= 0 {
		if len(s.Topics) == 1 {
			return s
		}
		s.Topics = slices.Delete(slices.Clone(s.Topics), i, i+1)
		return s
	}
	s.Topics = append(slices.Clone(s.Topics), t)
	return s
}

// Has reports whether t is selected.
func (s Selection) Has(t problemgen.Topic) bool {
	return slices.Contains(s.Topics, t)
}

// CycleDifficulty moves to the next (step 1) or previous (step -1) tier.
func (s Selection) CycleDifficulty(step int) Selection {
	all := problemgen.AllDifficulties()
	i := max(slices.Index(all, s.Difficulty), 0)
	s.Difficulty = all[(i+step+len(all))%len(all)]
	return s
}

// defaultSelection reads the configured defaults, falling back to
// beginner addition.
func defaultSelection(svc *screen.Services) Selection {
	sel := Selection{Difficulty: problemgen.DifficultyBeginner}
	if d, err := problemgen.ParseDifficulty(svc.Game.Difficulty); err == nil {
		sel.Difficulty = d
	}
	for _, raw := range svc.Game.Topics {
		if t, err := problemgen.ParseTopic(raw); err == nil && !sel.Has(t) {
			sel.Topics = append(sel.Topics, t)
		}
	}
	if len(sel.Topics) == 0 {
		sel.Topics = []problemgen.Topic{problemgen.TopicAddition}
	}
	return sel
}

// MissionScreen lets the player configure and launch a game.
type MissionScreen struct {
	svc    *screen.Services
	sel    Selection
	cursor int
}

var _ screen.Screen = (*MissionScreen)(nil)
var _ screen.KeyHintProvider = (*MissionScreen)(nil)

// New creates a new MissionScreen.
func New(svc *screen.Services) *MissionScreen {
	return &MissionScreen{svc: svc, sel: defaultSelection(svc)}
}

// rows: topics, then difficulty, then one row per mode.
func (m *MissionScreen) rowCount() int {
	return len(problemgen.AllTopics()) + 1 + len(game.AllModes())
}

func (m *MissionScreen) difficultyRow() int { return len(problemgen.AllTopics()) }

func (m *MissionScreen) Init() tea.Cmd {
	return nil
}

func (m *MissionScreen) Title() string {
	return "Mission Control"
}

func (m *MissionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Toggle topic"},
		{Key: "←→", Description: "Difficulty"},
		{Key: "Enter", Description: "Launch"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selection returns the current setup.
func (m *MissionScreen) Selection() Selection { return m.sel }

func (m *MissionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	topics := problemgen.AllTopics()
	switch kmsg.String() {
	case "up", "k":
		m.cursor = (m.cursor - 1 + m.rowCount()) % m.rowCount()
	case "down", "j":
		m.cursor = (m.cursor + 1) % m.rowCount()
	case "left", "h":
		if m.cursor == m.difficultyRow() {
			m.sel = m.sel.CycleDifficulty(-1)
		}
	case "right", "l":
		if m.cursor == m.difficultyRow() {
			m.sel = m.sel.CycleDifficulty(1)
		}
	case "space", "enter":
		switch {
		case m.cursor < len(topics):
			m.sel = m.sel.Toggle(topics[m.cursor])
		case m.cursor == m.difficultyRow():
			m.sel = m.sel.CycleDifficulty(1)
		default:
			if kmsg.String() == "enter" {
				return m, m.launch(game.AllModes()[m.cursor-m.difficultyRow()-1])
			}
		}
	}
	return m, nil
}

func (m *MissionScreen) launch(mode game.Mode) tea.Cmd {
	cfg := game.Config{
		Mode:        mode,
		Topics:      slices.Clone(m.sel.Topics),
		Difficulty:  m.sel.Difficulty,
		MemoryPairs: m.svc.Game.MemoryPairs,
	}
	svc := m.svc
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: arena.New(svc, cfg)}
	}
}

func (m *MissionScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw - 6).Render("MISSION CONTROL"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw - 6).Render("הכן את המערכות לקראת השיגור"))
	b.WriteString("\n\n")

	b.WriteString(section("נושאים"))
	for i, t := range problemgen.AllTopics() {
		mark := "[ ]"
		if m.sel.Has(t) {
			mark = "[x]"
		}
		b.WriteString(m.row(i, fmt.Sprintf("%s %s", mark, t.Label())))
	}

	b.WriteString("\n" + section("רמת קושי"))
	b.WriteString(m.row(m.difficultyRow(), "◂ "+m.sel.Difficulty.Label()+" ▸"))

	b.WriteString("\n" + section("מצב משחק"))
	for i, mode := range game.AllModes() {
		b.WriteString(m.row(m.difficultyRow()+1+i, "▶ "+mode.Label()))
	}

	return components.CabinetFrame(components.ArcadeCard(b.String(), cw, theme.Secondary), width, height)
}

func section(title string) string {
	return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(title) + "\n"
}

func (m *MissionScreen) row(i int, text string) string {
	if i == m.cursor {
		return theme.Selected.Render("▸ "+text) + "\n"
	}
	return theme.Unselected.Render("  "+text) + "\n"
}
