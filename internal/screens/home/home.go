package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/misparia/internal/router"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/screens/lab"
	"github.com/abhisek/misparia/internal/screens/mission"
	"github.com/abhisek/misparia/internal/screens/progress"
	"github.com/abhisek/misparia/internal/screens/settings"
	"github.com/abhisek/misparia/internal/screens/tutor"
	"github.com/abhisek/misparia/internal/ui/components"
)

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// HomeScreen is the main menu.
type HomeScreen struct {
	svc  *screen.Services
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *screen.Services) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := []components.MenuItem{
		{Label: "MISSION CONTROL", Action: push(func() screen.Screen { return mission.New(svc) })},
		{Label: "AI TUTOR", Action: push(func() screen.Screen { return tutor.New(svc) })},
		{Label: "PROGRESS", Action: push(func() screen.Screen { return progress.New(svc) })},
		{Label: "NUMBER LAB", Action: push(func() screen.Screen { return lab.New() })},
		{Label: "SETTINGS", Action: push(func() screen.Screen { return settings.New(svc) })},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		svc:  svc,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)
	st := h.svc.Stats.Stats()
	oracleReady := h.svc.Oracle != nil && h.svc.Oracle.Available()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(pickMascot(oracleReady, st.GamesPlayed, st.Accuracy()), cw))
	}
	sections = append(sections, renderStatsBar(st.XP, st.Coins, st.Level, st.Accuracy(), cw, compact))
	if !oracleReady {
		sections = append(sections, renderOracleBanner(cw))
	}
	sections = append(sections, h.menu.View(buttonWidth))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
