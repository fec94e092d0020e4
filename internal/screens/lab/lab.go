// Package lab is the Number Lab screen: a multiplication grid and a
// fraction explorer.
package lab

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	mathlab "github.com/abhisek/misparia/internal/lab"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/layout"
	"github.com/abhisek/misparia/internal/ui/theme"
)

// Tab is one of the lab's tools.
type Tab int

const (
	TabGrid Tab = iota
	TabFraction
)

// LabScreen lets the player play with area models and fractions.
type LabScreen struct {
	tab      Tab
	grid     mathlab.Grid
	fraction mathlab.Fraction
}

var _ screen.Screen = (*LabScreen)(nil)
var _ screen.KeyHintProvider = (*LabScreen)(nil)

// New creates a lab showing a 4×3 grid and a quarter.
func New() *LabScreen {
	return &LabScreen{
		grid:     mathlab.NewGrid(mathlab.DefaultRows, mathlab.DefaultCols),
		fraction: mathlab.NewFraction(1, 4),
	}
}

func (s *LabScreen) Init() tea.Cmd {
	return nil
}

func (s *LabScreen) Title() string {
	return "Number Lab"
}

func (s *LabScreen) KeyHints() []layout.KeyHint {
	if s.tab == TabGrid {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Fractions"},
			{Key: "↑↓", Description: "Rows"},
			{Key: "←→", Description: "Columns"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Grid"},
		{Key: "↑↓", Description: "Numerator"},
		{Key: "←→", Description: "Denominator"},
		{Key: "Esc", Description: "Back"},
	}
}

// Grid returns the current multiplication grid.
func (s *LabScreen) Grid() mathlab.Grid { return s.grid }

// Fraction returns the current fraction.
func (s *LabScreen) Fraction() mathlab.Fraction { return s.fraction }

func (s *LabScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	key := kmsg.String()
	if key == "tab" {
		s.tab = (s.tab + 1) % 2
		return s, nil
	}

	switch s.tab {
	case TabGrid:
		switch key {
		case "up", "k":
			s.grid = s.grid.Resize(-1, 0)
		case "down", "j":
			s.grid = s.grid.Resize(1, 0)
		case "left", "h":
			s.grid = s.grid.Resize(0, -1)
		case "right", "l":
			s.grid = s.grid.Resize(0, 1)
		}
	case TabFraction:
		switch key {
		case "up", "k":
			s.fraction = s.fraction.WithNum(s.fraction.Num + 1)
		case "down", "j":
			s.fraction = s.fraction.WithNum(s.fraction.Num - 1)
		case "left", "h":
			s.fraction = s.fraction.WithDen(s.fraction.Den - 1)
		case "right", "l":
			s.fraction = s.fraction.WithDen(s.fraction.Den + 1)
		}
	}
	return s, nil
}

func (s *LabScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	tabs := []string{
		components.ArcadeButton("לוח כפל", s.tab == TabGrid, 16),
		components.ArcadeButton("שברים", s.tab == TabFraction, 16),
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var body string
	if s.tab == TabGrid {
		body = renderGrid(s.grid)
	} else {
		body = renderFraction(s.fraction, cw)
	}
	return components.CabinetFrame(header+"\n\n"+body, width, height)
}

func renderGrid(g mathlab.Grid) string {
	cell := lipgloss.NewStyle().Foreground(theme.Primary).Render("■ ")
	row := strings.Repeat(cell, g.Cols)

	rows := make([]string, g.Rows)
	for i := range rows {
		rows[i] = row
	}

	eq := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(g.Equation())
	return strings.Join(rows, "\n") + "\n\n" + eq
}

func renderFraction(f mathlab.Fraction, cw int) string {
	barWidth := max(cw-8, f.Den)
	seg := barWidth / f.Den

	var bar strings.Builder
	for i := range f.Den {
		fill := theme.Border
		if i < f.Num {
			fill = theme.Accent
		}
		bar.WriteString(lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", max(seg-1, 1))))
		bar.WriteString(" ")
	}

	big := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	lines := []string{
		big.Render(f.String()),
		"",
		bar.String(),
		"",
		fmt.Sprintf("עשרוני: %s   אחוזים: %d%%", f.Decimal(), f.Percent()),
		fmt.Sprintf("מצומצם: %s   נשארו: %d", f.Simplified(), f.Rest()),
	}
	return strings.Join(lines, "\n")
}
