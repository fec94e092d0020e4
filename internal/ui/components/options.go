package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/misparia/internal/ui/theme"
)

// OptionGrid is the 2x2 answer pad. Options are picked with 1-4 or with the
// arrows and Enter.
type OptionGrid struct {
	Options  []string
	Selected int
}

// NewOptionGrid creates a grid over options.
func NewOptionGrid(options []string) OptionGrid {
	return OptionGrid{Options: options}
}

// Update moves the cursor and returns the picked option, if any.
func (g OptionGrid) Update(msg tea.Msg) (OptionGrid, string, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(g.Options) == 0 {
		return g, "", false
	}

	switch key := kmsg.String(); key {
	case "1", "2", "3", "4":
		i := int(key[0] - '1')
		if i < len(g.Options) {
			g.Selected = i
			return g, g.Options[i], true
		}
	case "left", "h":
		if g.Selected%2 == 1 {
			g.Selected--
		}
	case "right", "l":
		if g.Selected%2 == 0 && g.Selected+1 < len(g.Options) {
			g.Selected++
		}
	case "up", "k":
		if g.Selected >= 2 {
			g.Selected -= 2
		}
	case "down", "j":
		if g.Selected+2 < len(g.Options) {
			g.Selected += 2
		}
	case "enter", "space":
		return g, g.Options[g.Selected], true
	}
	return g, "", false
}

// View renders the grid. After an answer, correct marks the right option in
// green and chosen a wrong pick in red.
func (g OptionGrid) View(width int, answered bool, correct, chosen string) string {
	cell := max((width-4)/2, 12)
	var rows []string
	for i := 0; i < len(g.Options); i += 2 {
		var cells []string
		for j := i; j < min(i+2, len(g.Options)); j++ {
			cells = append(cells, g.cell(j, cell, answered, correct, chosen))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (g OptionGrid) cell(i, width int, answered bool, correct, chosen string) string {
	opt := g.Options[i]
	border := theme.Border
	fg := theme.Text
	switch {
	case answered && opt == correct:
		border, fg = theme.Success, theme.Success
	case answered && opt == chosen:
		border, fg = theme.Error, theme.Error
	case answered:
		fg = theme.TextDim
	case i == g.Selected:
		border, fg = theme.Primary, theme.Primary
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(fmt.Sprintf("%d) %s", i+1, opt))
}
