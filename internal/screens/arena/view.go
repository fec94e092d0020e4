package arena

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/misparia/internal/game"
	"github.com/abhisek/misparia/internal/problemgen"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/theme"
)

// foodMarks label snake food on the board; the legend maps them to answers.
var foodMarks = []string{"A", "B", "C", "D"}

func (a *ArenaScreen) View(width, height int) string {
	snap := a.engine.Snapshot()
	cw := components.ContentWidth(width)

	var body string
	switch snap.Mode {
	case game.ModeMemory:
		body = a.renderMemory(snap, cw)
	case game.ModeSnake:
		body = renderSnake(snap, cw)
	case game.ModeSpace:
		body = a.renderSpace(snap, cw)
	case game.ModeTower:
		body = renderTower(snap) + "\n\n" + a.renderProblem(snap, cw)
	case game.ModeBalance:
		body = a.renderBalance(snap, cw)
	default:
		body = a.renderProblem(snap, cw)
	}

	content := renderScoreLine(snap, cw) + "\n\n" + body
	return components.CabinetFrame(content, width, height)
}

func renderScoreLine(snap game.Snapshot, cw int) string {
	left := components.Badge(fmt.Sprintf("★ %d", snap.Score), theme.Gold)
	var right string
	switch snap.Mode {
	case game.ModeSpeed:
		fg := theme.Primary
		if snap.TimeLeft <= 10 {
			fg = theme.Error
		}
		right = components.Badge(fmt.Sprintf("⏱ %d", snap.TimeLeft), fg)
	case game.ModeQuiz, game.ModeTower, game.ModeBalance:
		right = components.Badge(fmt.Sprintf("⏱ %d:%02d", snap.Elapsed/60, snap.Elapsed%60), theme.TextDim)
	default:
		right = components.Badge(fmt.Sprintf("✓ %d", snap.Correct), theme.Success)
	}
	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func loading(cw int) string {
	return theme.Hint.Width(cw).Align(lipgloss.Center).Render("טוען תרגיל...")
}

// renderProblem draws the question card, the answer pad and the verdict.
func (a *ArenaScreen) renderProblem(snap game.Snapshot, cw int) string {
	p := snap.Problem
	if p == nil || snap.Phase == game.PhaseLoading {
		return loading(cw)
	}

	var b strings.Builder
	border := theme.Primary
	if p.IsChallenge {
		border = theme.Gold
		b.WriteString(theme.Challenge.Render("⚡ אתגר בונוס ⚡"))
		b.WriteString("\n")
	}
	question := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(p.Question)
	b.WriteString(components.ArcadeCard(question, cw, border))
	b.WriteString("\n\n")

	answered := snap.Phase == game.PhaseFeedback
	b.WriteString(a.grid.View(cw, answered, p.CorrectAnswer, snap.Chosen))

	if answered {
		b.WriteString("\n\n")
		b.WriteString(renderVerdict(snap, p))
	}
	return b.String()
}

func renderVerdict(snap game.Snapshot, p *problemgen.Problem) string {
	if snap.Feedback == game.FeedbackCorrect {
		return theme.Correct.Render("✓ כל הכבוד!")
	}
	line := theme.Incorrect.Render("✗ התשובה הנכונה: " + p.CorrectAnswer)
	if p.Explanation != "" {
		line += "\n" + theme.Hint.Render(p.Explanation)
	}
	return line
}

func renderTower(snap game.Snapshot) string {
	const shown = 8
	var rows []string
	block := lipgloss.NewStyle().Foreground(theme.Violet).Render("▐████▌")
	for i := min(snap.TowerHeight, shown); i > 0; i-- {
		rows = append(rows, block)
	}
	if snap.TowerHeight > shown {
		rows = append([]string{theme.Hint.Render("⋮")}, rows...)
	}
	rows = append(rows, theme.Hint.Render("▔▔▔▔▔▔"))
	rows = append(rows, components.Badge(fmt.Sprintf("גובה %d", snap.TowerHeight), theme.Violet))
	return strings.Join(rows, "\n")
}

func (a *ArenaScreen) renderBalance(snap game.Snapshot, cw int) string {
	p := snap.Problem
	if p == nil || snap.Phase == game.PhaseLoading {
		return loading(cw)
	}
	right := "?"
	if snap.Phase == game.PhaseFeedback {
		right = p.CorrectAnswer
	}
	pan := lipgloss.NewStyle().
		Width(14).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Text).
		Bold(true)
	scale := lipgloss.JoinHorizontal(lipgloss.Center,
		pan.Render(p.Question), "  ⚖  ", pan.Render(right))

	var b strings.Builder
	b.WriteString(scale)
	b.WriteString("\n\n")
	answered := snap.Phase == game.PhaseFeedback
	b.WriteString(a.grid.View(cw, answered, p.CorrectAnswer, snap.Chosen))
	if answered {
		b.WriteString("\n\n")
		b.WriteString(renderVerdict(snap, p))
	}
	return b.String()
}

func (a *ArenaScreen) renderMemory(snap game.Snapshot, cw int) string {
	if len(snap.Cards) == 0 {
		return loading(cw)
	}
	cell := max((cw-memoryColumns*2)/memoryColumns, 8)

	var rows []string
	for i := 0; i < len(snap.Cards); i += memoryColumns {
		var cells []string
		for j := i; j < min(i+memoryColumns, len(snap.Cards)); j++ {
			cells = append(cells, renderCard(snap.Cards[j], j == a.cursor, cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func renderCard(c problemgen.MemoryCard, focused bool, width int) string {
	face := "?"
	fg, border := theme.TextDim, theme.Border
	switch {
	case c.Matched:
		face, fg, border = c.Content, theme.Success, theme.Success
	case c.Flipped:
		face, fg, border = c.Content, theme.Text, theme.Secondary
	}
	if focused {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Bold(c.Flipped || c.Matched).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(face)
}

func renderSnake(snap game.Snapshot, cw int) string {
	if snap.Problem == nil || snap.Phase == game.PhaseLoading {
		return loading(cw)
	}

	board := make([][]string, game.SnakeGrid)
	for y := range board {
		board[y] = make([]string, game.SnakeGrid)
		for x := range board[y] {
			board[y][x] = theme.Hint.Render("· ")
		}
	}
	var legend []string
	for i, f := range snap.Foods {
		mark := foodMarks[i%len(foodMarks)]
		board[f.Pos.Y][f.Pos.X] = lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(mark + " ")
		legend = append(legend, fmt.Sprintf("%s=%s", mark, f.Option))
	}
	for i, p := range snap.Snake {
		seg := lipgloss.NewStyle().Foreground(theme.Success).Render("■ ")
		if i == 0 {
			seg = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("◆ ")
		}
		board[p.Y][p.X] = seg
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(snap.Problem.Question + " = ?"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(strings.Join(legend, "   ")))
	b.WriteString("\n\n")
	var rows []string
	for _, row := range board {
		rows = append(rows, strings.Join(row, ""))
	}
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		Render(strings.Join(rows, "\n")))
	if snap.Phase == game.PhaseFeedback {
		b.WriteString("\n")
		b.WriteString(renderVerdict(snap, snap.Problem))
	}
	return b.String()
}

func (a *ArenaScreen) renderSpace(snap game.Snapshot, cw int) string {
	fieldWidth := max(cw-4, game.SpaceCols)
	colWidth := fieldWidth / game.SpaceCols

	field := make([][]rune, game.SpaceRows)
	for y := range field {
		field[y] = []rune(strings.Repeat(" ", fieldWidth))
	}
	for _, ast := range snap.Asteroids {
		row := ast.Row()
		if row < 0 || row >= game.SpaceRows {
			continue
		}
		label := []rune("☄" + ast.Problem.Question)
		x := min(ast.Col*colWidth, max(fieldWidth-len(label), 0))
		for i, r := range label {
			if x+i < fieldWidth {
				field[row][x+i] = r
			}
		}
	}

	lines := make([]string, len(field))
	for i, row := range field {
		lines[i] = string(row)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Gold).
		Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render("🚀 "))
	b.WriteString(a.input.View())
	return b.String()
}
