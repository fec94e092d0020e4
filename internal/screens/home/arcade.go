package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/misparia/internal/ui/theme"
)

const arcadeTitleFull = ` ███╗   ███╗██╗███████╗██████╗  █████╗ ██████╗ ██╗ █████╗
 ████╗ ████║██║██╔════╝██╔══██╗██╔══██╗██╔══██╗██║██╔══██╗
 ██╔████╔██║██║███████╗██████╔╝███████║██████╔╝██║███████║
 ██║╚██╔╝██║██║╚════██║██╔═══╝ ██╔══██║██╔══██╗██║██╔══██║
 ██║ ╚═╝ ██║██║███████║██║     ██║  ██║██║  ██║██║██║  ██║
 ╚═╝     ╚═╝╚═╝╚══════╝╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚═╝  ╚═╝`

const arcadeTitleCompact = "M · I · S · P · A · R · I · A"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := arcadeTitleFull
	if compact || cw < lipgloss.Width(arcadeTitleFull) {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title) + "\n" + theme.Subtitle.Render("מרכז האימונים של טייסי המספרים"))
}

// renderStatsBar renders the player's counters in a bordered box matching
// content width.
func renderStatsBar(xp, coins, level, accuracy, cw int, compact bool) string {
	xpStyle := lipgloss.NewStyle().Foreground(theme.Violet).Bold(true)
	coinStyle := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	levelStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	sep := "  "
	if compact {
		sep = " "
	}
	stats := strings.Join([]string{
		xpStyle.Render(fmt.Sprintf("XP %d", xp)),
		coinStyle.Render(fmt.Sprintf("● %d", coins)),
		levelStyle.Render(fmt.Sprintf("Lv %d", level)),
		accStyle.Render(fmt.Sprintf("%d%%", accuracy)),
	}, sep)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderOracleBanner renders a warning when no oracle key is configured.
func renderOracleBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ אין מפתח API: השאלות ייווצרו מקומית (הגדרות ← מפתח)")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
