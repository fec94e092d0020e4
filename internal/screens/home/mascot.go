package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/misparia/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default cyan
	MascotCelebrating                      // Gold, star eyes: strong accuracy
	MascotAlert                            // Pink, exclamation: no oracle key
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ +×÷ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ +×÷ │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ +×÷ │
└─────┘`

// RenderMascot returns the Numbery robot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Gold
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

// pickMascot chooses the mascot mood from the oracle state and accuracy.
func pickMascot(oracleReady bool, answered, accuracy int) MascotVariant {
	switch {
	case !oracleReady:
		return MascotAlert
	case answered >= 10 && accuracy >= 80:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}
