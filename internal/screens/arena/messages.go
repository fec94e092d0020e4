package arena

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/misparia/internal/game"
	"github.com/abhisek/misparia/internal/problemgen"
)

// tickInterval is the game clock resolution.
const tickInterval = 100 * time.Millisecond

// fetchTimeout bounds one problem request, oracle retries included.
const fetchTimeout = 45 * time.Second

// tickMsg advances the clock of one session.
type tickMsg struct {
	SessionID string
}

// problemReadyMsg carries a generated problem back to the ticket's session.
type problemReadyMsg struct {
	Ticket  game.Ticket
	Problem problemgen.Problem
}

func tickCmd(sessionID string) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{SessionID: sessionID}
	})
}

func fetchCmd(gen problemgen.Generator, t game.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return problemReadyMsg{Ticket: t, Problem: gen.Generate(ctx, t.Input)}
	}
}
