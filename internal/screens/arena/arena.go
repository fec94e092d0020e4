// Package arena is the in-game screen. It owns one game.Engine and drives
// it with the clock, the generator and the keyboard.
package arena

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/game"
	"github.com/abhisek/misparia/internal/problemgen"
	"github.com/abhisek/misparia/internal/router"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/screens/summary"
	"github.com/abhisek/misparia/internal/stats"
	"github.com/abhisek/misparia/internal/store"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/layout"
)

// memoryColumns is the width of the memory card table.
const memoryColumns = 4

// ArenaScreen runs a single game session.
type ArenaScreen struct {
	svc    *screen.Services
	gen    problemgen.Generator
	engine *game.Engine

	grid   components.OptionGrid
	input  components.TextInput
	cursor int

	saved bool
	over  bool
}

var _ screen.Screen = (*ArenaScreen)(nil)
var _ screen.KeyHintProvider = (*ArenaScreen)(nil)
var _ screen.Leaver = (*ArenaScreen)(nil)

// New creates an arena for cfg. The session starts in Init.
func New(svc *screen.Services, cfg game.Config) *ArenaScreen {
	local := svc.Local
	if local == nil {
		local = problemgen.NewSynthesizer(nil)
	}
	var gen problemgen.Generator = local
	if svc.Generator != nil {
		gen = svc.Generator
	}
	return &ArenaScreen{
		svc:    svc,
		gen:    gen,
		engine: game.NewEngine(cfg, local, recorder(svc)),
		input:  components.NewTextInput("הקלד תשובה...", true, 6),
	}
}

func (a *ArenaScreen) Init() tea.Cmd {
	id := a.engine.SessionID()
	a.svc.Log().Info("game started",
		zap.String("session", id),
		zap.String("mode", string(a.engine.Mode())))

	cmds := []tea.Cmd{tickCmd(id)}
	if t, ok := a.engine.Start(time.Now()); ok {
		cmds = append(cmds, fetchCmd(a.gen, t))
	}
	if a.engine.Mode() == game.ModeSpace {
		cmds = append(cmds, a.input.Init())
	}
	return tea.Batch(cmds...)
}

func (a *ArenaScreen) Title() string {
	return a.engine.Mode().Label()
}

// Engine exposes the running session.
func (a *ArenaScreen) Engine() *game.Engine { return a.engine }

func (a *ArenaScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	switch a.engine.Mode() {
	case game.ModeSnake:
		hints = append(hints, layout.KeyHint{Key: "←↑↓→", Description: "Steer"})
	case game.ModeMemory:
		hints = append(hints,
			layout.KeyHint{Key: "←↑↓→", Description: "Move"},
			layout.KeyHint{Key: "Enter", Description: "Flip"})
	case game.ModeSpace:
		hints = append(hints, layout.KeyHint{Key: "0-9", Description: "Type answer"})
	default:
		if a.engine.Phase() == game.PhaseFeedback {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
		} else {
			hints = append(hints,
				layout.KeyHint{Key: "1-4", Description: "Answer"},
				layout.KeyHint{Key: "Enter", Description: "Select"})
		}
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Exit"})
}

func (a *ArenaScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		if msg.SessionID != a.engine.SessionID() || a.engine.Ended() {
			return a, nil
		}
		cmd = tickCmd(msg.SessionID)
		if t, ok := a.engine.Advance(tickInterval); ok {
			cmd = tea.Batch(cmd, fetchCmd(a.gen, t))
		}

	case problemReadyMsg:
		if a.engine.Deliver(msg.Ticket, msg.Problem) {
			a.grid = components.NewOptionGrid(msg.Problem.Options)
		}

	case tea.KeyPressMsg:
		cmd = a.handleKey(msg)

	default:
		if a.engine.Mode() == game.ModeSpace {
			a.input, cmd = a.input.Update(msg)
		}
	}

	if a.engine.Ended() {
		return a, a.finish()
	}
	return a, cmd
}

func (a *ArenaScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch a.engine.Mode() {
	case game.ModeSnake:
		a.steer(msg.String())
		return nil
	case game.ModeMemory:
		a.pickCard(msg.String())
		return nil
	case game.ModeSpace:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		if a.engine.Type(a.input.Value()) {
			a.input.Reset()
		}
		return cmd
	}

	switch a.engine.Phase() {
	case game.PhaseFeedback:
		if k := msg.String(); k == "enter" || k == "space" {
			if t, ok := a.engine.Next(); ok {
				return fetchCmd(a.gen, t)
			}
		}
	case game.PhaseAwaitingAnswer:
		var (
			opt    string
			picked bool
		)
		a.grid, opt, picked = a.grid.Update(msg)
		if picked {
			a.engine.Answer(opt)
		}
	}
	return nil
}

func (a *ArenaScreen) steer(key string) {
	switch key {
	case "up", "w":
		a.engine.Steer(game.Up)
	case "down", "s":
		a.engine.Steer(game.Down)
	case "left", "a":
		a.engine.Steer(game.Left)
	case "right", "d":
		a.engine.Steer(game.Right)
	}
}

func (a *ArenaScreen) pickCard(key string) {
	n := len(a.engine.Snapshot().Cards)
	if n == 0 {
		return
	}
	switch key {
	case "left", "h":
		if a.cursor%memoryColumns > 0 {
			a.cursor--
		}
	case "right", "l":
		if a.cursor%memoryColumns < memoryColumns-1 && a.cursor+1 < n {
			a.cursor++
		}
	case "up", "k":
		if a.cursor >= memoryColumns {
			a.cursor -= memoryColumns
		}
	case "down", "j":
		if a.cursor+memoryColumns < n {
			a.cursor += memoryColumns
		}
	case "enter", "space":
		a.engine.Flip(a.cursor)
	}
}

// recorder avoids handing the engine a typed nil.
func recorder(svc *screen.Services) stats.Recorder {
	if svc.Stats == nil {
		return nil
	}
	return svc.Stats
}

// finish stores the session and swaps in the game-over summary.
func (a *ArenaScreen) finish() tea.Cmd {
	if a.over {
		return nil
	}
	a.over = true
	best := a.save()
	res := a.engine.Result()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(res, best)}
	}
}

// Leave ends the session when the player backs out mid-game.
func (a *ArenaScreen) Leave() tea.Cmd {
	a.engine.Exit()
	a.save()
	return nil
}

// save writes the session to history once and returns the best score the
// mode had before it.
func (a *ArenaScreen) save() int {
	if a.saved || a.svc.History == nil {
		return 0
	}
	a.saved = true

	ctx := context.Background()
	res := a.engine.Result()
	log := a.svc.Log().With(zap.String("session", res.SessionID))

	best, err := a.svc.History.BestScore(ctx, string(res.Mode))
	if err != nil {
		log.Warn("best score lookup failed", zap.Error(err))
	}
	if res.Answered == 0 && res.Score == 0 {
		return best
	}

	err = a.svc.History.AppendGameSession(ctx, store.GameSessionData{
		SessionID:   res.SessionID,
		Mode:        string(res.Mode),
		Score:       res.Score,
		Answers:     res.Answered,
		Correct:     res.Correct,
		TowerHeight: res.TowerHeight,
		Duration:    res.Played,
	})
	if err != nil {
		log.Error("saving game session failed", zap.Error(err))
	}
	log.Info("game over", zap.Int("score", res.Score), zap.Int("answered", res.Answered))
	return best
}
