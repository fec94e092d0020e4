// Package settings manages the oracle API key.
package settings

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/keystore"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/layout"
	"github.com/abhisek/misparia/internal/ui/theme"
)

// KeyState is where the key entry form stands.
type KeyState int

const (
	StateIdle KeyState = iota
	StateEditing
	StateValidating
	StateValid
	StateInvalid
)

type statusMsg struct {
	Key    string
	Source keystore.Source
	Err    error
}

type savedMsg struct {
	Err error
}

// SettingsScreen shows the active key and lets the player replace or
// remove it.
type SettingsScreen struct {
	svc    *screen.Services
	state  KeyState
	input  components.TextInput
	key    string
	source keystore.Source
	errMsg string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)
var _ screen.EscapeHandler = (*SettingsScreen)(nil)

// New creates a new SettingsScreen.
func New(svc *screen.Services) *SettingsScreen {
	return &SettingsScreen{
		svc:    svc,
		source: keystore.SourceNone,
		input:  components.NewTextInput("הדביקו מפתח API", false, 0).Secret(),
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return s.loadStatus()
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

// State returns the form state.
func (s *SettingsScreen) State() KeyState { return s.state }

// HandlesEscape keeps Esc inside the form while a key is being edited.
func (s *SettingsScreen) HandlesEscape() bool {
	return s.state == StateEditing || s.state == StateValidating
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	switch s.state {
	case StateEditing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	case StateValidating:
		return nil
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Set key"}}
	if s.source == keystore.SourceStored {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Clear key"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *SettingsScreen) loadStatus() tea.Cmd {
	keys := s.svc.Keys
	if keys == nil {
		return nil
	}
	return func() tea.Msg {
		key, src, err := keys.Get(context.Background())
		return statusMsg{Key: key, Source: src, Err: err}
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.key, s.source = msg.Key, msg.Source
		return s, nil

	case savedMsg:
		if msg.Err != nil {
			s.state = StateInvalid
			s.errMsg = "המפתח לא תקין"
			if !errors.Is(msg.Err, keystore.ErrInvalidKey) {
				s.errMsg = msg.Err.Error()
			}
			return s, nil
		}
		s.state = StateValid
		s.errMsg = ""
		return s, s.loadStatus()

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	if s.state == StateEditing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SettingsScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch s.state {
	case StateValidating:
		return nil
	case StateEditing:
		switch msg.String() {
		case "esc":
			s.state = StateIdle
			s.input.Reset()
			return nil
		case "enter":
			return s.save()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "enter", "e":
		if s.svc.Keys == nil {
			return nil
		}
		s.state = StateEditing
		s.input.Reset()
		return s.input.Init()
	case "c", "C":
		return s.clear()
	}
	return nil
}

func (s *SettingsScreen) save() tea.Cmd {
	key := strings.TrimSpace(s.input.Value())
	if key == "" {
		return nil
	}
	s.state = StateValidating
	s.input.Reset()

	keys, log := s.svc.Keys, s.svc.Log()
	return func() tea.Msg {
		err := keys.Save(context.Background(), key)
		if err != nil {
			log.Info("API key not saved", zap.Error(err))
		}
		return savedMsg{Err: err}
	}
}

func (s *SettingsScreen) clear() tea.Cmd {
	if s.svc.Keys == nil || s.source != keystore.SourceStored {
		return nil
	}
	keys := s.svc.Keys
	s.state = StateIdle
	return func() tea.Msg {
		if err := keys.Clear(context.Background()); err != nil {
			return statusMsg{Err: err}
		}
		key, src, err := keys.Get(context.Background())
		return statusMsg{Key: key, Source: src, Err: err}
	}
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("SETTINGS"))
	b.WriteString("\n\n")

	provider := "-"
	if s.svc.Oracle != nil {
		provider = s.svc.Oracle.ProviderName()
	}
	b.WriteString(theme.Body.Render("ספק: " + provider))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render("מפתח: " + s.keyLine()))
	b.WriteString("\n\n")

	switch s.state {
	case StateEditing:
		b.WriteString(components.ArcadeCard(s.input.View(), cw, theme.Primary))
	case StateValidating:
		b.WriteString(theme.Hint.Render("בודק את המפתח..."))
	case StateValid:
		b.WriteString(theme.Correct.Render("✓ המפתח נשמר"))
	case StateInvalid:
		b.WriteString(theme.Incorrect.Render("✗ " + s.errMsg))
	default:
		if s.errMsg != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
		}
	}
	return components.CabinetFrame(b.String(), width, height)
}

func (s *SettingsScreen) keyLine() string {
	switch s.source {
	case keystore.SourceStored:
		return keystore.Mask(s.key) + " (שמור)"
	case keystore.SourceEnv:
		return keystore.Mask(s.key) + " (סביבה)"
	}
	return "לא הוגדר"
}
