// Package tutor is the chat screen with Numbery, the robot tutor.
package tutor

import (
	"context"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/misparia/internal/llm"
	"github.com/abhisek/misparia/internal/oracle"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/ui/components"
	"github.com/abhisek/misparia/internal/ui/layout"
	"github.com/abhisek/misparia/internal/ui/theme"
)

// maxMessageLen caps one chat message.
const maxMessageLen = 280

// replyMsg carries the tutor's answer to the last question.
type replyMsg struct {
	Text string
}

// TutorScreen is a chat transcript plus an input line.
type TutorScreen struct {
	svc      *screen.Services
	messages []llm.Message
	input    components.TextInput
	waiting  bool
}

var _ screen.Screen = (*TutorScreen)(nil)
var _ screen.KeyHintProvider = (*TutorScreen)(nil)

// New creates a chat opened by the welcome message.
func New(svc *screen.Services) *TutorScreen {
	return &TutorScreen{
		svc:      svc,
		messages: []llm.Message{{Role: llm.RoleAssistant, Content: oracle.WelcomeMessage}},
		input:    components.NewTextInput("שאלו את מספרי...", false, maxMessageLen),
	}
}

func (s *TutorScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *TutorScreen) Title() string {
	return "AI Tutor"
}

func (s *TutorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
	}
}

// Messages returns the transcript, oldest first.
func (s *TutorScreen) Messages() []llm.Message {
	return slices.Clone(s.messages)
}

// Waiting reports whether a reply is pending.
func (s *TutorScreen) Waiting() bool { return s.waiting }

func (s *TutorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.messages = append(s.messages, llm.Message{Role: llm.RoleAssistant, Content: msg.Text})
		s.waiting = false
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// send posts the input line. Empty input and sends while a reply is
// pending are ignored.
func (s *TutorScreen) send() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if text == "" || s.waiting {
		return nil
	}
	history := slices.Clone(s.messages)
	s.messages = append(s.messages, llm.Message{Role: llm.RoleUser, Content: text})
	s.input.Reset()
	s.waiting = true

	client := s.svc.Oracle
	return func() tea.Msg {
		if client == nil {
			return replyMsg{Text: oracle.TutorNoKeyReply}
		}
		return replyMsg{Text: client.Tutor(context.Background(), history, text)}
	}
}

func (s *TutorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	bubble := lipgloss.NewStyle().Width(cw - 4)

	var lines []string
	for _, m := range s.messages {
		if m.Role == llm.RoleUser {
			lines = append(lines, bubble.Foreground(theme.Primary).Align(lipgloss.Right).Render(m.Content+" ›"))
		} else {
			lines = append(lines, bubble.Foreground(theme.Text).Render("🤖 "+m.Content))
		}
	}
	if s.waiting {
		lines = append(lines, theme.Hint.Render("🤖 מספרי חושב..."))
	}

	transcript := strings.Join(lines, "\n\n")
	// Keep the newest part of the chat on screen.
	if budget := height - 8; budget > 0 {
		rows := strings.Split(transcript, "\n")
		if len(rows) > budget {
			transcript = strings.Join(rows[len(rows)-budget:], "\n")
		}
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("NUMBERY"))
	b.WriteString("\n\n")
	b.WriteString(transcript)
	b.WriteString("\n\n")
	b.WriteString(components.ArcadeCard(s.input.View(), cw, theme.Border))
	return components.CabinetFrame(b.String(), width, height)
}
