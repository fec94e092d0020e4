package oracle

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/llm"
)

// WelcomeMessage opens every tutor conversation.
const WelcomeMessage = "שלום! אני מספרי 🤖. אני כאן כדי לעזור לכם להבין חשבון בצורה כיפית. מה תרצו ללמוד היום? אפשר לשאול אותי על שברים, כפל, או סתם חידה!"

// Tutor fallbacks.
const (
	TutorNoKeyReply = "היי! כדי שאוכל לענות, צריך להגדיר מפתח API בהגדרות (סמל המפתח למעלה)."
	TutorEmptyReply = "Glitch in the matrix... נסה שוב?"
	TutorErrorReply = "Connection Error... נסה שוב."
)

const tutorSystem = `You are 'Numbery', a gamer robot math tutor for kids.
Speak Hebrew. Use gamer slang (XP, Level Up, Quest).
Keep it short and exciting.`

// Tutor continues the chat. history holds earlier turns oldest first; the
// reply is always displayable text.
func (c *Client) Tutor(ctx context.Context, history []llm.Message, message string) string {
	p := c.Provider()
	if p == nil {
		return TutorNoKeyReply
	}

	ctx, cancel := c.withTimeout(llm.WithPurpose(ctx, llm.PurposeTutor))
	defer cancel()

	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, trimLeadingAssistant(history)...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := p.Generate(ctx, llm.Request{
		System:      tutorSystem,
		Messages:    msgs,
		MaxTokens:   512,
		Temperature: 0.8,
	})
	if err != nil {
		c.logger.Warn("tutor reply failed", zap.Error(err))
		return TutorErrorReply
	}
	if text := resp.Text(); text != "" {
		return text
	}
	return TutorEmptyReply
}

// trimLeadingAssistant drops assistant turns before the first user turn,
// such as the welcome message; vendors require chats to open with the user.
func trimLeadingAssistant(history []llm.Message) []llm.Message {
	for i, m := range history {
		if m.Role == llm.RoleUser {
			return history[i:]
		}
	}
	return nil
}
