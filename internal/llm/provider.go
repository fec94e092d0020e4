package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is a single AI oracle backend. Callers hand it a Request and get
// back either schema-validated JSON or free text.
type Provider interface {
	// Generate performs one completion. When req.Schema is set the returned
	// Content is a JSON object that already passed schema validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the resolved model identifier.
	ModelID() string
}

// Named is implemented by base providers so decorators can report which
// vendor served a call.
type Named interface {
	Name() string
}

// ProviderName returns p's vendor name, unwrapping decorators.
func ProviderName(p Provider) string {
	for p != nil {
		if n, ok := p.(Named); ok {
			return n.Name()
		}
		u, ok := p.(interface{ Unwrap() Provider })
		if !ok {
			break
		}
		p = u.Unwrap()
	}
	return "unknown"
}

// Request describes one oracle call.
type Request struct {
	// System sets the persona and output rules.
	System string

	// Messages is the conversation so far. Problem generation and key
	// checks send a single user turn; the tutor sends the whole chat.
	Messages []Message

	// Schema, when set, asks the provider for structured JSON output.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "misparia-problem". It doubles as the cache
	// key for the compiled validator.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the oracle output.
type Response struct {
	// Content is the validated JSON object for schema requests, or the
	// reply text encoded as a JSON string otherwise.
	Content json.RawMessage

	Usage Usage
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Text returns the reply as plain text. JSON string content is decoded;
// anything else is returned verbatim.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// textContent wraps free text so Content is always valid JSON.
func textContent(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// finish validates raw output against req.Schema or wraps it as text.
func finish(req Request, raw string) (json.RawMessage, error) {
	if req.Schema == nil {
		return textContent(raw), nil
	}
	content := json.RawMessage(raw)
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return content, nil
}
