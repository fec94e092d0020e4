package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	From    time.Time // timestamp >= From
	Purpose string    // LLM events only; empty matches all
	Mode    string    // game sessions only; empty matches all
}

// KVRepo is a durable string-keyed blob store.
type KVRepo interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LLMRequestEventData captures a single oracle call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored oracle call.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageStat aggregates token usage for one purpose or model.
type UsageStat struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// AnswerEventData captures one scored answer.
type AnswerEventData struct {
	SessionID string
	Mode      string
	Topic     string
	Correct   bool
	XP        int
	Coins     int
}

// GameSessionData captures a finished game.
type GameSessionData struct {
	SessionID   string
	Mode        string
	Score       int
	Answers     int
	Correct     int
	TowerHeight int
	Duration    time.Duration
}

// GameSession is a stored finished game.
type GameSession struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	GameSessionData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns ErrNotFound when no event has the given id.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]UsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]UsageStat, error)

	AppendAnswer(ctx context.Context, data AnswerEventData) error
	AppendGameSession(ctx context.Context, data GameSessionData) error
	// QueryGameSessions returns newest first.
	QueryGameSessions(ctx context.Context, opts QueryOpts) ([]GameSession, error)
	// BestScore returns 0 when the mode was never played.
	BestScore(ctx context.Context, mode string) (int, error)
	// PurgeGameHistory deletes answer and session history.
	PurgeGameHistory(ctx context.Context) error
}
