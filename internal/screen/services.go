package screen

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/config"
	"github.com/abhisek/misparia/internal/keystore"
	"github.com/abhisek/misparia/internal/oracle"
	"github.com/abhisek/misparia/internal/problemgen"
	"github.com/abhisek/misparia/internal/stats"
	"github.com/abhisek/misparia/internal/store"
)

// History stores finished games. store.EventRepo implements it.
type History interface {
	AppendGameSession(ctx context.Context, data store.GameSessionData) error
	QueryGameSessions(ctx context.Context, opts store.QueryOpts) ([]store.GameSession, error)
	BestScore(ctx context.Context, mode string) (int, error)
}

// Services is everything the screens need from the rest of the program.
// Only Generator, Local and Stats are required.
type Services struct {
	Generator problemgen.Generator
	Local     *problemgen.Synthesizer
	Stats     *stats.Tracker
	History   History
	Oracle    *oracle.Client
	Keys      *keystore.Keystore
	Game      config.GameConfig
	Logger    *zap.Logger
}

// Log returns the logger, or a no-op one.
func (s *Services) Log() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
