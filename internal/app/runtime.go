// Package app wires the store, the oracle and the game services together
// and runs the TUI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/config"
	"github.com/abhisek/misparia/internal/keystore"
	"github.com/abhisek/misparia/internal/oracle"
	"github.com/abhisek/misparia/internal/problemgen"
	"github.com/abhisek/misparia/internal/screen"
	"github.com/abhisek/misparia/internal/stats"
	"github.com/abhisek/misparia/internal/store"
)

// Options selects the database and settings for a Runtime.
type Options struct {
	// DBPath is the SQLite file. Empty uses store.DefaultDBPath.
	DBPath string
	Config *config.Config
	Logger *zap.Logger
}

// Runtime is an opened set of services. Close releases the database.
type Runtime struct {
	Store    *store.Store
	Services *screen.Services
	Logger   *zap.Logger
}

// Open opens the store and builds every service. A missing or rejected
// oracle credential is not an error: the game runs on local problems.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	path := opts.DBPath
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	lc, err := cfg.LLM()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("oracle config: %w", err)
	}

	events := st.EventRepo()
	client := oracle.NewClient(ctx, lc, oracle.DefaultFactory(events, logger), logger)

	keys := keystore.New(st.KV(), client, lc.APIKey(), logger)
	if err := keys.Activate(ctx); err != nil {
		logger.Warn("stored API key could not be activated", zap.Error(err))
	}

	local := problemgen.NewSynthesizer(nil)
	tracker := stats.NewTracker(ctx, st.KV(), answerJournal{events: events}, logger)

	logger.Info("runtime ready",
		zap.String("db", path),
		zap.String("provider", client.ProviderName()),
		zap.Bool("oracle", client.Available()))

	return &Runtime{
		Store:  st,
		Logger: logger,
		Services: &screen.Services{
			Generator: problemgen.NewOracleGenerator(client, local, problemgen.DefaultConfig(), logger),
			Local:     local,
			Stats:     tracker,
			History:   events,
			Oracle:    client,
			Keys:      keys,
			Game:      cfg.Game,
			Logger:    logger,
		},
	}, nil
}

// Close releases the database.
func (r *Runtime) Close() error {
	return r.Store.Close()
}

// answerJournal appends every scored answer to the event log.
type answerJournal struct {
	events store.EventRepo
}

func (j answerJournal) AppendAnswer(ctx context.Context, a stats.Answer) error {
	return j.events.AppendAnswer(ctx, store.AnswerEventData{
		SessionID: a.SessionID,
		Mode:      a.Mode,
		Topic:     string(a.Topic),
		Correct:   a.Correct,
		XP:        a.XP,
		Coins:     a.Coins,
	})
}
