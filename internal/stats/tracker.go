package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StorageKey is the kv key the record is persisted under.
const StorageKey = "misparia_stats_v2"

// KV is the durable key-value storage the tracker persists into.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// Journal receives every recorded answer for history views.
type Journal interface {
	AppendAnswer(ctx context.Context, a Answer) error
}

// Tracker owns the live UserStats, applies answers to it and saves after
// every change.
type Tracker struct {
	// saveMu orders mutate-and-persist pairs so the stored record never
	// goes back to an older state. mu guards current only.
	saveMu  sync.Mutex
	mu      sync.Mutex
	kv      KV
	journal Journal
	logger  *zap.Logger
	current UserStats
}

// NewTracker loads the persisted record. Absent or unreadable data yields
// Initial(). journal may be nil.
func NewTracker(ctx context.Context, kv KV, journal Journal, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		kv:      kv,
		journal: journal,
		logger:  logger.Named("stats"),
	}
	t.current = t.load(ctx)
	return t
}

func (t *Tracker) load(ctx context.Context) UserStats {
	raw, ok, err := t.kv.Get(ctx, StorageKey)
	if err != nil {
		t.logger.Warn("load stats failed, starting fresh", zap.Error(err))
		return Initial()
	}
	if !ok {
		return Initial()
	}
	s, err := Decode(raw)
	if err != nil {
		t.logger.Warn("stored stats unreadable, starting fresh", zap.Error(err))
		return Initial()
	}
	return s
}

// Decode parses a persisted record.
func Decode(raw []byte) (UserStats, error) {
	var s UserStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return UserStats{}, fmt.Errorf("decode stats: %w", err)
	}
	return s, nil
}

// Stats returns a copy of the current record.
func (t *Tracker) Stats() UserStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Record applies a to the current record and persists it. Storage failures
// are logged; the in-memory record still advances.
func (t *Tracker) Record(a Answer) {
	ctx := context.Background()

	err := t.update(ctx, func(s *UserStats) {
		*s = Apply(*s, a.Topic, a.Correct, a.XP, a.Coins)
	})
	if err != nil {
		t.logger.Error("save stats failed", zap.Error(err))
	}
	if t.journal != nil {
		if err := t.journal.AppendAnswer(ctx, a); err != nil {
			t.logger.Warn("journal answer failed", zap.Error(err))
		}
	}
}

// Reset replaces the record with Initial() and persists it.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.update(ctx, func(s *UserStats) { *s = Initial() })
}

// MarkAnalyzed stamps the time of the latest successful analysis.
func (t *Tracker) MarkAnalyzed(ctx context.Context, at time.Time) error {
	return t.update(ctx, func(s *UserStats) { s.LastAnalysis = &at })
}

// update applies fn to the current record and persists the result before
// any later update can run.
func (t *Tracker) update(ctx context.Context, fn func(*UserStats)) error {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	fn(&t.current)
	snapshot := t.current
	t.mu.Unlock()

	return t.save(ctx, snapshot)
}

func (t *Tracker) save(ctx context.Context, s UserStats) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := t.kv.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("persist stats: %w", err)
	}
	return nil
}
