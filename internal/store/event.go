package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one monotonically increasing sequence shared by
// every event table, so answers, sessions and oracle calls can be ordered
// against each other. The mutex serializes within the process; RETURNING
// makes the increment atomic in the database.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

const sequenceTableName = "global_sequence"

// newSequenceCounter seeds the single counter row if it does not exist yet.
func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	query, args := builder().Insert(sequenceTableName).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number and advances the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on top of the shared sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// insert appends a row to table, stamping sequence and timestamp.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	cols := append([]string{"sequence", "timestamp"}, columns...)
	vals := append([]any{seqNum, toMillis(time.Now())}, values...)

	query, args := builder().Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
