package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	answerEventsTable = "answer_events"
	gameSessionsTable = "game_sessions"
)

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, answerEventsTable,
		[]string{"session_id", "mode", "topic", "correct", "xp", "coins"},
		[]any{data.SessionID, data.Mode, data.Topic, data.Correct, data.XP, data.Coins},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendGameSession(ctx context.Context, data GameSessionData) error {
	err := r.insert(ctx, gameSessionsTable,
		[]string{"session_id", "mode", "score", "answers", "correct", "tower_height", "duration_ms"},
		[]any{
			data.SessionID, data.Mode, data.Score, data.Answers, data.Correct,
			data.TowerHeight, data.Duration.Milliseconds(),
		},
	)
	if err != nil {
		return fmt.Errorf("save game session: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGameSessions(ctx context.Context, opts QueryOpts) ([]GameSession, error) {
	sel := builder().Select(
		"id", "sequence", "timestamp", "session_id", "mode", "score",
		"answers", "correct", "tower_height", "duration_ms",
	).
		From(entsql.Table(gameSessionsTable)).
		OrderBy(entsql.Desc("sequence"))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", toMillis(opts.From)))
	}
	if opts.Mode != "" {
		sel.Where(entsql.EQ("mode", opts.Mode))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query game sessions: %w", err)
	}
	defer rows.Close()

	var out []GameSession
	for rows.Next() {
		var (
			gs      GameSession
			ts, dur int64
		)
		err := rows.Scan(
			&gs.ID, &gs.Sequence, &ts, &gs.SessionID, &gs.Mode, &gs.Score,
			&gs.Answers, &gs.Correct, &gs.TowerHeight, &dur,
		)
		if err != nil {
			return nil, fmt.Errorf("scan game session: %w", err)
		}
		gs.Timestamp = fromMillis(ts)
		gs.Duration = time.Duration(dur) * time.Millisecond
		out = append(out, gs)
	}
	return out, rows.Err()
}

func (r *eventRepo) BestScore(ctx context.Context, mode string) (int, error) {
	query, args := builder().Select(entsql.Max("score")).
		From(entsql.Table(gameSessionsTable)).
		Where(entsql.EQ("mode", mode)).
		Query()

	var best sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&best); err != nil {
		return 0, fmt.Errorf("best score: %w", err)
	}
	return int(best.Int64), nil
}

func (r *eventRepo) PurgeGameHistory(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{answerEventsTable, gameSessionsTable} {
		query, args := builder().Delete(table).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("purge %s: %w", table, err)
		}
	}
	return tx.Commit()
}
