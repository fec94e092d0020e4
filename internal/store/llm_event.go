package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const llmEventsTable = "llm_request_events"

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, llmEventsTable,
		[]string{
			"provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body",
		},
		[]any{
			data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder().Select(llmEventColumns...).
		From(entsql.Table(llmEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", toMillis(opts.From)))
	}
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMRequestEvent
	for rows.Next() {
		ev, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error) {
	query, args := builder().Select(llmEventColumns...).
		From(entsql.Table(llmEventsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	ev, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("LLM event %d: %w", id, ErrNotFound)
	}
	return ev, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]UsageStat, error) {
	return r.usageBy(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]UsageStat, error) {
	return r.usageBy(ctx, "model")
}

func (r *eventRepo) usageBy(ctx context.Context, column string) ([]UsageStat, error) {
	query, args := builder().Select(
		column,
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "total_in"),
		entsql.As(entsql.Sum("output_tokens"), "total_out"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(llmEventsTable)).
		GroupBy(column).
		OrderBy(entsql.Desc("calls")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []UsageStat
	for rows.Next() {
		var (
			s   UsageStat
			avg float64
		)
		if err := rows.Scan(&s.Key, &s.Calls, &s.InputTokens, &s.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		s.AvgLatencyMs = int64(avg)
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMRequestEvent, error) {
	var (
		ev LLMRequestEvent
		ts int64
	)
	err := row.Scan(
		&ev.ID, &ev.Sequence, &ts, &ev.Provider, &ev.Model, &ev.Purpose,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success,
		&ev.ErrorMessage, &ev.RequestBody, &ev.ResponseBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	ev.Timestamp = fromMillis(ts)
	return &ev, nil
}
