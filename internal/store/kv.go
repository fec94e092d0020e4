package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type kvRepo struct {
	db *sql.DB
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := builder().Select("value").
		From(entsql.Table("kv")).
		Where(entsql.EQ("key", key)).
		Query()

	var value []byte
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (r *kvRepo) Put(ctx context.Context, key string, value []byte) error {
	query, args := builder().Insert("kv").
		Columns("key", "value", "updated_at").
		Values(key, value, toMillis(time.Now())).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete("kv").Where(entsql.EQ("key", key)).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
