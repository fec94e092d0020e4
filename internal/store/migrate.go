package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// eventColumns returns the id, sequence and timestamp columns every event
// table starts with. Timestamps are UTC unix milliseconds.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
	}
}

// eventTable builds an event table with the shared columns, a primary key on
// id, and indexes on sequence and timestamp plus any extra indexed columns.
func eventTable(name string, columns []*schema.Column, indexed ...string) *schema.Table {
	cols := append(eventColumns(), columns...)
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, c := range append([]string{"timestamp"}, indexed...) {
		for _, col := range cols {
			if col.Name == c {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    name + "_" + c,
					Columns: []*schema.Column{col},
				})
			}
		}
	}
	return t
}

var (
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	kvTable = &schema.Table{
		Name:       "kv",
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       sequenceTableName,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	answerEventsSchema = eventTable(answerEventsTable, []*schema.Column{
		{Name: "session_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "coins", Type: field.TypeInt, Default: 0},
	}, "session_id", "topic")

	gameSessionsSchema = eventTable(gameSessionsTable, []*schema.Column{
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "mode", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "answers", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "tower_height", Type: field.TypeInt, Default: 0},
		{Name: "duration_ms", Type: field.TypeInt64, Default: 0},
	}, "mode")

	llmRequestEventsSchema = eventTable(llmEventsTable, []*schema.Column{
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}, "provider", "purpose", "success")

	// tables lists every table the store owns.
	tables = []*schema.Table{
		kvTable,
		sequenceTable,
		answerEventsSchema,
		gameSessionsSchema,
		llmRequestEventsSchema,
	}
)

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migration: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
