package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/jmoiron/sqlx"
)

// upsertChunk bounds the number of rows in one INSERT statement so the
// bound parameter count stays well under SQLite's limit.
const upsertChunk = 200

// row is a table row that can list its values in column order.
type row interface {
	values() []any
}

// upsertRows inserts rows into t in a single transaction, replacing any
// existing row with the same id.
func upsertRows[R row](ctx context.Context, x *sqlx.DB, t *schema.Table, rows []R) error {
	if len(rows) == 0 {
		return nil
	}
	return inTx(ctx, x, func(tx *sqlx.Tx) error {
		for start := 0; start < len(rows); start += upsertChunk {
			end := min(start+upsertChunk, len(rows))
			ins := entsql.Dialect(dialect.SQLite).
				Insert(t.Name).
				Columns(columnNames(t)...)
			for _, r := range rows[start:end] {
				ins.Values(r.values()...)
			}
			ins.OnConflict(
				entsql.ConflictColumns("id"),
				entsql.ResolveWithNewValues(),
			)
			q, args := ins.Query()
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("upsert %s: %w", t.Name, err)
			}
		}
		return nil
	})
}

// selectFrom starts a selector over all columns of t.
func selectFrom(t *schema.Table) *entsql.Selector {
	return entsql.Dialect(dialect.SQLite).
		Select(columnNames(t)...).
		From(entsql.Table(t.Name))
}

func selectRows[R any](ctx context.Context, x *sqlx.DB, sel *entsql.Selector) ([]R, error) {
	q, args := sel.Query()
	var rows []R
	if err := x.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// getRow returns the single row matched by sel, or nil if none.
func getRow[R any](ctx context.Context, x *sqlx.DB, sel *entsql.Selector) (*R, error) {
	q, args := sel.Limit(1).Query()
	var r R
	if err := x.GetContext(ctx, &r, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func deleteWhere(ctx context.Context, x *sqlx.DB, t *schema.Table, p *entsql.Predicate) (int64, error) {
	del := entsql.Dialect(dialect.SQLite).Delete(t.Name)
	if p != nil {
		del.Where(p)
	}
	q, args := del.Query()
	res, err := x.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t.Name, err)
	}
	return res.RowsAffected()
}

// Timestamps are stored as unix milliseconds with 0 for the zero time.

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.UnixMilli(n.Int64).UTC()
	return &t
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// encodeList converts a string list to JSON text for storage.
func encodeList(l []string) string {
	if l == nil {
		l = []string{}
	}
	b, _ := json.Marshal(l)
	return string(b)
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var l []string
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return l, nil
}
