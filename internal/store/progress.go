package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/vocabulous/vocabulous/internal/model"
)

type progressRow struct {
	ID               string        `db:"id"`
	UserID           string        `db:"user_id"`
	WordID           string        `db:"word_id"`
	ProficiencyLevel int           `db:"proficiency_level"`
	LastReviewedAt   sql.NullInt64 `db:"last_reviewed_at"`
	NextReviewDue    sql.NullInt64 `db:"next_review_due"`
	ReviewCount      int           `db:"review_count"`
	IsBookmarked     bool          `db:"is_bookmarked"`
	Notes            string        `db:"notes"`
	UpdatedAt        int64         `db:"updated_at"`
}

func (r progressRow) values() []any {
	return []any{
		r.ID, r.UserID, r.WordID, r.ProficiencyLevel,
		r.LastReviewedAt, r.NextReviewDue, r.ReviewCount,
		r.IsBookmarked, r.Notes, r.UpdatedAt,
	}
}

func progressToRow(p *model.WordProgress) progressRow {
	id := p.ID
	if id == "" {
		id = model.ProgressID(p.UserID, p.WordID)
	}
	return progressRow{
		ID:               id,
		UserID:           p.UserID,
		WordID:           p.WordID,
		ProficiencyLevel: int(p.ProficiencyLevel),
		LastReviewedAt:   toNullMillis(p.LastReviewedAt),
		NextReviewDue:    toNullMillis(p.NextReviewDue),
		ReviewCount:      p.ReviewCount,
		IsBookmarked:     p.IsBookmarked,
		Notes:            p.Notes,
		UpdatedAt:        toMillis(p.UpdatedAt),
	}
}

func (r progressRow) toModel() *model.WordProgress {
	return &model.WordProgress{
		ID:               r.ID,
		UserID:           r.UserID,
		WordID:           r.WordID,
		ProficiencyLevel: model.ProficiencyLevel(r.ProficiencyLevel),
		LastReviewedAt:   fromNullMillis(r.LastReviewedAt),
		NextReviewDue:    fromNullMillis(r.NextReviewDue),
		ReviewCount:      r.ReviewCount,
		IsBookmarked:     r.IsBookmarked,
		Notes:            r.Notes,
		UpdatedAt:        fromMillis(r.UpdatedAt),
	}
}

func progressModels(rows []progressRow) []*model.WordProgress {
	out := make([]*model.WordProgress, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out
}

// ProgressRepo reads and writes word progress records.
type ProgressRepo struct {
	x *sqlx.DB
}

// Get returns the progress for a (user, word) pair, or nil if the user
// has never rated or bookmarked the word.
func (r *ProgressRepo) Get(ctx context.Context, userID, wordID string) (*model.WordProgress, error) {
	sel := selectFrom(userProgressTable).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("word_id", wordID)))
	row, err := getRow[progressRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toModel(), nil
}

// Save inserts or replaces one progress record.
func (r *ProgressRepo) Save(ctx context.Context, p *model.WordProgress) error {
	return r.Upsert(ctx, p)
}

// Upsert inserts or replaces progress records keyed by their composite id.
func (r *ProgressRepo) Upsert(ctx context.Context, ps ...*model.WordProgress) error {
	rows := make([]progressRow, len(ps))
	for i, p := range ps {
		rows[i] = progressToRow(p)
	}
	return upsertRows(ctx, r.x, userProgressTable, rows)
}

// All returns every progress record in the cache.
func (r *ProgressRepo) All(ctx context.Context) ([]*model.WordProgress, error) {
	rows, err := selectRows[progressRow](ctx, r.x, selectFrom(userProgressTable).OrderBy(entsql.Asc("id")))
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return progressModels(rows), nil
}

// ListByUser returns every progress record for userID.
func (r *ProgressRepo) ListByUser(ctx context.Context, userID string) ([]*model.WordProgress, error) {
	sel := selectFrom(userProgressTable).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Asc("word_id"))
	rows, err := selectRows[progressRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("list progress for user: %w", err)
	}
	return progressModels(rows), nil
}

// Due returns the user's records due at now, earliest first.
func (r *ProgressRepo) Due(ctx context.Context, userID string, now time.Time) ([]*model.WordProgress, error) {
	sel := selectFrom(userProgressTable).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.NotNull("next_review_due"),
			entsql.LTE("next_review_due", now.UnixMilli()),
		)).
		OrderBy(entsql.Asc("next_review_due"), entsql.Asc("word_id"))
	rows, err := selectRows[progressRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("list due progress: %w", err)
	}
	return progressModels(rows), nil
}

// DeleteByUser removes every progress record for userID.
func (r *ProgressRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := deleteWhere(ctx, r.x, userProgressTable, entsql.EQ("user_id", userID))
	return err
}
