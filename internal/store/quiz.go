package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/vocabulous/vocabulous/internal/model"
)

type quizRow struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	CategoryID     sql.NullString `db:"category_id"`
	Score          int            `db:"score"`
	TotalQuestions int            `db:"total_questions"`
	TimeTakenMs    int64          `db:"time_taken_ms"`
	CompletedAt    int64          `db:"completed_at"`
	WordIDs        string         `db:"word_ids"`
}

func (r quizRow) values() []any {
	return []any{
		r.ID, r.UserID, r.CategoryID, r.Score, r.TotalQuestions,
		r.TimeTakenMs, r.CompletedAt, r.WordIDs,
	}
}

func quizToRow(q *model.QuizResult) quizRow {
	return quizRow{
		ID:             q.ID,
		UserID:         q.UserID,
		CategoryID:     toNullString(q.CategoryID),
		Score:          q.Score,
		TotalQuestions: q.TotalQuestions,
		TimeTakenMs:    q.TimeTakenMs,
		CompletedAt:    toMillis(q.CompletedAt),
		WordIDs:        encodeList(q.WordIDs),
	}
}

func (r quizRow) toModel() (*model.QuizResult, error) {
	ids, err := decodeList(r.WordIDs)
	if err != nil {
		return nil, fmt.Errorf("quiz result %s: %w", r.ID, err)
	}
	return &model.QuizResult{
		ID:             r.ID,
		UserID:         r.UserID,
		CategoryID:     r.CategoryID.String,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		TimeTakenMs:    r.TimeTakenMs,
		CompletedAt:    fromMillis(r.CompletedAt),
		WordIDs:        ids,
	}, nil
}

func quizModels(rows []quizRow) ([]*model.QuizResult, error) {
	out := make([]*model.QuizResult, 0, len(rows))
	for _, r := range rows {
		q, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// QuizRepo stores completed quiz attempts. Results are never updated in
// place; Save with an existing id replaces the row.
type QuizRepo struct {
	x *sqlx.DB
}

func (r *QuizRepo) Save(ctx context.Context, q *model.QuizResult) error {
	return r.Upsert(ctx, q)
}

func (r *QuizRepo) Upsert(ctx context.Context, qs ...*model.QuizResult) error {
	rows := make([]quizRow, len(qs))
	for i, q := range qs {
		rows[i] = quizToRow(q)
	}
	return upsertRows(ctx, r.x, quizResultsTable, rows)
}

// All returns every quiz result in the cache, oldest first.
func (r *QuizRepo) All(ctx context.Context) ([]*model.QuizResult, error) {
	rows, err := selectRows[quizRow](ctx, r.x, selectFrom(quizResultsTable).OrderBy(entsql.Asc("completed_at"), entsql.Asc("id")))
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	return quizModels(rows)
}

// ListByUser returns the user's quiz results, newest first.
func (r *QuizRepo) ListByUser(ctx context.Context, userID string) ([]*model.QuizResult, error) {
	sel := selectFrom(quizResultsTable).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"), entsql.Asc("id"))
	rows, err := selectRows[quizRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("list quiz results for user: %w", err)
	}
	return quizModels(rows)
}

func (r *QuizRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := deleteWhere(ctx, r.x, quizResultsTable, entsql.EQ("user_id", userID))
	return err
}
