package remote

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vocabulous/vocabulous/internal/model"
)

// ProgressRepo reads and writes word progress in a namespace. Only the
// namespace owner's records are reachable.
type ProgressRepo struct {
	ns Namespace
}

func NewProgressRepo(ns Namespace) *ProgressRepo {
	return &ProgressRepo{ns: ns}
}

// Get returns the progress for a (user, word) pair, or nil if none.
func (r *ProgressRepo) Get(ctx context.Context, userID, wordID string) (*model.WordProgress, error) {
	if err := checkOwner(r.ns, userID); err != nil {
		return nil, err
	}
	doc, err := r.ns.Get(ctx, model.KindWordProgress, model.ProgressID(userID, wordID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p model.WordProgress
	if err := Decode(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepo) Save(ctx context.Context, p *model.WordProgress) error {
	if err := checkOwner(r.ns, p.UserID); err != nil {
		return err
	}
	id := model.ProgressID(p.UserID, p.WordID)
	doc, err := Encode(id, p)
	if err != nil {
		return err
	}
	return r.ns.Set(ctx, model.KindWordProgress, doc)
}

// ListByUser returns every progress record of userID ordered by word id.
func (r *ProgressRepo) ListByUser(ctx context.Context, userID string) ([]*model.WordProgress, error) {
	if err := checkOwner(r.ns, userID); err != nil {
		return nil, err
	}
	docs, err := r.ns.List(ctx, model.KindWordProgress)
	if err != nil {
		return nil, err
	}
	out := make([]*model.WordProgress, 0, len(docs))
	for _, d := range docs {
		var p model.WordProgress
		if err := Decode(d, &p); err != nil {
			return nil, err
		}
		if p.UserID != userID {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WordID < out[j].WordID })
	return out, nil
}

// QuizRepo stores quiz results in a namespace.
type QuizRepo struct {
	ns Namespace
}

func NewQuizRepo(ns Namespace) *QuizRepo {
	return &QuizRepo{ns: ns}
}

func (r *QuizRepo) Save(ctx context.Context, q *model.QuizResult) error {
	if err := checkOwner(r.ns, q.UserID); err != nil {
		return err
	}
	doc, err := Encode(q.ID, q)
	if err != nil {
		return err
	}
	return r.ns.Set(ctx, model.KindQuizResult, doc)
}

// ListByUser returns the user's quiz results, newest first.
func (r *QuizRepo) ListByUser(ctx context.Context, userID string) ([]*model.QuizResult, error) {
	if err := checkOwner(r.ns, userID); err != nil {
		return nil, err
	}
	docs, err := r.ns.List(ctx, model.KindQuizResult)
	if err != nil {
		return nil, err
	}
	out := make([]*model.QuizResult, 0, len(docs))
	for _, d := range docs {
		var q model.QuizResult
		if err := Decode(d, &q); err != nil {
			return nil, err
		}
		if q.UserID != userID {
			continue
		}
		out = append(out, &q)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func checkOwner(ns Namespace, userID string) error {
	if userID != ns.UserID() {
		return fmt.Errorf("%w: user %q does not own namespace of %q", model.ErrInvalidInput, userID, ns.UserID())
	}
	return nil
}
