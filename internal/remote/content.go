package remote

import (
	"context"
	"fmt"
	"sort"

	"github.com/vocabulous/vocabulous/internal/model"
)

// WordRepo reads vocabulary from a namespace. Filtering happens client
// side since a namespace only lists whole collections.
type WordRepo struct {
	ns Namespace
}

func NewWordRepo(ns Namespace) *WordRepo {
	return &WordRepo{ns: ns}
}

// All returns every word, alphabetically.
func (r *WordRepo) All(ctx context.Context) ([]*model.VocabularyWord, error) {
	ws, err := listKind[model.VocabularyWord](ctx, r.ns, model.KindVocabularyWord)
	if err != nil {
		return nil, err
	}
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Word != ws[j].Word {
			return ws[i].Word < ws[j].Word
		}
		return ws[i].ID < ws[j].ID
	})
	return ws, nil
}

func (r *WordRepo) Search(ctx context.Context, f model.WordFilter) ([]*model.VocabularyWord, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, w := range all {
		if f.Matches(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// Get returns the word with id, or an error wrapping model.ErrNotFound.
func (r *WordRepo) Get(ctx context.Context, id string) (*model.VocabularyWord, error) {
	doc, err := r.ns.Get(ctx, model.KindVocabularyWord, id)
	if err != nil {
		return nil, fmt.Errorf("word %q: %w", id, err)
	}
	var w model.VocabularyWord
	if err := Decode(doc, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// FindByText returns the word whose text matches exactly.
func (r *WordRepo) FindByText(ctx context.Context, text string) (*model.VocabularyWord, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range all {
		if w.Word == text {
			return w, nil
		}
	}
	return nil, fmt.Errorf("word %q: %w", text, model.ErrNotFound)
}

type CategoryRepo struct {
	ns Namespace
}

func NewCategoryRepo(ns Namespace) *CategoryRepo {
	return &CategoryRepo{ns: ns}
}

// All returns categories in display order.
func (r *CategoryRepo) All(ctx context.Context) ([]*model.WordCategory, error) {
	cs, err := listKind[model.WordCategory](ctx, r.ns, model.KindWordCategory)
	if err != nil {
		return nil, err
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Order != cs[j].Order {
			return cs[i].Order < cs[j].Order
		}
		return cs[i].ID < cs[j].ID
	})
	return cs, nil
}

func (r *CategoryRepo) ByDifficulty(ctx context.Context, difficulty int) ([]*model.WordCategory, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, c := range all {
		if c.Difficulty == difficulty {
			out = append(out, c)
		}
	}
	return out, nil
}

type LessonRepo struct {
	ns Namespace
}

func NewLessonRepo(ns Namespace) *LessonRepo {
	return &LessonRepo{ns: ns}
}

// All returns lessons in course order.
func (r *LessonRepo) All(ctx context.Context) ([]*model.GrammarLesson, error) {
	ls, err := listKind[model.GrammarLesson](ctx, r.ns, model.KindGrammarLesson)
	if err != nil {
		return nil, err
	}
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].Order != ls[j].Order {
			return ls[i].Order < ls[j].Order
		}
		return ls[i].ID < ls[j].ID
	})
	return ls, nil
}

func (r *LessonRepo) Get(ctx context.Context, id string) (*model.GrammarLesson, error) {
	doc, err := r.ns.Get(ctx, model.KindGrammarLesson, id)
	if err != nil {
		return nil, fmt.Errorf("lesson %q: %w", id, err)
	}
	var l model.GrammarLesson
	if err := Decode(doc, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

type ExerciseRepo struct {
	ns Namespace
}

func NewExerciseRepo(ns Namespace) *ExerciseRepo {
	return &ExerciseRepo{ns: ns}
}

// ByLesson returns the exercises of one lesson in order.
func (r *ExerciseRepo) ByLesson(ctx context.Context, lessonID string) ([]*model.GrammarExercise, error) {
	all, err := listKind[model.GrammarExercise](ctx, r.ns, model.KindGrammarExercise)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if e.LessonID == lessonID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func listKind[T any](ctx context.Context, ns Namespace, kind model.Kind) ([]*T, error) {
	docs, err := ns.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		v := new(T)
		if err := Decode(d, v); err != nil {
			return nil, fmt.Errorf("%s/%s: %w", kind, d.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}
