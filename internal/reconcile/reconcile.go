// Package reconcile brings a freshly opened local cache in line with the
// user's remote namespace once per sign-in. The remote side always wins:
// if it holds any data the local cache is discarded, otherwise the local
// cache is uploaded.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/remote"
)

// Cache is the local side of a reconciliation.
type Cache interface {
	AllWords(ctx context.Context) ([]*model.VocabularyWord, error)
	AllCategories(ctx context.Context) ([]*model.WordCategory, error)
	AllProgress(ctx context.Context) ([]*model.WordProgress, error)
	AllQuizResults(ctx context.Context) ([]*model.QuizResult, error)
	AllLessons(ctx context.Context) ([]*model.GrammarLesson, error)
	AllExercises(ctx context.Context) ([]*model.GrammarExercise, error)

	// ClearAll empties every table, word packs included.
	ClearAll(ctx context.Context) error
}

// Decision is the branch a reconciliation took.
type Decision string

const (
	// DecisionUpload means the remote was empty and local data was pushed.
	DecisionUpload Decision = "upload"
	// DecisionClearLocal means the remote had data and the cache was cleared.
	DecisionClearLocal Decision = "clear_local"
)

// Failure records one step that did not complete.
type Failure struct {
	Kind model.Kind // empty for the clear step
	Op   string     // "read", "upload" or "clear"
	Err  error
}

// Result reports what a reconciliation did. Failures are informational;
// they are also logged, and a reconciliation never aborts sign-in.
type Result struct {
	Decision Decision
	Uploaded map[model.Kind]int
	Failures []Failure
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// probeOrder is checked first to last; the first non-empty collection
// decides.
var probeOrder = []model.Kind{
	model.KindVocabularyWord,
	model.KindGrammarLesson,
	model.KindWordProgress,
}

// entity describes how to read one kind from the cache as documents.
type entity struct {
	kind model.Kind
	read func(ctx context.Context, c Cache) ([]remote.Document, error)
}

// uploadTable lists the kinds pushed when the remote is empty, in upload
// order. Word packs are local only.
var uploadTable = []entity{
	{model.KindVocabularyWord, func(ctx context.Context, c Cache) ([]remote.Document, error) {
		return documents(ctx, c.AllWords, func(w *model.VocabularyWord) string { return w.ID })
	}},
	{model.KindWordCategory, func(ctx context.Context, c Cache) ([]remote.Document, error) {
		return documents(ctx, c.AllCategories, func(wc *model.WordCategory) string { return wc.ID })
	}},
	{model.KindWordProgress, func(ctx context.Context, c Cache) ([]remote.Document, error) {
		return documents(ctx, c.AllProgress, func(p *model.WordProgress) string {
			return model.ProgressID(p.UserID, p.WordID)
		})
	}},
	{model.KindQuizResult, func(ctx context.Context, c Cache) ([]remote.Document, error) {
		return documents(ctx, c.AllQuizResults, func(q *model.QuizResult) string { return q.ID })
	}},
	{model.KindGrammarLesson, func(ctx context.Context, c Cache) ([]remote.Document, error) {
		return documents(ctx, c.AllLessons, func(l *model.GrammarLesson) string { return l.ID })
	}},
	{model.KindGrammarExercise, func(ctx context.Context, c Cache) ([]remote.Document, error) {
		return documents(ctx, c.AllExercises, func(e *model.GrammarExercise) string { return e.ID })
	}},
}

func documents[T any](ctx context.Context, read func(context.Context) ([]T, error), id func(T) string) ([]remote.Document, error) {
	items, err := read(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]remote.Document, 0, len(items))
	for _, it := range items {
		doc, err := remote.Encode(id(it), it)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Reconciler runs reconciliations. The zero value logs to slog.Default.
type Reconciler struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

func (r *Reconciler) log() *slog.Logger {
	if r == nil || r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// HasRemoteData reports whether the namespace holds vocabulary words,
// grammar lessons or progress, probing in that order and stopping at the
// first hit. A failed probe is logged and counts as empty; the remaining
// kinds are still probed.
func (r *Reconciler) HasRemoteData(ctx context.Context, ns remote.Namespace) bool {
	for _, kind := range probeOrder {
		found, err := ns.Probe(ctx, kind)
		if err != nil {
			r.log().Warn("remote probe failed",
				slog.String("user_id", ns.UserID()),
				slog.String("kind", kind.String()),
				slog.Any("error", err))
			continue
		}
		if found {
			return true
		}
	}
	return false
}

// Reconcile decides between uploading the cache and clearing it, then
// does so. Per-kind failures are logged and recorded, and the remaining
// kinds are still attempted. Running it again against an unchanged remote
// is safe: after an upload the remote is non-empty, so the second run
// clears the cache.
func (r *Reconciler) Reconcile(ctx context.Context, cache Cache, ns remote.Namespace) Result {
	logger := r.log().With(slog.String("user_id", ns.UserID()))

	if r.HasRemoteData(ctx, ns) {
		res := Result{Decision: DecisionClearLocal}
		if err := cache.ClearAll(ctx); err != nil {
			logger.Error("clear local cache failed", slog.Any("error", err))
			res.Failures = append(res.Failures, Failure{Op: "clear", Err: err})
			return res
		}
		logger.Info("remote has data, local cache cleared")
		return res
	}

	res := Result{Decision: DecisionUpload, Uploaded: make(map[model.Kind]int)}
	r.upload(ctx, logger, cache, ns, uploadTable, &res)
	logger.Info("local data uploaded",
		slog.Any("uploaded", res.Uploaded), slog.Int("failures", len(res.Failures)))
	return res
}

// contentKinds are the reference content kinds of uploadTable.
var contentKinds = map[model.Kind]bool{
	model.KindVocabularyWord:  true,
	model.KindWordCategory:    true,
	model.KindGrammarLesson:   true,
	model.KindGrammarExercise: true,
}

// UploadContent pushes the cache's reference content to the namespace,
// overwriting documents with the same id. Learner data is left alone. It
// is used after an import into a session whose remote is authoritative.
func (r *Reconciler) UploadContent(ctx context.Context, cache Cache, ns remote.Namespace) Result {
	logger := r.log().With(slog.String("user_id", ns.UserID()))
	var table []entity
	for _, e := range uploadTable {
		if contentKinds[e.kind] {
			table = append(table, e)
		}
	}
	res := Result{Decision: DecisionUpload, Uploaded: make(map[model.Kind]int)}
	r.upload(ctx, logger, cache, ns, table, &res)
	logger.Info("content uploaded",
		slog.Any("uploaded", res.Uploaded), slog.Int("failures", len(res.Failures)))
	return res
}

func (r *Reconciler) upload(ctx context.Context, logger *slog.Logger, cache Cache, ns remote.Namespace, table []entity, res *Result) {
	for _, e := range table {
		docs, err := e.read(ctx, cache)
		if err != nil {
			logger.Error("read local data failed",
				slog.String("kind", e.kind.String()), slog.Any("error", err))
			res.Failures = append(res.Failures, Failure{Kind: e.kind, Op: "read", Err: err})
			continue
		}
		if len(docs) == 0 {
			continue
		}
		if err := ns.SetAll(ctx, e.kind, docs); err != nil {
			logger.Error("upload failed",
				slog.String("kind", e.kind.String()),
				slog.Int("count", len(docs)),
				slog.Any("error", err))
			res.Failures = append(res.Failures, Failure{Kind: e.kind, Op: "upload", Err: err})
			continue
		}
		res.Uploaded[e.kind] = len(docs)
		logger.Debug("uploaded local data",
			slog.String("kind", e.kind.String()), slog.Int("count", len(docs)))
	}
}
