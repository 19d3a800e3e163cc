package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/remote"
	"github.com/vocabulous/vocabulous/internal/store"
)

// --- test doubles ---

type mockNamespace struct {
	mock.Mock
}

func (m *mockNamespace) UserID() string { return "u1" }

func (m *mockNamespace) List(ctx context.Context, kind model.Kind) ([]remote.Document, error) {
	args := m.Called(ctx, kind)
	docs, _ := args.Get(0).([]remote.Document)
	return docs, args.Error(1)
}

func (m *mockNamespace) Probe(ctx context.Context, kind model.Kind) (bool, error) {
	args := m.Called(ctx, kind)
	return args.Bool(0), args.Error(1)
}

func (m *mockNamespace) Get(ctx context.Context, kind model.Kind, id string) (remote.Document, error) {
	args := m.Called(ctx, kind, id)
	doc, _ := args.Get(0).(remote.Document)
	return doc, args.Error(1)
}

func (m *mockNamespace) Set(ctx context.Context, kind model.Kind, doc remote.Document) error {
	return m.Called(ctx, kind, doc).Error(0)
}

func (m *mockNamespace) SetAll(ctx context.Context, kind model.Kind, docs []remote.Document) error {
	return m.Called(ctx, kind, docs).Error(0)
}

func (m *mockNamespace) Delete(ctx context.Context, kind model.Kind, id string) error {
	return m.Called(ctx, kind, id).Error(0)
}

func (m *mockNamespace) DeleteAll(ctx context.Context, kind model.Kind) error {
	return m.Called(ctx, kind).Error(0)
}

func (m *mockNamespace) Close() error { return nil }

// fakeCache holds fixed data and optional per-kind read errors.
type fakeCache struct {
	words     []*model.VocabularyWord
	progress  []*model.WordProgress
	lessons   []*model.GrammarLesson
	readErr   map[model.Kind]error
	clearErr  error
	clearCall int
}

func (c *fakeCache) AllWords(ctx context.Context) ([]*model.VocabularyWord, error) {
	return c.words, c.readErr[model.KindVocabularyWord]
}

func (c *fakeCache) AllCategories(ctx context.Context) ([]*model.WordCategory, error) {
	return nil, c.readErr[model.KindWordCategory]
}

func (c *fakeCache) AllProgress(ctx context.Context) ([]*model.WordProgress, error) {
	return c.progress, c.readErr[model.KindWordProgress]
}

func (c *fakeCache) AllQuizResults(ctx context.Context) ([]*model.QuizResult, error) {
	return nil, c.readErr[model.KindQuizResult]
}

func (c *fakeCache) AllLessons(ctx context.Context) ([]*model.GrammarLesson, error) {
	return c.lessons, c.readErr[model.KindGrammarLesson]
}

func (c *fakeCache) AllExercises(ctx context.Context) ([]*model.GrammarExercise, error) {
	return nil, c.readErr[model.KindGrammarExercise]
}

func (c *fakeCache) ClearAll(ctx context.Context) error {
	c.clearCall++
	return c.clearErr
}

func quietReconciler() *Reconciler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// --- HasRemoteData ---

func TestHasRemoteData_AllEmpty(t *testing.T) {
	ns := remote.NewMemory().Namespace("u1")
	assert.False(t, quietReconciler().HasRemoteData(context.Background(), ns))
}

func TestHasRemoteData_ShortCircuitsOnFirstHit(t *testing.T) {
	ns := new(mockNamespace)
	ns.On("Probe", mock.Anything, model.KindVocabularyWord).Return(true, nil).Once()

	assert.True(t, quietReconciler().HasRemoteData(context.Background(), ns))
	ns.AssertExpectations(t)
	ns.AssertNotCalled(t, "Probe", mock.Anything, model.KindGrammarLesson)
	ns.AssertNotCalled(t, "Probe", mock.Anything, model.KindWordProgress)
}

func TestHasRemoteData_ProbesInOrder(t *testing.T) {
	ns := new(mockNamespace)
	var order []model.Kind
	record := func(args mock.Arguments) { order = append(order, args.Get(1).(model.Kind)) }
	ns.On("Probe", mock.Anything, model.KindVocabularyWord).Return(false, nil).Run(record)
	ns.On("Probe", mock.Anything, model.KindGrammarLesson).Return(false, nil).Run(record)
	ns.On("Probe", mock.Anything, model.KindWordProgress).Return(true, nil).Run(record)

	assert.True(t, quietReconciler().HasRemoteData(context.Background(), ns))
	assert.Equal(t, []model.Kind{model.KindVocabularyWord, model.KindGrammarLesson, model.KindWordProgress}, order)
}

func TestHasRemoteData_ProbeErrorCountsAsAbsent(t *testing.T) {
	ns := new(mockNamespace)
	boom := &remote.ErrUnavailable{Op: "probe", Err: errors.New("connection reset")}
	ns.On("Probe", mock.Anything, model.KindVocabularyWord).Return(false, boom)
	ns.On("Probe", mock.Anything, model.KindGrammarLesson).Return(true, nil)

	assert.True(t, quietReconciler().HasRemoteData(context.Background(), ns))
	ns.AssertExpectations(t)
}

func TestHasRemoteData_AllProbesFail(t *testing.T) {
	ns := new(mockNamespace)
	ns.On("Probe", mock.Anything, mock.Anything).Return(false, errors.New("offline"))

	assert.False(t, quietReconciler().HasRemoteData(context.Background(), ns))
	ns.AssertNumberOfCalls(t, "Probe", 3)
}

// --- Reconcile ---

func TestReconcile_UploadsWhenRemoteEmpty(t *testing.T) {
	ctx := context.Background()
	cache := openStore(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Words().Upsert(ctx,
		&model.VocabularyWord{ID: "w1", Word: "apple", Definition: "a fruit", CreatedAt: now},
		&model.VocabularyWord{ID: "w2", Word: "brave", Definition: "bold", CreatedAt: now},
		&model.VocabularyWord{ID: "w3", Word: "calm", Definition: "still", CreatedAt: now},
	))
	require.NoError(t, cache.Lessons().Upsert(ctx,
		&model.GrammarLesson{ID: "l1", Title: "Articles", Tags: []string{"basics"}, CreatedAt: now},
	))

	mem := remote.NewMemory()
	ns := mem.Namespace("u1")

	res := quietReconciler().Reconcile(ctx, cache, ns)

	assert.Equal(t, DecisionUpload, res.Decision)
	assert.True(t, res.OK())
	assert.Equal(t, map[model.Kind]int{model.KindVocabularyWord: 3, model.KindGrammarLesson: 1}, res.Uploaded)
	assert.Equal(t, 3, mem.Count("u1", model.KindVocabularyWord))
	assert.Equal(t, 1, mem.Count("u1", model.KindGrammarLesson))
	assert.Zero(t, mem.Count("u1", model.KindWordProgress))

	// Local cache untouched.
	words, err := cache.Words().All(ctx)
	require.NoError(t, err)
	assert.Len(t, words, 3)

	doc, err := ns.Get(ctx, model.KindVocabularyWord, "w2")
	require.NoError(t, err)
	assert.Equal(t, "brave", doc.Data["word"])
}

func TestReconcile_ClearsLocalWhenRemoteHasData(t *testing.T) {
	ctx := context.Background()
	cache := openStore(t)

	require.NoError(t, cache.Words().Upsert(ctx, &model.VocabularyWord{ID: "w1", Word: "apple", Definition: "a fruit"}))
	require.NoError(t, cache.Progress().Save(ctx, model.NewWordProgress("u1", "w1")))
	require.NoError(t, cache.Packs().Upsert(ctx, &model.WordPack{ID: "p1", Name: "Travel"}))

	ns := remote.NewMemory().Namespace("u1")
	require.NoError(t, ns.Set(ctx, model.KindWordProgress, remote.Document{ID: "u1-w9", Data: map[string]any{"wordId": "w9"}}))

	res := quietReconciler().Reconcile(ctx, cache, ns)

	assert.Equal(t, DecisionClearLocal, res.Decision)
	assert.True(t, res.OK())
	for _, kind := range model.AllKinds {
		n, err := cache.Count(ctx, kind)
		require.NoError(t, err)
		assert.Zero(t, n, "kind %s", kind)
	}

	// Remote untouched.
	docs, err := ns.List(ctx, model.KindWordProgress)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestReconcile_SecondRunClears(t *testing.T) {
	ctx := context.Background()
	cache := openStore(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Words().Upsert(ctx,
		&model.VocabularyWord{ID: "w1", Word: "apple", Definition: "a fruit", CreatedAt: now},
		&model.VocabularyWord{ID: "w2", Word: "brave", Definition: "bold", CreatedAt: now},
	))
	require.NoError(t, cache.Categories().Upsert(ctx, &model.WordCategory{ID: "c1", Name: "Food", CreatedAt: now}))
	p := model.NewWordProgress("u1", "w1")
	p.ReviewCount = 3
	require.NoError(t, cache.Progress().Save(ctx, p))
	require.NoError(t, cache.Quizzes().Save(ctx, &model.QuizResult{
		ID: "q1", UserID: "u1", Score: 2, TotalQuestions: 3, CompletedAt: now,
	}))

	mem := remote.NewMemory()
	ns := mem.Namespace("u1")
	r := quietReconciler()

	snapshot := func() map[model.Kind][]remote.Document {
		t.Helper()
		out := make(map[model.Kind][]remote.Document, len(model.AllKinds))
		for _, kind := range model.AllKinds {
			docs, err := ns.List(ctx, kind)
			require.NoError(t, err)
			out[kind] = docs
		}
		return out
	}

	first := r.Reconcile(ctx, cache, ns)
	require.Equal(t, DecisionUpload, first.Decision)
	require.True(t, first.OK())
	afterFirst := snapshot()
	require.Len(t, afterFirst[model.KindVocabularyWord], 2)
	require.Len(t, afterFirst[model.KindWordProgress], 1)

	second := r.Reconcile(ctx, cache, ns)
	assert.Equal(t, DecisionClearLocal, second.Decision)
	assert.True(t, second.OK())
	assert.Equal(t, afterFirst, snapshot())

	for _, kind := range model.AllKinds {
		n, err := cache.Count(ctx, kind)
		require.NoError(t, err)
		assert.Zero(t, n, "kind %s", kind)
	}
}

func TestUploadContent_SkipsLearnerData(t *testing.T) {
	ctx := context.Background()
	cache := openStore(t)
	require.NoError(t, cache.Words().Upsert(ctx, &model.VocabularyWord{ID: "w1", Word: "apple", Definition: "a fruit"}))
	require.NoError(t, cache.Lessons().Upsert(ctx, &model.GrammarLesson{ID: "l1", Title: "Articles"}))
	require.NoError(t, cache.Progress().Save(ctx, model.NewWordProgress("u1", "w1")))

	mem := remote.NewMemory()
	ns := mem.Namespace("u1")
	require.NoError(t, ns.Set(ctx, model.KindVocabularyWord, remote.Document{ID: "w9", Data: map[string]any{"id": "w9", "word": "zeal"}}))

	res := quietReconciler().UploadContent(ctx, cache, ns)

	assert.True(t, res.OK())
	assert.Equal(t, map[model.Kind]int{model.KindVocabularyWord: 1, model.KindGrammarLesson: 1}, res.Uploaded)
	assert.Equal(t, 2, mem.Count("u1", model.KindVocabularyWord))
	assert.Zero(t, mem.Count("u1", model.KindWordProgress))

	n, err := cache.Count(ctx, model.KindVocabularyWord)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReconcile_BothEmpty(t *testing.T) {
	ctx := context.Background()
	cache := openStore(t)
	mem := remote.NewMemory()

	res := quietReconciler().Reconcile(ctx, cache, mem.Namespace("u1"))

	assert.Equal(t, DecisionUpload, res.Decision)
	assert.Empty(t, res.Uploaded)
	assert.True(t, res.OK())
	for _, kind := range model.AllKinds {
		assert.Zero(t, mem.Count("u1", kind))
	}
}

func TestReconcile_AllProbesFailStillUploads(t *testing.T) {
	ctx := context.Background()
	cache := &fakeCache{
		words: []*model.VocabularyWord{{ID: "w1", Word: "apple"}},
	}
	ns := new(mockNamespace)
	ns.On("Probe", mock.Anything, mock.Anything).Return(false, errors.New("offline"))
	ns.On("SetAll", mock.Anything, model.KindVocabularyWord, mock.MatchedBy(func(docs []remote.Document) bool {
		return len(docs) == 1 && docs[0].ID == "w1"
	})).Return(nil)

	res := quietReconciler().Reconcile(ctx, cache, ns)

	assert.Equal(t, DecisionUpload, res.Decision)
	assert.Equal(t, 1, res.Uploaded[model.KindVocabularyWord])
	assert.Zero(t, cache.clearCall)
	ns.AssertExpectations(t)
}

func TestReconcile_UploadFailureContinuesWithOtherKinds(t *testing.T) {
	ctx := context.Background()
	cache := &fakeCache{
		words:    []*model.VocabularyWord{{ID: "w1"}},
		progress: []*model.WordProgress{model.NewWordProgress("u1", "w1")},
		lessons:  []*model.GrammarLesson{{ID: "l1"}},
		readErr:  map[model.Kind]error{model.KindQuizResult: errors.New("disk error")},
	}
	uploadErr := &remote.ErrUnavailable{Op: "set", Err: errors.New("deadline")}

	ns := new(mockNamespace)
	ns.On("Probe", mock.Anything, mock.Anything).Return(false, nil)
	ns.On("SetAll", mock.Anything, model.KindVocabularyWord, mock.Anything).Return(uploadErr)
	ns.On("SetAll", mock.Anything, model.KindWordProgress, mock.MatchedBy(func(docs []remote.Document) bool {
		return len(docs) == 1 && docs[0].ID == "u1-w1"
	})).Return(nil)
	ns.On("SetAll", mock.Anything, model.KindGrammarLesson, mock.Anything).Return(nil)

	res := quietReconciler().Reconcile(ctx, cache, ns)

	assert.Equal(t, DecisionUpload, res.Decision)
	assert.False(t, res.OK())
	require.Len(t, res.Failures, 2)
	assert.Equal(t, Failure{Kind: model.KindVocabularyWord, Op: "upload", Err: uploadErr}, res.Failures[0])
	assert.Equal(t, model.KindQuizResult, res.Failures[1].Kind)
	assert.Equal(t, "read", res.Failures[1].Op)
	assert.Equal(t, map[model.Kind]int{model.KindWordProgress: 1, model.KindGrammarLesson: 1}, res.Uploaded)
	ns.AssertExpectations(t)
	assert.Zero(t, cache.clearCall)
}

func TestReconcile_ClearFailureIsReported(t *testing.T) {
	ctx := context.Background()
	clearErr := errors.New("database is locked")
	cache := &fakeCache{clearErr: clearErr}
	ns := new(mockNamespace)
	ns.On("Probe", mock.Anything, model.KindVocabularyWord).Return(true, nil)

	res := quietReconciler().Reconcile(ctx, cache, ns)

	assert.Equal(t, DecisionClearLocal, res.Decision)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Failures[0].Err, clearErr)
	assert.Equal(t, 1, cache.clearCall)
	ns.AssertNotCalled(t, "SetAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_ZeroValueReconciler(t *testing.T) {
	var r Reconciler
	res := r.Reconcile(context.Background(), &fakeCache{}, remote.NewMemory().Namespace("u1"))
	assert.Equal(t, DecisionUpload, res.Decision)
}
