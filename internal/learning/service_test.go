package learning

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/remote"
	"github.com/vocabulous/vocabulous/internal/spacedrep"
	"github.com/vocabulous/vocabulous/internal/store"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestService returns a service on the in-memory remote with a
// controllable clock.
func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	ns := remote.NewMemory().Namespace("u1")
	return withClock(NewService(remote.NewProgressRepo(ns), remote.NewQuizRepo(ns), nil, quietLogger()))
}

func newStoreService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return withClock(NewService(s.Progress(), s.Quizzes(), spacedrep.NewScheduler(), quietLogger()))
}

func withClock(svc *Service) (*Service, *time.Time) {
	now := testNow
	svc.now = func() time.Time { return now }
	n := 0
	svc.newID = func() string {
		n++
		return "quiz-" + string(rune('a'+n-1))
	}
	return svc, &now
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateWord_SchedulesAndPersists(t *testing.T) {
	for name, mk := range map[string]func(*testing.T) (*Service, *time.Time){
		"remote": newTestService,
		"store":  newStoreService,
	} {
		t.Run(name, func(t *testing.T) {
			svc, _ := mk(t)
			ctx := context.Background()

			p, err := svc.RateWord(ctx, "u1", "w1", 3)
			require.NoError(t, err)
			assert.Equal(t, 1, p.ReviewCount)
			assert.True(t, p.NextReviewDue.Equal(testNow.AddDate(0, 0, 7)))

			p, err = svc.RateWord(ctx, "u1", "w1", 3)
			require.NoError(t, err)
			assert.Equal(t, 2, p.ReviewCount)
			// 7 days * 1.5
			assert.True(t, p.NextReviewDue.Equal(testNow.Add(252*time.Hour)))

			stored, err := svc.progress.Get(ctx, "u1", "w1")
			require.NoError(t, err)
			assert.Equal(t, 2, stored.ReviewCount)
		})
	}
}

func TestRateWord_Invalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RateWord(ctx, "u1", "w1", 0)
	assert.ErrorIs(t, err, spacedrep.ErrInvalidRating)

	_, err = svc.RateWord(ctx, "", "w1", 3)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.RateWord(ctx, "u1", " ", 3)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	p, err := svc.progress.Get(ctx, "u1", "w1")
	require.NoError(t, err)
	assert.Nil(t, p, "rejected rating must not create a record")
}

func TestToggleBookmarkAndNotes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.ToggleBookmark(ctx, "u1", "w1")
	require.NoError(t, err)
	assert.True(t, p.IsBookmarked)
	assert.Zero(t, p.ReviewCount)

	p, err = svc.SetNotes(ctx, "u1", "w1", "sounds like 'seal'")
	require.NoError(t, err)
	assert.True(t, p.IsBookmarked)
	assert.Equal(t, "sounds like 'seal'", p.Notes)

	marked, err := svc.Bookmarked(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, marked, 1)

	_, err = svc.ToggleBookmark(ctx, "u1", "w1")
	require.NoError(t, err)
	marked, err = svc.Bookmarked(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, marked)
}

func TestReviewQueue(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()

	_, err := svc.RateWord(ctx, "u1", "slow", 5) // 30 days
	require.NoError(t, err)
	_, err = svc.RateWord(ctx, "u1", "fast", 1) // 2 days
	require.NoError(t, err)
	_, err = svc.RateWord(ctx, "u1", "mid", 2) // 4 days
	require.NoError(t, err)
	_, err = svc.ToggleBookmark(ctx, "u1", "unrated")
	require.NoError(t, err)

	queue, err := svc.ReviewQueue(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, queue)

	*now = testNow.AddDate(0, 0, 5)
	queue, err = svc.ReviewQueue(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "fast", queue[0].WordID)
	assert.Equal(t, "mid", queue[1].WordID)

	limited, err := svc.ReviewQueue(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestByProficiency(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for word, rating := range map[string]int{"a": 1, "b": 4, "c": 5} {
		_, err := svc.RateWord(ctx, "u1", word, rating)
		require.NoError(t, err)
	}

	strong, err := svc.ByProficiency(ctx, "u1", model.ProficiencyRetained)
	require.NoError(t, err)
	assert.Len(t, strong, 2)
}

func TestRecordQuiz(t *testing.T) {
	svc, _ := newStoreService(t)
	ctx := context.Background()

	words := []string{"w1", "w2"}
	q, err := svc.RecordQuiz(ctx, model.QuizResult{
		ID: "ignored", UserID: "u1", CategoryID: "animals",
		Score: 4, TotalQuestions: 5, TimeTakenMs: 30000, WordIDs: words,
	})
	require.NoError(t, err)
	assert.Equal(t, "quiz-a", q.ID)
	assert.True(t, q.CompletedAt.Equal(testNow))
	words[0] = "mutated"
	assert.Equal(t, "w1", q.WordIDs[0])

	_, err = svc.RecordQuiz(ctx, model.QuizResult{UserID: "u1", Score: 1, TotalQuestions: 2})
	require.NoError(t, err)

	all, err := svc.QuizHistory(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	animals, err := svc.QuizHistory(ctx, "u1", "animals")
	require.NoError(t, err)
	require.Len(t, animals, 1)
	assert.Equal(t, 4, animals[0].Score)
}

func TestRecordQuiz_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := []model.QuizResult{
		{Score: 1, TotalQuestions: 2},
		{UserID: "u1", Score: 1, TotalQuestions: 0},
		{UserID: "u1", Score: 3, TotalQuestions: 2},
		{UserID: "u1", Score: -1, TotalQuestions: 2},
		{UserID: "u1", Score: 1, TotalQuestions: 2, TimeTakenMs: -5},
	}
	for _, q := range bad {
		_, err := svc.RecordQuiz(ctx, q)
		assert.True(t, errors.Is(err, model.ErrInvalidInput), "%+v", q)
	}
}

func TestStats(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()

	st, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, st.TrackedWords)
	assert.Nil(t, st.AverageScore)

	_, err = svc.RateWord(ctx, "u1", "a", 1)
	require.NoError(t, err)
	_, err = svc.RateWord(ctx, "u1", "b", 4)
	require.NoError(t, err)
	_, err = svc.RateWord(ctx, "u1", "c", 5)
	require.NoError(t, err)
	_, err = svc.ToggleBookmark(ctx, "u1", "c")
	require.NoError(t, err)
	_, err = svc.RecordQuiz(ctx, model.QuizResult{UserID: "u1", Score: 1, TotalQuestions: 2})
	require.NoError(t, err)
	_, err = svc.RecordQuiz(ctx, model.QuizResult{UserID: "u1", Score: 2, TotalQuestions: 2})
	require.NoError(t, err)

	// "a" is due after 2 days and overdue after 3 (half its interval late).
	*now = testNow.AddDate(0, 0, 4)
	st, err = svc.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, st.TrackedWords)
	assert.Equal(t, 1, st.ByState[spacedrep.StateLearning])
	assert.Equal(t, 1, st.ByState[spacedrep.StateRetained])
	assert.Equal(t, 1, st.ByState[spacedrep.StateMastered])
	assert.Equal(t, 1, st.Bookmarked)
	assert.Equal(t, 1, st.DueNow)
	assert.Equal(t, 1, st.Overdue)
	assert.Equal(t, 2, st.QuizzesTaken)
	require.NotNil(t, st.AverageScore)
	assert.InDelta(t, 75.0, *st.AverageScore, 1e-9)
}
