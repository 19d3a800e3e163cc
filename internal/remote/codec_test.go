package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocabulous/vocabulous/internal/model"
)

func TestEncode_NormalizesNumbers(t *testing.T) {
	doc, err := Encode("q1", &model.QuizResult{
		ID: "q1", UserID: "u1", Score: 3, TotalQuestions: 4, TimeTakenMs: 12500,
		WordIDs: []string{"w1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "q1", doc.ID)
	assert.Equal(t, int64(3), doc.Data["score"])
	assert.Equal(t, int64(12500), doc.Data["timeTakenMs"])
	assert.Equal(t, []any{"w1"}, doc.Data["wordIds"])

	f, err := Encode("x", map[string]any{"ratio": 0.75})
	require.NoError(t, err)
	assert.Equal(t, 0.75, f.Data["ratio"])
}

func TestEncodeDecode_Progress(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 7)
	in := &model.WordProgress{
		ID: "u1-w1", UserID: "u1", WordID: "w1", ProficiencyLevel: 3,
		LastReviewedAt: &now, NextReviewDue: &due, ReviewCount: 2,
		IsBookmarked: true, UpdatedAt: now,
	}

	doc, err := Encode(in.ID, in)
	require.NoError(t, err)
	_, hasNotes := doc.Data["notes"]
	assert.False(t, hasNotes, "empty notes are omitted")

	var out model.WordProgress
	require.NoError(t, Decode(doc, &out))
	assert.Equal(t, in.ProficiencyLevel, out.ProficiencyLevel)
	assert.True(t, out.NextReviewDue.Equal(due))
	assert.True(t, out.IsBookmarked)
	assert.Equal(t, 2, out.ReviewCount)
}

func TestEncode_TimestampsAsMillis(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	doc, err := Encode("u1-w1", &model.WordProgress{
		ID: "u1-w1", UserID: "u1", WordID: "w1", NextReviewDue: &now,
	})
	require.NoError(t, err)

	assert.Equal(t, now.UnixMilli(), doc.Data["nextReviewDue"])
	assert.Equal(t, int64(0), doc.Data["updatedAt"])
	_, hasLast := doc.Data["lastReviewedAt"]
	assert.False(t, hasLast, "nil timestamps are omitted")
}

func TestDecode_MillisDocument(t *testing.T) {
	doc := Document{ID: "u1-w1", Data: map[string]any{
		"id":               "u1-w1",
		"userId":           "u1",
		"wordId":           "w1",
		"proficiencyLevel": int64(4),
		"lastReviewedAt":   int64(1766620800000),
		"nextReviewDue":    int64(1767225600000),
		"reviewCount":      int64(3),
		"isBookmarked":     false,
		"updatedAt":        int64(1766620800000),
	}}

	var p model.WordProgress
	require.NoError(t, Decode(doc, &p))
	require.NotNil(t, p.NextReviewDue)
	assert.True(t, p.NextReviewDue.Equal(time.UnixMilli(1767225600000)))
	assert.True(t, p.LastReviewedAt.Equal(time.UnixMilli(1766620800000)))
	assert.True(t, p.UpdatedAt.Equal(time.UnixMilli(1766620800000)))
	assert.Equal(t, model.ProficiencyLevel(4), p.ProficiencyLevel)
	assert.Equal(t, 3, p.ReviewCount)
}

func TestDecode_TimestampForms(t *testing.T) {
	want := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	for name, raw := range map[string]any{
		"millis":  want.UnixMilli(),
		"float":   float64(want.UnixMilli()),
		"rfc3339": want.Format(time.RFC3339Nano),
		"native":  want,
	} {
		t.Run(name, func(t *testing.T) {
			var q model.QuizResult
			require.NoError(t, Decode(Document{ID: "q1", Data: map[string]any{"completedAt": raw}}, &q))
			assert.True(t, q.CompletedAt.Equal(want), "got %v", q.CompletedAt)
		})
	}

	var q model.QuizResult
	err := Decode(Document{ID: "q1", Data: map[string]any{"completedAt": true}}, &q)
	assert.Error(t, err)
}
