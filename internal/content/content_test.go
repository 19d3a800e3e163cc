package content

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/store"
)

var importTime = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const validPack = `{
  "format_version": "1.2.0",
  "name": "Starter",
  "categories": [{"id": "c1", "name": "Food", "difficulty": 1, "order": 1}],
  "words": [
    {"id": "w1", "word": "apple", "definition": "a fruit", "difficulty": 1, "categoryId": "c1"},
    {"id": "w2", "word": "bread", "definition": "baked dough"}
  ],
  "lessons": [{"id": "l1", "title": "Articles", "content": "a / an", "tags": ["basics"]}],
  "exercises": [
    {"id": "e1", "lessonId": "l1", "title": "Pick", "type": "MULTIPLE_CHOICE", "options": ["a", "an"], "correctAnswer": "an"},
    {"id": "e2", "lessonId": "l9", "title": "Orphan", "type": "TRUE_FALSE", "correctAnswer": "true"}
  ],
  "wordPacks": [{"id": "p1", "name": "Kitchen", "wordCount": 2}]
}`

func TestParsePack_Valid(t *testing.T) {
	p, err := ParsePack([]byte(validPack))
	require.NoError(t, err)
	assert.Equal(t, "Starter", p.Name)
	assert.Len(t, p.Words, 2)
	assert.Equal(t, model.ExerciseMultipleChoice, p.Exercises[0].Type)
}

func TestParsePack_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing version", `{"words": []}`},
		{"major 2", `{"format_version": "2.0.0"}`},
		{"not semver", `{"format_version": "latest"}`},
		{"bad difficulty", `{"format_version": "1.0.0", "words": [{"id": "w", "word": "x", "definition": "y", "difficulty": 9}]}`},
		{"bad exercise type", `{"format_version": "1.0.0", "exercises": [{"id": "e", "lessonId": "l", "title": "t", "type": "ESSAY", "correctAnswer": "x"}]}`},
		{"word without definition", `{"format_version": "1.0.0", "words": [{"id": "w", "word": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePack([]byte(tt.raw))
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestCheckFormatVersion(t *testing.T) {
	assert.NoError(t, checkFormatVersion("1.0.0"))
	assert.NoError(t, checkFormatVersion("v1.4.2"))
	assert.Error(t, checkFormatVersion("0.9.0"))
}

func TestImport(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, err := ParsePack([]byte(validPack))
	require.NoError(t, err)
	sum, err := Import(ctx, s, p, importTime)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Imported[model.KindVocabularyWord])
	assert.Equal(t, 1, sum.Imported[model.KindGrammarExercise])
	assert.Equal(t, 1, sum.Imported[model.KindWordPack])
	require.Len(t, sum.Skipped, 1)
	assert.Contains(t, sum.Skipped[0], "e2")

	words, err := s.Words().All(ctx)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.True(t, words[1].CreatedAt.Equal(importTime))
	assert.Equal(t, 1, words[1].Difficulty)

	// Re-import upserts.
	p2, err := ParsePack([]byte(validPack))
	require.NoError(t, err)
	_, err = Import(ctx, s, p2, importTime)
	require.NoError(t, err)
	n, err := s.Count(ctx, model.KindVocabularyWord)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func writeSheet(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", addr, &r))
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWordSheet(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"word", "definition", "pos", "pronunciation", "example", "difficulty", "category"},
		{"Serene", "calm and peaceful", "adjective", "/səˈriːn/", "a serene lake", "3", "c1"},
		{"brisk", "quick and active"},
		{"", "no word here"},
		{"odd", "strange", "", "", "", "7"},
		{},
	})

	words, skipped, err := ReadWordSheet(path, "", importTime)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "Serene", words[0].Word)
	assert.Equal(t, 3, words[0].Difficulty)
	assert.Equal(t, "c1", words[0].CategoryID)
	assert.Equal(t, WordID("serene"), words[0].ID)
	assert.Equal(t, 1, words[1].Difficulty)
	assert.Len(t, skipped, 2)
}

func TestImportWordSheet_Idempotent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	path := writeSheet(t, [][]any{
		{"word", "definition"},
		{"brisk", "quick and active"},
	})

	for i := 0; i < 2; i++ {
		sum, err := ImportWordSheet(ctx, s, path, "Sheet1", importTime)
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Imported[model.KindVocabularyWord])
	}
	n, err := s.Count(ctx, model.KindVocabularyWord)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWordID_Deterministic(t *testing.T) {
	assert.Equal(t, WordID("Apple"), WordID(" apple "))
	assert.NotEqual(t, WordID("apple"), WordID("apples"))
}
