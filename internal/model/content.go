package model

import (
	"strings"
	"time"
)

// VocabularyWord is a word that can be studied as a flashcard.
type VocabularyWord struct {
	ID            string    `json:"id"`
	Word          string    `json:"word" validate:"required"`
	Definition    string    `json:"definition" validate:"required"`
	PartOfSpeech  string    `json:"partOfSpeech"`
	Pronunciation string    `json:"pronunciation"`
	Example       string    `json:"example"`
	Difficulty    int       `json:"difficulty" validate:"min=1,max=5"`
	ImageURL      string    `json:"imageUrl,omitempty" validate:"omitempty,url"`
	CategoryID    string    `json:"categoryId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WordCategory groups vocabulary words.
type WordCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IconURL     string    `json:"iconUrl,omitempty"`
	Difficulty  int       `json:"difficulty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GrammarLesson is a unit of grammar content.
type GrammarLesson struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"` // markdown
	Difficulty  int       `json:"difficulty"`
	Order       int       `json:"order"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExerciseType is the interaction style of a grammar exercise.
type ExerciseType string

const (
	ExerciseMultipleChoice  ExerciseType = "MULTIPLE_CHOICE"
	ExerciseFillInBlank     ExerciseType = "FILL_IN_BLANK"
	ExerciseReorderSentence ExerciseType = "REORDER_SENTENCE"
	ExerciseTrueFalse       ExerciseType = "TRUE_FALSE"
	ExerciseMatching        ExerciseType = "MATCHING"
)

// Valid reports whether t is a known exercise type.
func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseMultipleChoice, ExerciseFillInBlank, ExerciseReorderSentence,
		ExerciseTrueFalse, ExerciseMatching:
		return true
	}
	return false
}

// GrammarExercise belongs to a GrammarLesson.
type GrammarExercise struct {
	ID            string       `json:"id"`
	LessonID      string       `json:"lessonId"`
	Title         string       `json:"title"`
	Instruction   string       `json:"instruction"`
	Type          ExerciseType `json:"type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Difficulty    int          `json:"difficulty"`
	Order         int          `json:"order"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// WordPack is a downloadable bundle of words around a theme.
type WordPack struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Language     string    `json:"language"`
	Theme        string    `json:"theme"`
	Difficulty   int       `json:"difficulty"`
	WordCount    int       `json:"wordCount"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Tags         []string  `json:"tags"`
	IsDownloaded bool      `json:"isDownloaded"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WordFilter narrows a word listing. Zero fields match everything.
type WordFilter struct {
	Search     string // case-insensitive substring of the word or its definition
	CategoryID string
	Difficulty int
}

func (f WordFilter) Matches(w *VocabularyWord) bool {
	if f.CategoryID != "" && w.CategoryID != f.CategoryID {
		return false
	}
	if f.Difficulty != 0 && w.Difficulty != f.Difficulty {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(w.Word), q) ||
		strings.Contains(strings.ToLower(w.Definition), q)
}

// PackFilter narrows the word pack catalogue. Search matches the name,
// description, theme, language or any tag.
type PackFilter struct {
	Search     string
	Language   string
	Theme      string
	Difficulty int
}

func (f PackFilter) Matches(p *WordPack) bool {
	if f.Language != "" && !strings.EqualFold(p.Language, f.Language) {
		return false
	}
	if f.Theme != "" && !strings.EqualFold(p.Theme, f.Theme) {
		return false
	}
	if f.Difficulty != 0 && p.Difficulty != f.Difficulty {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, s := range append([]string{p.Name, p.Description, p.Theme, p.Language}, p.Tags...) {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
