package model

// Kind names an entity type. The value doubles as the local table name and
// the remote collection name.
type Kind string

const (
	KindVocabularyWord  Kind = "vocabulary_words"
	KindWordCategory    Kind = "word_categories"
	KindWordProgress    Kind = "user_progress"
	KindQuizResult      Kind = "quiz_results"
	KindGrammarLesson   Kind = "grammar_lessons"
	KindGrammarExercise Kind = "grammar_exercises"
	KindWordPack        Kind = "word_packs"
)

// AllKinds lists every entity type held in a cache.
var AllKinds = []Kind{
	KindVocabularyWord,
	KindWordCategory,
	KindWordProgress,
	KindQuizResult,
	KindGrammarLesson,
	KindGrammarExercise,
	KindWordPack,
}

func (k Kind) String() string { return string(k) }
