package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/vocabulous/vocabulous/internal/model"
)

// Column layouts for the cache tables. Timestamps are unix milliseconds.
// List fields are stored as JSON text.
var (
	vocabularyWordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "word", Type: field.TypeString},
		{Name: "definition", Type: field.TypeString},
		{Name: "part_of_speech", Type: field.TypeString, Default: ""},
		{Name: "pronunciation", Type: field.TypeString, Default: ""},
		{Name: "example", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeInt, Default: 1},
		{Name: "image_url", Type: field.TypeString, Nullable: true},
		{Name: "category_id", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeInt64},
	}
	vocabularyWordsTable = &schema.Table{
		Name:       model.KindVocabularyWord.String(),
		Columns:    vocabularyWordsColumns,
		PrimaryKey: []*schema.Column{vocabularyWordsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "vocabularyword_category_id", Columns: []*schema.Column{vocabularyWordsColumns[8]}},
		},
	}

	wordCategoriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "icon_url", Type: field.TypeString, Nullable: true},
		{Name: "difficulty", Type: field.TypeInt, Default: 1},
		{Name: "order", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeInt64},
	}
	wordCategoriesTable = &schema.Table{
		Name:       model.KindWordCategory.String(),
		Columns:    wordCategoriesColumns,
		PrimaryKey: []*schema.Column{wordCategoriesColumns[0]},
	}

	userProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "word_id", Type: field.TypeString},
		{Name: "proficiency_level", Type: field.TypeInt, Default: 0},
		{Name: "last_reviewed_at", Type: field.TypeInt64, Nullable: true},
		{Name: "next_review_due", Type: field.TypeInt64, Nullable: true},
		{Name: "review_count", Type: field.TypeInt, Default: 0},
		{Name: "is_bookmarked", Type: field.TypeBool, Default: false},
		{Name: "notes", Type: field.TypeString, Default: ""},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	userProgressTable = &schema.Table{
		Name:       model.KindWordProgress.String(),
		Columns:    userProgressColumns,
		PrimaryKey: []*schema.Column{userProgressColumns[0]},
		Indexes: []*schema.Index{
			{Name: "userprogress_user_id_word_id", Unique: true, Columns: []*schema.Column{userProgressColumns[1], userProgressColumns[2]}},
			{Name: "userprogress_next_review_due", Columns: []*schema.Column{userProgressColumns[5]}},
		},
	}

	quizResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "category_id", Type: field.TypeString, Nullable: true},
		{Name: "score", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "time_taken_ms", Type: field.TypeInt64},
		{Name: "completed_at", Type: field.TypeInt64},
		{Name: "word_ids", Type: field.TypeJSON},
	}
	quizResultsTable = &schema.Table{
		Name:       model.KindQuizResult.String(),
		Columns:    quizResultsColumns,
		PrimaryKey: []*schema.Column{quizResultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizresult_user_id_completed_at", Columns: []*schema.Column{quizResultsColumns[1], quizResultsColumns[6]}},
		},
	}

	grammarLessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "difficulty", Type: field.TypeInt, Default: 1},
		{Name: "order", Type: field.TypeInt, Default: 0},
		{Name: "tags", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	grammarLessonsTable = &schema.Table{
		Name:       model.KindGrammarLesson.String(),
		Columns:    grammarLessonsColumns,
		PrimaryKey: []*schema.Column{grammarLessonsColumns[0]},
	}

	grammarExercisesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "instruction", Type: field.TypeString, Default: ""},
		{Name: "type", Type: field.TypeString},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_answer", Type: field.TypeString},
		{Name: "explanation", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeInt, Default: 1},
		{Name: "order", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeInt64},
	}
	grammarExercisesTable = &schema.Table{
		Name:       model.KindGrammarExercise.String(),
		Columns:    grammarExercisesColumns,
		PrimaryKey: []*schema.Column{grammarExercisesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "grammarexercise_lesson_id", Columns: []*schema.Column{grammarExercisesColumns[1]}},
		},
	}

	wordPacksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "language", Type: field.TypeString, Default: ""},
		{Name: "theme", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeInt, Default: 1},
		{Name: "word_count", Type: field.TypeInt, Default: 0},
		{Name: "image_url", Type: field.TypeString, Nullable: true},
		{Name: "tags", Type: field.TypeJSON},
		{Name: "is_downloaded", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	wordPacksTable = &schema.Table{
		Name:       model.KindWordPack.String(),
		Columns:    wordPacksColumns,
		PrimaryKey: []*schema.Column{wordPacksColumns[0]},
	}

	// tables is the migration set, in model.AllKinds order.
	tables = []*schema.Table{
		vocabularyWordsTable,
		wordCategoriesTable,
		userProgressTable,
		quizResultsTable,
		grammarLessonsTable,
		grammarExercisesTable,
		wordPacksTable,
	}
)

// columnNames returns the column names of t in declaration order.
func columnNames(t *schema.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
