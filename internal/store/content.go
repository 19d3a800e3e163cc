package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/vocabulous/vocabulous/internal/model"
)

type wordRow struct {
	ID            string         `db:"id"`
	Word          string         `db:"word"`
	Definition    string         `db:"definition"`
	PartOfSpeech  string         `db:"part_of_speech"`
	Pronunciation string         `db:"pronunciation"`
	Example       string         `db:"example"`
	Difficulty    int            `db:"difficulty"`
	ImageURL      sql.NullString `db:"image_url"`
	CategoryID    sql.NullString `db:"category_id"`
	CreatedAt     int64          `db:"created_at"`
}

func (r wordRow) values() []any {
	return []any{
		r.ID, r.Word, r.Definition, r.PartOfSpeech, r.Pronunciation,
		r.Example, r.Difficulty, r.ImageURL, r.CategoryID, r.CreatedAt,
	}
}

func wordToRow(w *model.VocabularyWord) wordRow {
	return wordRow{
		ID:            w.ID,
		Word:          w.Word,
		Definition:    w.Definition,
		PartOfSpeech:  w.PartOfSpeech,
		Pronunciation: w.Pronunciation,
		Example:       w.Example,
		Difficulty:    w.Difficulty,
		ImageURL:      toNullString(w.ImageURL),
		CategoryID:    toNullString(w.CategoryID),
		CreatedAt:     toMillis(w.CreatedAt),
	}
}

func (r wordRow) toModel() *model.VocabularyWord {
	return &model.VocabularyWord{
		ID:            r.ID,
		Word:          r.Word,
		Definition:    r.Definition,
		PartOfSpeech:  r.PartOfSpeech,
		Pronunciation: r.Pronunciation,
		Example:       r.Example,
		Difficulty:    r.Difficulty,
		ImageURL:      r.ImageURL.String,
		CategoryID:    r.CategoryID.String,
		CreatedAt:     fromMillis(r.CreatedAt),
	}
}

// WordRepo holds the vocabulary reference content.
type WordRepo struct {
	x *sqlx.DB
}

func (r *WordRepo) Upsert(ctx context.Context, ws ...*model.VocabularyWord) error {
	rows := make([]wordRow, len(ws))
	for i, w := range ws {
		rows[i] = wordToRow(w)
	}
	return upsertRows(ctx, r.x, vocabularyWordsTable, rows)
}

func (r *WordRepo) All(ctx context.Context) ([]*model.VocabularyWord, error) {
	return r.list(ctx, selectFrom(vocabularyWordsTable).OrderBy(entsql.Asc("word"), entsql.Asc("id")))
}

// ByCategory returns the words in one category, alphabetically.
func (r *WordRepo) ByCategory(ctx context.Context, categoryID string) ([]*model.VocabularyWord, error) {
	return r.list(ctx, selectFrom(vocabularyWordsTable).
		Where(entsql.EQ("category_id", categoryID)).
		OrderBy(entsql.Asc("word"), entsql.Asc("id")))
}

// Search returns the words matching f, alphabetically.
func (r *WordRepo) Search(ctx context.Context, f model.WordFilter) ([]*model.VocabularyWord, error) {
	sel := selectFrom(vocabularyWordsTable)
	if f.Search != "" {
		sel.Where(entsql.Or(
			entsql.ContainsFold("word", f.Search),
			entsql.ContainsFold("definition", f.Search),
		))
	}
	if f.CategoryID != "" {
		sel.Where(entsql.EQ("category_id", f.CategoryID))
	}
	if f.Difficulty != 0 {
		sel.Where(entsql.EQ("difficulty", f.Difficulty))
	}
	return r.list(ctx, sel.OrderBy(entsql.Asc("word"), entsql.Asc("id")))
}

// Get returns the word with id, or model.ErrNotFound.
func (r *WordRepo) Get(ctx context.Context, id string) (*model.VocabularyWord, error) {
	row, err := getRow[wordRow](ctx, r.x, selectFrom(vocabularyWordsTable).Where(entsql.EQ("id", id)))
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("word %q: %w", id, model.ErrNotFound)
	}
	return row.toModel(), nil
}

// FindByText returns the word whose text matches exactly, or
// model.ErrNotFound.
func (r *WordRepo) FindByText(ctx context.Context, text string) (*model.VocabularyWord, error) {
	row, err := getRow[wordRow](ctx, r.x, selectFrom(vocabularyWordsTable).Where(entsql.EQ("word", text)))
	if err != nil {
		return nil, fmt.Errorf("find word: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("word %q: %w", text, model.ErrNotFound)
	}
	return row.toModel(), nil
}

func (r *WordRepo) list(ctx context.Context, sel *entsql.Selector) ([]*model.VocabularyWord, error) {
	rows, err := selectRows[wordRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	out := make([]*model.VocabularyWord, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

type categoryRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	IconURL     sql.NullString `db:"icon_url"`
	Difficulty  int            `db:"difficulty"`
	Order       int            `db:"order"`
	CreatedAt   int64          `db:"created_at"`
}

func (r categoryRow) values() []any {
	return []any{r.ID, r.Name, r.Description, r.IconURL, r.Difficulty, r.Order, r.CreatedAt}
}

// CategoryRepo holds word categories.
type CategoryRepo struct {
	x *sqlx.DB
}

func (r *CategoryRepo) Upsert(ctx context.Context, cs ...*model.WordCategory) error {
	rows := make([]categoryRow, len(cs))
	for i, c := range cs {
		rows[i] = categoryRow{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			IconURL:     toNullString(c.IconURL),
			Difficulty:  c.Difficulty,
			Order:       c.Order,
			CreatedAt:   toMillis(c.CreatedAt),
		}
	}
	return upsertRows(ctx, r.x, wordCategoriesTable, rows)
}

// All returns categories in display order.
func (r *CategoryRepo) All(ctx context.Context) ([]*model.WordCategory, error) {
	return r.list(ctx, selectFrom(wordCategoriesTable).OrderBy(entsql.Asc("order"), entsql.Asc("id")))
}

// ByDifficulty returns the categories of one difficulty level in display
// order.
func (r *CategoryRepo) ByDifficulty(ctx context.Context, difficulty int) ([]*model.WordCategory, error) {
	return r.list(ctx, selectFrom(wordCategoriesTable).
		Where(entsql.EQ("difficulty", difficulty)).
		OrderBy(entsql.Asc("order"), entsql.Asc("id")))
}

func (r *CategoryRepo) list(ctx context.Context, sel *entsql.Selector) ([]*model.WordCategory, error) {
	rows, err := selectRows[categoryRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*model.WordCategory, len(rows))
	for i, row := range rows {
		out[i] = &model.WordCategory{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			IconURL:     row.IconURL.String,
			Difficulty:  row.Difficulty,
			Order:       row.Order,
			CreatedAt:   fromMillis(row.CreatedAt),
		}
	}
	return out, nil
}

type lessonRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Content     string `db:"content"`
	Difficulty  int    `db:"difficulty"`
	Order       int    `db:"order"`
	Tags        string `db:"tags"`
	CreatedAt   int64  `db:"created_at"`
	UpdatedAt   int64  `db:"updated_at"`
}

func (r lessonRow) values() []any {
	return []any{
		r.ID, r.Title, r.Description, r.Content, r.Difficulty,
		r.Order, r.Tags, r.CreatedAt, r.UpdatedAt,
	}
}

// LessonRepo holds grammar lessons.
type LessonRepo struct {
	x *sqlx.DB
}

func (r *LessonRepo) Upsert(ctx context.Context, ls ...*model.GrammarLesson) error {
	rows := make([]lessonRow, len(ls))
	for i, l := range ls {
		rows[i] = lessonRow{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
			Content:     l.Content,
			Difficulty:  l.Difficulty,
			Order:       l.Order,
			Tags:        encodeList(l.Tags),
			CreatedAt:   toMillis(l.CreatedAt),
			UpdatedAt:   toMillis(l.UpdatedAt),
		}
	}
	return upsertRows(ctx, r.x, grammarLessonsTable, rows)
}

// All returns lessons in course order.
func (r *LessonRepo) All(ctx context.Context) ([]*model.GrammarLesson, error) {
	return r.list(ctx, selectFrom(grammarLessonsTable).OrderBy(entsql.Asc("order"), entsql.Asc("id")))
}

// Get returns the lesson with id, or model.ErrNotFound.
func (r *LessonRepo) Get(ctx context.Context, id string) (*model.GrammarLesson, error) {
	ls, err := r.list(ctx, selectFrom(grammarLessonsTable).Where(entsql.EQ("id", id)))
	if err != nil {
		return nil, err
	}
	if len(ls) == 0 {
		return nil, fmt.Errorf("lesson %q: %w", id, model.ErrNotFound)
	}
	return ls[0], nil
}

func (r *LessonRepo) list(ctx context.Context, sel *entsql.Selector) ([]*model.GrammarLesson, error) {
	rows, err := selectRows[lessonRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	out := make([]*model.GrammarLesson, 0, len(rows))
	for _, row := range rows {
		tags, err := decodeList(row.Tags)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: %w", row.ID, err)
		}
		out = append(out, &model.GrammarLesson{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Content:     row.Content,
			Difficulty:  row.Difficulty,
			Order:       row.Order,
			Tags:        tags,
			CreatedAt:   fromMillis(row.CreatedAt),
			UpdatedAt:   fromMillis(row.UpdatedAt),
		})
	}
	return out, nil
}

type exerciseRow struct {
	ID            string `db:"id"`
	LessonID      string `db:"lesson_id"`
	Title         string `db:"title"`
	Instruction   string `db:"instruction"`
	Type          string `db:"type"`
	Options       string `db:"options"`
	CorrectAnswer string `db:"correct_answer"`
	Explanation   string `db:"explanation"`
	Difficulty    int    `db:"difficulty"`
	Order         int    `db:"order"`
	CreatedAt     int64  `db:"created_at"`
}

func (r exerciseRow) values() []any {
	return []any{
		r.ID, r.LessonID, r.Title, r.Instruction, r.Type, r.Options,
		r.CorrectAnswer, r.Explanation, r.Difficulty, r.Order, r.CreatedAt,
	}
}

// ExerciseRepo holds grammar exercises.
type ExerciseRepo struct {
	x *sqlx.DB
}

func (r *ExerciseRepo) Upsert(ctx context.Context, es ...*model.GrammarExercise) error {
	rows := make([]exerciseRow, len(es))
	for i, e := range es {
		rows[i] = exerciseRow{
			ID:            e.ID,
			LessonID:      e.LessonID,
			Title:         e.Title,
			Instruction:   e.Instruction,
			Type:          string(e.Type),
			Options:       encodeList(e.Options),
			CorrectAnswer: e.CorrectAnswer,
			Explanation:   e.Explanation,
			Difficulty:    e.Difficulty,
			Order:         e.Order,
			CreatedAt:     toMillis(e.CreatedAt),
		}
	}
	return upsertRows(ctx, r.x, grammarExercisesTable, rows)
}

func (r *ExerciseRepo) All(ctx context.Context) ([]*model.GrammarExercise, error) {
	return r.list(ctx, selectFrom(grammarExercisesTable).OrderBy(entsql.Asc("lesson_id"), entsql.Asc("order"), entsql.Asc("id")))
}

// ByLesson returns the exercises of one lesson in order.
func (r *ExerciseRepo) ByLesson(ctx context.Context, lessonID string) ([]*model.GrammarExercise, error) {
	return r.list(ctx, selectFrom(grammarExercisesTable).
		Where(entsql.EQ("lesson_id", lessonID)).
		OrderBy(entsql.Asc("order"), entsql.Asc("id")))
}

func (r *ExerciseRepo) list(ctx context.Context, sel *entsql.Selector) ([]*model.GrammarExercise, error) {
	rows, err := selectRows[exerciseRow](ctx, r.x, sel)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	out := make([]*model.GrammarExercise, 0, len(rows))
	for _, row := range rows {
		opts, err := decodeList(row.Options)
		if err != nil {
			return nil, fmt.Errorf("exercise %s: %w", row.ID, err)
		}
		out = append(out, &model.GrammarExercise{
			ID:            row.ID,
			LessonID:      row.LessonID,
			Title:         row.Title,
			Instruction:   row.Instruction,
			Type:          model.ExerciseType(row.Type),
			Options:       opts,
			CorrectAnswer: row.CorrectAnswer,
			Explanation:   row.Explanation,
			Difficulty:    row.Difficulty,
			Order:         row.Order,
			CreatedAt:     fromMillis(row.CreatedAt),
		})
	}
	return out, nil
}

type packRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Description  string         `db:"description"`
	Language     string         `db:"language"`
	Theme        string         `db:"theme"`
	Difficulty   int            `db:"difficulty"`
	WordCount    int            `db:"word_count"`
	ImageURL     sql.NullString `db:"image_url"`
	Tags         string         `db:"tags"`
	IsDownloaded bool           `db:"is_downloaded"`
	CreatedAt    int64          `db:"created_at"`
	UpdatedAt    int64          `db:"updated_at"`
}

func (r packRow) values() []any {
	return []any{
		r.ID, r.Name, r.Description, r.Language, r.Theme, r.Difficulty,
		r.WordCount, r.ImageURL, r.Tags, r.IsDownloaded, r.CreatedAt, r.UpdatedAt,
	}
}

// PackRepo holds word pack metadata. Packs are local only and are never
// uploaded during reconciliation.
type PackRepo struct {
	x *sqlx.DB
}

func (r *PackRepo) Upsert(ctx context.Context, ps ...*model.WordPack) error {
	rows := make([]packRow, len(ps))
	for i, p := range ps {
		rows[i] = packRow{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Language:     p.Language,
			Theme:        p.Theme,
			Difficulty:   p.Difficulty,
			WordCount:    p.WordCount,
			ImageURL:     toNullString(p.ImageURL),
			Tags:         encodeList(p.Tags),
			IsDownloaded: p.IsDownloaded,
			CreatedAt:    toMillis(p.CreatedAt),
			UpdatedAt:    toMillis(p.UpdatedAt),
		}
	}
	return upsertRows(ctx, r.x, wordPacksTable, rows)
}

func (r *PackRepo) All(ctx context.Context) ([]*model.WordPack, error) {
	rows, err := selectRows[packRow](ctx, r.x, selectFrom(wordPacksTable).OrderBy(entsql.Asc("name"), entsql.Asc("id")))
	if err != nil {
		return nil, fmt.Errorf("list word packs: %w", err)
	}
	out := make([]*model.WordPack, 0, len(rows))
	for _, row := range rows {
		tags, err := decodeList(row.Tags)
		if err != nil {
			return nil, fmt.Errorf("word pack %s: %w", row.ID, err)
		}
		out = append(out, &model.WordPack{
			ID:           row.ID,
			Name:         row.Name,
			Description:  row.Description,
			Language:     row.Language,
			Theme:        row.Theme,
			Difficulty:   row.Difficulty,
			WordCount:    row.WordCount,
			ImageURL:     row.ImageURL.String,
			Tags:         tags,
			IsDownloaded: row.IsDownloaded,
			CreatedAt:    fromMillis(row.CreatedAt),
			UpdatedAt:    fromMillis(row.UpdatedAt),
		})
	}
	return out, nil
}

// Search returns the packs matching f, ordered by name.
func (r *PackRepo) Search(ctx context.Context, f model.PackFilter) ([]*model.WordPack, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
