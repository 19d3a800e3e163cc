// Package content loads reference content (words, categories, grammar
// lessons and exercises, word packs) into a local cache.
package content

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/store"
)

// SupportedMajor is the content pack format major version this build reads.
const SupportedMajor = "v1"

//go:embed pack.schema.json
var packSchemaJSON []byte

const packSchemaURL = "schema://content-pack.json"

var (
	packSchemaOnce sync.Once
	packSchema     *jsonschema.Schema
	packSchemaErr  error
)

// Pack is a versioned bundle of reference content.
type Pack struct {
	FormatVersion string                   `json:"format_version"`
	Name          string                   `json:"name"`
	Categories    []*model.WordCategory    `json:"categories"`
	Words         []*model.VocabularyWord  `json:"words"`
	Lessons       []*model.GrammarLesson   `json:"lessons"`
	Exercises     []*model.GrammarExercise `json:"exercises"`
	WordPacks     []*model.WordPack        `json:"wordPacks"`
}

// Summary counts what an import wrote and lists rows it skipped.
type Summary struct {
	Imported map[model.Kind]int
	Skipped  []string
}

func compiledPackSchema() (*jsonschema.Schema, error) {
	packSchemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(packSchemaJSON))
		if err != nil {
			packSchemaErr = fmt.Errorf("parse pack schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(packSchemaURL, def); err != nil {
			packSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		packSchema, packSchemaErr = c.Compile(packSchemaURL)
	})
	return packSchema, packSchemaErr
}

// ParsePack validates raw JSON against the pack schema and format version
// and decodes it.
func ParsePack(raw []byte) (*Pack, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", model.ErrInvalidInput, err)
	}

	sch, err := compiledPackSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: content pack: %v", model.ErrInvalidInput, err)
	}

	var p Pack
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: decode content pack: %v", model.ErrInvalidInput, err)
	}
	if err := checkFormatVersion(p.FormatVersion); err != nil {
		return nil, err
	}
	return &p, nil
}

func checkFormatVersion(v string) error {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: format_version %q is not a semantic version", model.ErrInvalidInput, v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: format_version %s is not supported (want %s.x)", model.ErrInvalidInput, v, SupportedMajor)
	}
	return nil
}

// Import writes the pack into the cache, upserting by id. Missing
// creation times are set to now.
func Import(ctx context.Context, s *store.Store, p *Pack, now time.Time) (Summary, error) {
	sum := Summary{Imported: make(map[model.Kind]int)}

	for _, c := range p.Categories {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
	}
	for _, w := range p.Words {
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		if w.Difficulty == 0 {
			w.Difficulty = 1
		}
	}
	for _, l := range p.Lessons {
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		if l.UpdatedAt.IsZero() {
			l.UpdatedAt = l.CreatedAt
		}
	}
	lessonIDs := make(map[string]bool, len(p.Lessons))
	for _, l := range p.Lessons {
		lessonIDs[l.ID] = true
	}
	exercises := make([]*model.GrammarExercise, 0, len(p.Exercises))
	for _, e := range p.Exercises {
		if !lessonIDs[e.LessonID] {
			sum.Skipped = append(sum.Skipped, fmt.Sprintf("exercise %s: unknown lesson %q", e.ID, e.LessonID))
			continue
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		exercises = append(exercises, e)
	}
	for _, wp := range p.WordPacks {
		if wp.CreatedAt.IsZero() {
			wp.CreatedAt = now
		}
		if wp.UpdatedAt.IsZero() {
			wp.UpdatedAt = wp.CreatedAt
		}
	}

	if err := s.Categories().Upsert(ctx, p.Categories...); err != nil {
		return sum, err
	}
	sum.Imported[model.KindWordCategory] = len(p.Categories)

	if err := s.Words().Upsert(ctx, p.Words...); err != nil {
		return sum, err
	}
	sum.Imported[model.KindVocabularyWord] = len(p.Words)

	if err := s.Lessons().Upsert(ctx, p.Lessons...); err != nil {
		return sum, err
	}
	sum.Imported[model.KindGrammarLesson] = len(p.Lessons)

	if err := s.Exercises().Upsert(ctx, exercises...); err != nil {
		return sum, err
	}
	sum.Imported[model.KindGrammarExercise] = len(exercises)

	if err := s.Packs().Upsert(ctx, p.WordPacks...); err != nil {
		return sum, err
	}
	sum.Imported[model.KindWordPack] = len(p.WordPacks)

	return sum, nil
}
