package content

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/store"
)

// wordNamespace seeds deterministic ids for spreadsheet words so that
// re-importing a sheet updates rows instead of duplicating them.
var wordNamespace = uuid.MustParse("4b0f6a52-9f53-4c1c-8a9e-2f3f1f0e6b21")

// WordID returns the id assigned to a spreadsheet word.
func WordID(word string) string {
	return uuid.NewSHA1(wordNamespace, []byte(strings.ToLower(strings.TrimSpace(word)))).String()
}

// Spreadsheet column order. The first row is a header and is skipped.
const (
	colWord = iota
	colDefinition
	colPartOfSpeech
	colPronunciation
	colExample
	colDifficulty
	colCategoryID
)

// ReadWordSheet reads vocabulary words from sheet of the workbook at path.
// An empty sheet name reads the first sheet. Rows that fail word
// validation are skipped and reported.
func ReadWordSheet(path, sheet string, now time.Time) ([]*model.VocabularyWord, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("%w: workbook has no sheets", model.ErrInvalidInput)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var (
		words   []*model.VocabularyWord
		skipped []string
	)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		line := i + 1
		word := strings.TrimSpace(cell(row, colWord))
		def := strings.TrimSpace(cell(row, colDefinition))
		if word == "" && def == "" {
			continue
		}

		difficulty := 1
		if d := strings.TrimSpace(cell(row, colDifficulty)); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("row %d: difficulty %q is not a number", line, d))
				continue
			}
			difficulty = n
		}

		w := &model.VocabularyWord{
			ID:            WordID(word),
			Word:          word,
			Definition:    def,
			PartOfSpeech:  strings.TrimSpace(cell(row, colPartOfSpeech)),
			Pronunciation: strings.TrimSpace(cell(row, colPronunciation)),
			Example:       strings.TrimSpace(cell(row, colExample)),
			Difficulty:    difficulty,
			CategoryID:    strings.TrimSpace(cell(row, colCategoryID)),
			CreatedAt:     now,
		}
		if err := model.Validate(w); err != nil {
			skipped = append(skipped, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		words = append(words, w)
	}
	return words, skipped, nil
}

// ImportWordSheet reads a spreadsheet and upserts its words into the cache.
func ImportWordSheet(ctx context.Context, s *store.Store, path, sheet string, now time.Time) (Summary, error) {
	sum := Summary{Imported: make(map[model.Kind]int)}
	words, skipped, err := ReadWordSheet(path, sheet, now)
	if err != nil {
		return sum, err
	}
	sum.Skipped = skipped
	if err := s.Words().Upsert(ctx, words...); err != nil {
		return sum, err
	}
	sum.Imported[model.KindVocabularyWord] = len(words)
	return sum, nil
}

// cell returns row[i] or "" when the row is short. GetRows trims trailing
// empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
