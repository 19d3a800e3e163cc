// Package learning implements the user-facing study operations: rating
// words, bookmarks, the review queue, quizzes and statistics.
package learning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/spacedrep"
)

// ProgressRepo persists word progress. Get returns nil, nil for a pair
// with no record.
type ProgressRepo interface {
	Get(ctx context.Context, userID, wordID string) (*model.WordProgress, error)
	Save(ctx context.Context, p *model.WordProgress) error
	ListByUser(ctx context.Context, userID string) ([]*model.WordProgress, error)
}

// QuizRepo persists quiz results. ListByUser returns newest first.
type QuizRepo interface {
	Save(ctx context.Context, q *model.QuizResult) error
	ListByUser(ctx context.Context, userID string) ([]*model.QuizResult, error)
}

// Service coordinates the scheduler with storage.
type Service struct {
	progress ProgressRepo
	quizzes  QuizRepo
	sched    *spacedrep.Scheduler
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a Service. A nil scheduler uses the uncapped default.
func NewService(progress ProgressRepo, quizzes QuizRepo, sched *spacedrep.Scheduler, logger *slog.Logger) *Service {
	if sched == nil {
		sched = spacedrep.NewScheduler()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		progress: progress,
		quizzes:  quizzes,
		sched:    sched,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func validatePair(userID, wordID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(wordID) == "" {
		return fmt.Errorf("%w: word id is required", model.ErrInvalidInput)
	}
	return nil
}

// RateWord records a 1-5 recall rating and reschedules the word.
func (s *Service) RateWord(ctx context.Context, userID, wordID string, rating int) (*model.WordProgress, error) {
	if err := validatePair(userID, wordID); err != nil {
		return nil, err
	}
	existing, err := s.progress.Get(ctx, userID, wordID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	p, err := s.sched.RecordRating(existing, userID, wordID, rating, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.progress.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	s.logger.Debug("word rated",
		slog.String("user_id", userID),
		slog.String("word_id", wordID),
		slog.Int("rating", rating),
		slog.Int("review_count", p.ReviewCount),
		slog.Time("next_review_due", *p.NextReviewDue))
	return p, nil
}

// ToggleBookmark flips the bookmark on a word, creating its record if
// needed.
func (s *Service) ToggleBookmark(ctx context.Context, userID, wordID string) (*model.WordProgress, error) {
	if err := validatePair(userID, wordID); err != nil {
		return nil, err
	}
	existing, err := s.progress.Get(ctx, userID, wordID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	p := spacedrep.ToggleBookmark(existing, userID, wordID, s.now())
	if err := s.progress.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

// SetNotes replaces the user's notes on a word.
func (s *Service) SetNotes(ctx context.Context, userID, wordID, notes string) (*model.WordProgress, error) {
	if err := validatePair(userID, wordID); err != nil {
		return nil, err
	}
	existing, err := s.progress.Get(ctx, userID, wordID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	p := existing.Clone()
	if p == nil {
		p = model.NewWordProgress(userID, wordID)
	}
	p.Notes = notes
	p.UpdatedAt = s.now()
	if err := s.progress.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

// ReviewQueue returns the words due now, earliest due first. limit <= 0
// returns the whole queue.
func (s *Service) ReviewQueue(ctx context.Context, userID string, limit int) ([]*model.WordProgress, error) {
	all, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	due := spacedrep.DueWords(all, s.now())
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// Bookmarked returns the user's bookmarked words.
func (s *Service) Bookmarked(ctx context.Context, userID string) ([]*model.WordProgress, error) {
	all, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	var out []*model.WordProgress
	for _, p := range all {
		if p.IsBookmarked {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByProficiency returns the words rated at minLevel or above.
func (s *Service) ByProficiency(ctx context.Context, userID string, minLevel model.ProficiencyLevel) ([]*model.WordProgress, error) {
	all, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	var out []*model.WordProgress
	for _, p := range all {
		if p.ProficiencyLevel >= minLevel {
			out = append(out, p)
		}
	}
	return out, nil
}
