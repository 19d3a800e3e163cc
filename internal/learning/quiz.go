package learning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vocabulous/vocabulous/internal/model"
)

// RecordQuiz stores a completed quiz. The result gets a fresh id, and a
// completion time of now unless one is set. The stored copy is returned.
func (s *Service) RecordQuiz(ctx context.Context, q model.QuizResult) (*model.QuizResult, error) {
	if strings.TrimSpace(q.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrInvalidInput)
	}
	if err := model.Validate(&q); err != nil {
		return nil, err
	}

	q.ID = s.newID()
	if q.CompletedAt.IsZero() {
		q.CompletedAt = s.now()
	}
	q.WordIDs = append([]string(nil), q.WordIDs...)

	if err := s.quizzes.Save(ctx, &q); err != nil {
		return nil, fmt.Errorf("save quiz result: %w", err)
	}
	s.logger.Info("quiz recorded",
		slog.String("user_id", q.UserID),
		slog.String("quiz_id", q.ID),
		slog.Float64("score_pct", q.ScorePercentage()))
	return &q, nil
}

// QuizHistory returns the user's results, newest first. A non-empty
// categoryID restricts the results to that category.
func (s *Service) QuizHistory(ctx context.Context, userID, categoryID string) ([]*model.QuizResult, error) {
	all, err := s.quizzes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	if categoryID == "" {
		return all, nil
	}
	var out []*model.QuizResult
	for _, q := range all {
		if q.CategoryID == categoryID {
			out = append(out, q)
		}
	}
	return out, nil
}
