package learning

import (
	"context"
	"fmt"

	"github.com/vocabulous/vocabulous/internal/spacedrep"
)

// Stats summarizes a user's learning state.
type Stats struct {
	TrackedWords int
	ByState      map[spacedrep.State]int
	Bookmarked   int
	DueNow       int
	Overdue      int
	QuizzesTaken int
	// AverageScore is the mean quiz score percentage, nil with no quizzes.
	AverageScore *float64
}

// Stats computes the learning summary for userID.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	progress, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	quizzes, err := s.quizzes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}

	now := s.now()
	st := &Stats{
		TrackedWords: len(progress),
		ByState:      make(map[spacedrep.State]int),
		QuizzesTaken: len(quizzes),
	}
	for _, p := range progress {
		st.ByState[spacedrep.StateOf(p)]++
		if p.IsBookmarked {
			st.Bookmarked++
		}
		switch spacedrep.Status(p, now) {
		case spacedrep.ReviewDue:
			st.DueNow++
		case spacedrep.ReviewOverdue:
			st.DueNow++
			st.Overdue++
		}
	}

	if len(quizzes) > 0 {
		var sum float64
		for _, q := range quizzes {
			sum += q.ScorePercentage()
		}
		avg := sum / float64(len(quizzes))
		st.AverageScore = &avg
	}
	return st, nil
}
