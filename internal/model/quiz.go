package model

import "time"

// QuizResult is an immutable record of one completed quiz attempt.
type QuizResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId" validate:"required"`
	CategoryID     string    `json:"categoryId,omitempty"`
	Score          int       `json:"score" validate:"min=0,ltefield=TotalQuestions"`
	TotalQuestions int       `json:"totalQuestions" validate:"gt=0"`
	TimeTakenMs    int64     `json:"timeTakenMs" validate:"min=0"`
	CompletedAt    time.Time `json:"completedAt"`
	WordIDs        []string  `json:"wordIds"`
}

// ScorePercentage returns the score as a percentage of total questions.
func (q *QuizResult) ScorePercentage() float64 {
	if q.TotalQuestions <= 0 {
		return 0
	}
	return float64(q.Score) / float64(q.TotalQuestions) * 100
}
