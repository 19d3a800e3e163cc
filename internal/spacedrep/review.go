package spacedrep

import (
	"time"

	"github.com/vocabulous/vocabulous/internal/model"
)

// State is the coarse learning state of a word for one user.
type State string

const (
	StateUnseen   State = "unseen"
	StateLearning State = "learning"
	StateRetained State = "retained"
	StateMastered State = "mastered"
)

// StateOf maps a progress record to its learning state. A nil record is
// Unseen. Levels may move in either direction between ratings.
func StateOf(p *model.WordProgress) State {
	if p == nil {
		return StateUnseen
	}
	switch {
	case p.ProficiencyLevel >= model.ProficiencyMastered:
		return StateMastered
	case p.ProficiencyLevel == model.ProficiencyRetained:
		return StateRetained
	default:
		return StateLearning
	}
}

// IsDue returns true if the word has a due date at or before now.
func IsDue(p *model.WordProgress, now time.Time) bool {
	if p == nil || p.NextReviewDue == nil {
		return false
	}
	return !now.Before(*p.NextReviewDue)
}

// OverdueDays returns how many days past due the word is. Returns 0 if not
// yet due or never scheduled.
func OverdueDays(p *model.WordProgress, now time.Time) float64 {
	if !IsDue(p, now) {
		return 0
	}
	return now.Sub(*p.NextReviewDue).Hours() / 24.0
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due and -1 if the word was never scheduled.
func DaysUntilReview(p *model.WordProgress, now time.Time) int {
	if p == nil || p.NextReviewDue == nil {
		return -1
	}
	if IsDue(p, now) {
		return 0
	}
	return int(p.NextReviewDue.Sub(now).Hours()/24.0) + 1
}

// ReviewStatus describes a word's review status for display.
type ReviewStatus string

const (
	ReviewUnscheduled ReviewStatus = "unscheduled"
	ReviewNotDue      ReviewStatus = "not_due"
	ReviewDue         ReviewStatus = "due"
	ReviewOverdue     ReviewStatus = "overdue"
)

// Status returns the review status for display. A due word becomes
// overdue once it is late by more than half its base interval.
func Status(p *model.WordProgress, now time.Time) ReviewStatus {
	if p == nil || p.NextReviewDue == nil {
		return ReviewUnscheduled
	}
	if !IsDue(p, now) {
		return ReviewNotDue
	}
	grace := float64(IntervalDays(p.ProficiencyLevel)) * 0.5
	if OverdueDays(p, now) > grace {
		return ReviewOverdue
	}
	return ReviewDue
}
