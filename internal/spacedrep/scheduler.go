package spacedrep

import (
	"fmt"
	"sort"
	"time"

	"github.com/vocabulous/vocabulous/internal/model"
)

// ErrInvalidRating is returned for ratings outside [1, 5].
var ErrInvalidRating = fmt.Errorf("%w: rating must be between 1 and %d", model.ErrInvalidInput, MaxLevel)

// Scheduler turns self-assessed recall ratings into progress updates.
// It holds no state besides its settings; every method is pure.
type Scheduler struct {
	// MaxIntervalDays caps the scaled review interval. Zero leaves the
	// interval uncapped.
	MaxIntervalDays int
}

// NewScheduler creates a scheduler with an uncapped interval.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// RecordRating returns the progress that results from rating a word at
// the given level. existing may be nil for a word the user has never
// rated or bookmarked. existing is not modified.
func (s *Scheduler) RecordRating(existing *model.WordProgress, userID, wordID string, rating int, now time.Time) (*model.WordProgress, error) {
	if rating < 1 || rating > MaxLevel {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidRating, rating)
	}

	p := existing.Clone()
	if p == nil {
		p = model.NewWordProgress(userID, wordID)
	}

	p.ReviewCount++
	p.ProficiencyLevel = model.ProficiencyLevel(rating)

	reviewedAt := now
	due := NextReviewDue(now, p.ProficiencyLevel, p.ReviewCount, s.MaxIntervalDays)
	p.LastReviewedAt = &reviewedAt
	p.NextReviewDue = &due
	p.UpdatedAt = now
	return p, nil
}

// ToggleBookmark flips the bookmark flag, creating an unrated bookmarked
// record if none exists. Proficiency and due date are left alone.
func ToggleBookmark(existing *model.WordProgress, userID, wordID string, now time.Time) *model.WordProgress {
	p := existing.Clone()
	if p == nil {
		p = model.NewWordProgress(userID, wordID)
		p.IsBookmarked = true
		p.UpdatedAt = now
		return p
	}
	p.IsBookmarked = !p.IsBookmarked
	p.UpdatedAt = now
	return p
}

// DueWords returns the records that are due at now, earliest due first.
// Records without a due date are never returned. Ties are broken by word
// id so the order is stable across calls.
func DueWords(all []*model.WordProgress, now time.Time) []*model.WordProgress {
	var due []*model.WordProgress
	for _, p := range all {
		if IsDue(p, now) {
			due = append(due, p)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := *due[i].NextReviewDue, *due[j].NextReviewDue
		if !a.Equal(b) {
			return a.Before(b)
		}
		return due[i].WordID < due[j].WordID
	})
	return due
}
