package model

import "time"

// ProficiencyLevel is a 0-5 rating of recall strength for one word.
// 0 means not started, 5 means mastered.
type ProficiencyLevel int

const (
	ProficiencyUnseen   ProficiencyLevel = 0
	ProficiencyRetained ProficiencyLevel = 4
	ProficiencyMastered ProficiencyLevel = 5
)

// WordProgress tracks one user's learning state for one word.
type WordProgress struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	WordID           string           `json:"wordId"`
	ProficiencyLevel ProficiencyLevel `json:"proficiencyLevel"`
	LastReviewedAt   *time.Time       `json:"lastReviewedAt,omitempty"`
	NextReviewDue    *time.Time       `json:"nextReviewDue,omitempty"`
	ReviewCount      int              `json:"reviewCount"`
	IsBookmarked     bool             `json:"isBookmarked"`
	Notes            string           `json:"notes,omitempty"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ProgressID returns the composite key for a (user, word) pair. There is
// at most one WordProgress per key.
func ProgressID(userID, wordID string) string {
	return userID + "-" + wordID
}

// NewWordProgress returns an empty record for the pair with its key set.
func NewWordProgress(userID, wordID string) *WordProgress {
	return &WordProgress{
		ID:     ProgressID(userID, wordID),
		UserID: userID,
		WordID: wordID,
	}
}

// Clone returns a deep copy, so callers can derive new state without
// touching the original.
func (p *WordProgress) Clone() *WordProgress {
	if p == nil {
		return nil
	}
	c := *p
	if p.LastReviewedAt != nil {
		t := *p.LastReviewedAt
		c.LastReviewedAt = &t
	}
	if p.NextReviewDue != nil {
		t := *p.NextReviewDue
		c.NextReviewDue = &t
	}
	return &c
}
