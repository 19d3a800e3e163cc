package spacedrep

import (
	"math"
	"time"

	"github.com/vocabulous/vocabulous/internal/model"
)

// BaseIntervals maps a proficiency level (the index) to its review
// interval in days.
var BaseIntervals = []int{1, 2, 4, 7, 14, 30}

// MaxLevel is the highest proficiency level in BaseIntervals.
const MaxLevel = 5

// DefaultIntervalDays is used for levels outside BaseIntervals.
const DefaultIntervalDays = 1

// MultiplierStep is added to the interval multiplier for every review
// after the first.
const MultiplierStep = 0.5

const msPerDay = 86_400_000

// maxIntervalMs is the longest interval a time.Duration can hold.
const maxIntervalMs = math.MaxInt64 / int64(time.Millisecond)

// IntervalDays returns the base review interval for a proficiency level.
func IntervalDays(level model.ProficiencyLevel) int {
	if level < 0 || int(level) >= len(BaseIntervals) {
		return DefaultIntervalDays
	}
	return BaseIntervals[level]
}

// ReviewMultiplier scales the base interval by how many times the word has
// been reviewed. It is 1.0 up to the first review and grows by
// MultiplierStep per review after that, with no upper bound.
func ReviewMultiplier(reviewCount int) float64 {
	if reviewCount <= 1 {
		return 1.0
	}
	return 1.0 + float64(reviewCount-1)*MultiplierStep
}

// NextReviewDue computes the due time for a word at the given level and
// review count. maxIntervalDays caps the scaled interval; zero disables
// the cap. Intervals too long for a time.Duration saturate.
func NextReviewDue(now time.Time, level model.ProficiencyLevel, reviewCount, maxIntervalDays int) time.Time {
	days := float64(IntervalDays(level)) * ReviewMultiplier(reviewCount)
	if maxIntervalDays > 0 && days > float64(maxIntervalDays) {
		days = float64(maxIntervalDays)
	}
	ms := maxIntervalMs
	if scaled := math.Round(days * msPerDay); scaled < float64(maxIntervalMs) {
		ms = int64(scaled)
	}
	return now.Add(time.Duration(ms) * time.Millisecond)
}
