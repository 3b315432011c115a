// Package review implements the review scheduler: the pure forgetting-curve
// function that turns a mastery score and a last-reviewed time into the next
// review date, plus the midnight-normalized "is this point due today" check.
package review

import (
	"time"
)

// Service defines the interface for review scheduling operations
type Service interface {
	// NextReviewDate computes when a point should next be reviewed. A point
	// with no recorded review (zero lastReviewedAt) is due today.
	NextReviewDate(score float64, lastReviewedAt, today time.Time) time.Time

	// IsDueToday reports whether a point is due on the given day. Comparison
	// is by calendar date with time of day stripped, so a review late in the
	// evening is not spuriously due again the next minute.
	IsDueToday(score float64, lastReviewedAt, today time.Time) bool
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new review scheduler with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new review scheduler with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NextReviewDate implements the Service interface.
func (s *defaultService) NextReviewDate(
	score float64,
	lastReviewedAt, today time.Time,
) time.Time {
	if lastReviewedAt.IsZero() {
		return midnight(today)
	}

	return midnight(lastReviewedAt).AddDate(0, 0, s.params.intervalDays(score))
}

// IsDueToday implements the Service interface.
func (s *defaultService) IsDueToday(
	score float64,
	lastReviewedAt, today time.Time,
) bool {
	if lastReviewedAt.IsZero() {
		return true
	}

	return !midnight(today).Before(s.NextReviewDate(score, lastReviewedAt, today))
}

// midnight strips the time of day, keeping the calendar date in UTC.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
