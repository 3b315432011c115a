package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for DailyStat
var (
	ErrEmptyStatUserID     = errors.New("daily stat user ID cannot be empty")
	ErrInvalidStudyMinutes = errors.New("study minutes must be greater than or equal to 0")
)

// DailyStat is one user's recorded study time for one calendar day.
// A row may exist with zero minutes (e.g. the user opened the app but did not
// study); such a row still breaks a streak.
type DailyStat struct {
	UserID       uuid.UUID `json:"user_id"`
	Day          time.Time `json:"day"` // midnight-normalized, UTC
	StudyMinutes int       `json:"study_minutes"`
}

// Validate checks if the DailyStat has valid data.
func (s *DailyStat) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStatUserID
	}

	if s.StudyMinutes < 0 {
		return ErrInvalidStudyMinutes
	}

	return nil
}
