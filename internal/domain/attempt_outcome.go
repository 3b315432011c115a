package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for AttemptOutcome
var (
	ErrEmptyOutcomeUserID  = errors.New("attempt outcome user ID cannot be empty")
	ErrEmptyOutcomePointID = errors.New("attempt outcome point ID cannot be empty")
	ErrZeroOutcomeTime     = errors.New("attempt outcome answered time cannot be zero")
)

// AttemptOutcome is one immutable answer fact: a user answered a question
// belonging to a knowledge point, correctly or not, at a moment in time.
// Outcomes form an append-only log; the mastery tracker reads the most recent
// few per (user, point) to evaluate the consecutive-correct upgrade rule.
type AttemptOutcome struct {
	UserID     uuid.UUID `json:"user_id"`
	PointID    uuid.UUID `json:"point_id"`
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// NewAttemptOutcome creates a validated outcome fact.
func NewAttemptOutcome(
	userID, pointID uuid.UUID,
	isCorrect bool,
	answeredAt time.Time,
) (*AttemptOutcome, error) {
	outcome := &AttemptOutcome{
		UserID:     userID,
		PointID:    pointID,
		IsCorrect:  isCorrect,
		AnsweredAt: answeredAt.UTC(),
	}

	if err := outcome.Validate(); err != nil {
		return nil, err
	}

	return outcome, nil
}

// Validate checks if the AttemptOutcome has valid data.
func (o *AttemptOutcome) Validate() error {
	if o.UserID == uuid.Nil {
		return ErrEmptyOutcomeUserID
	}

	if o.PointID == uuid.Nil {
		return ErrEmptyOutcomePointID
	}

	if o.AnsweredAt.IsZero() {
		return ErrZeroOutcomeTime
	}

	return nil
}
