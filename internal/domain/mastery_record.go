package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MasteryStatus is the learner-facing classification of a mastery score.
type MasteryStatus string

// Possible mastery status values, derived from the score thresholds.
const (
	MasteryStatusUnlearned MasteryStatus = "unlearned"
	MasteryStatusWeak      MasteryStatus = "weak"
	MasteryStatusReview    MasteryStatus = "review"
	MasteryStatusMastered  MasteryStatus = "mastered"
)

// Score thresholds for status derivation.
const (
	ReviewScoreThreshold   = 60.0
	MasteredScoreThreshold = 80.0
)

// Common validation errors for MasteryRecord
var (
	ErrEmptyMasteryUserID  = errors.New("mastery record user ID cannot be empty")
	ErrEmptyMasteryPointID = errors.New("mastery record point ID cannot be empty")
	ErrInvalidMasteryScore = errors.New("mastery score must be between 0 and 100")
	ErrInvalidWrongCount   = errors.New("wrong count must be greater than or equal to 0")
)

// MasteryRecord tracks how well one user knows one knowledge point.
// There is exactly one record per (user, point) pair; it is created on the
// first recorded outcome and mutated after every subsequent one, never deleted.
//
// Status is intentionally NOT a field: it is derived from Score on demand so
// the two can never drift apart.
type MasteryRecord struct {
	UserID         uuid.UUID `json:"user_id"`
	PointID        uuid.UUID `json:"point_id"`
	Score          float64   `json:"score"`            // 0-100 mastery estimate
	WrongCount     int       `json:"wrong_count"`      // incorrect answers since creation
	IsWeakPoint    bool      `json:"is_weak_point"`    // in the wrong-question book
	IsMastered     bool      `json:"is_mastered"`      // set only by the trailing-streak rule
	LastReviewedAt time.Time `json:"last_reviewed_at"` // zero time means never reviewed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewMasteryRecord creates a fresh record for a user and point with zero score.
// A new record has no review history, so it is due immediately.
func NewMasteryRecord(userID, pointID uuid.UUID) (*MasteryRecord, error) {
	now := time.Now().UTC()
	record := &MasteryRecord{
		UserID:         userID,
		PointID:        pointID,
		Score:          0,
		WrongCount:     0,
		IsWeakPoint:    false,
		IsMastered:     false,
		LastReviewedAt: time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the MasteryRecord has valid data.
// Returns an error if any field fails validation.
func (r *MasteryRecord) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyMasteryUserID
	}

	if r.PointID == uuid.Nil {
		return ErrEmptyMasteryPointID
	}

	if r.Score < 0 || r.Score > 100 {
		return ErrInvalidMasteryScore
	}

	if r.WrongCount < 0 {
		return ErrInvalidWrongCount
	}

	return nil
}

// Status derives the learner-facing classification from the score.
// unlearned at exactly 0, weak below 60, review below 80, mastered at 80+.
func (r *MasteryRecord) Status() MasteryStatus {
	switch {
	case r.Score == 0:
		return MasteryStatusUnlearned
	case r.Score < ReviewScoreThreshold:
		return MasteryStatusWeak
	case r.Score < MasteredScoreThreshold:
		return MasteryStatusReview
	default:
		return MasteryStatusMastered
	}
}
