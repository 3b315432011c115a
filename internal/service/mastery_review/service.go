package mastery_review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// DuePoint is one knowledge point whose review date has arrived, paired with
// the date the scheduler computed for it.
type DuePoint struct {
	Record       *domain.MasteryRecord `json:"record"`
	NextReviewAt time.Time             `json:"next_review_at"`
}

// Recommendation is one ranked review candidate: a due or weak point with
// its computed priority and the weights that produced it.
type Recommendation struct {
	PointID         uuid.UUID            `json:"point_id"`
	Score           float64              `json:"score"`
	Status          domain.MasteryStatus `json:"status"`
	WrongCount      int                  `json:"wrong_count"`
	NextReviewAt    time.Time            `json:"next_review_at"`
	Priority        float64              `json:"priority"`
	ChapterWeight   int                  `json:"chapter_weight"`
	PointTypeWeight int                  `json:"point_type_weight"`
}

// MasteryReviewService provides the core learning loop: recording answer
// outcomes against per-point mastery records, and querying what a user
// should review next.
type MasteryReviewService interface {
	// RecordOutcome applies one answer outcome to the user's mastery record
	// for a knowledge point, creating the record on first contact.
	//
	// This method performs several operations within a single transaction:
	// 1. Verifies the knowledge point exists
	// 2. Locks (or creates) the user's mastery record for the point
	// 3. Reads the recent outcome history and applies the mastery algorithm
	// 4. Appends the outcome to the log and writes the updated record
	//
	// Returns:
	//   - (*domain.MasteryRecord, nil): The updated mastery record
	//   - (nil, ErrPointNotFound): If the knowledge point does not exist
	//   - (nil, ErrOutcomeOutOfOrder): If answeredAt precedes the record's
	//     last reviewed time; nothing is written in that case
	//   - (nil, error): Any other error, typically from validation or the database
	RecordOutcome(
		ctx context.Context,
		userID, pointID uuid.UUID,
		isCorrect bool,
		answeredAt time.Time,
	) (*domain.MasteryRecord, error)

	// ListDueToday retrieves the user's points whose next review date has
	// arrived on the given day, per the forgetting-curve scheduler. A point
	// that has never been reviewed is due immediately.
	ListDueToday(ctx context.Context, userID uuid.UUID, today time.Time) ([]DuePoint, error)

	// Recommend ranks the user's due and weak points by weighted priority,
	// highest first, and returns up to limit of them. Ordering is
	// deterministic: ties on priority break by point ID.
	Recommend(
		ctx context.Context,
		userID uuid.UUID,
		today time.Time,
		limit int,
	) ([]Recommendation, error)

	// ListWrongBook retrieves the user's wrong-question book: points answered
	// incorrectly at least once and not yet re-mastered.
	ListWrongBook(ctx context.Context, userID uuid.UUID) ([]*domain.MasteryRecord, error)
}

// Common error types for MasteryReviewService
var (
	// ErrPointNotFound indicates that the knowledge point does not exist.
	ErrPointNotFound = errors.New("knowledge point not found")

	// ErrOutcomeOutOfOrder indicates an outcome older than the record's
	// last reviewed time was rejected.
	ErrOutcomeOutOfOrder = errors.New("outcome is older than the last recorded review")
)

// ServiceError wraps errors from the mastery review service with additional
// context, so consumers can differentiate failures with errors.As instead of
// string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "record_outcome")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewRecordOutcomeError returns a new ServiceError for the record_outcome operation.
func NewRecordOutcomeError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "record_outcome",
		Message:   message,
		Err:       err,
	}
}

// NewRecommendError returns a new ServiceError for the recommend operation.
func NewRecommendError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "recommend",
		Message:   message,
		Err:       err,
	}
}
