package diagnostic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// CreatedAttempt is a freshly opened attempt together with its delivered
// questions. Delivered questions carry no answer key.
type CreatedAttempt struct {
	Attempt   *domain.DiagnosticAttempt `json:"attempt"`
	Questions []*domain.Question        `json:"questions"`
}

// AnswerResult is the scored view of one recorded answer.
type AnswerResult struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
	CorrectOption  string    `json:"correct_option"`
	IsCorrect      bool      `json:"is_correct"`

	// pointID carries the question's knowledge point tag through to the
	// mastery feed. Nil for untagged questions.
	pointID uuid.UUID
}

// SubmitResult is the outcome of scoring an attempt: the completed attempt
// with its totals stamped, plus the per-question breakdown.
type SubmitResult struct {
	Attempt  *domain.DiagnosticAttempt `json:"attempt"`
	Answers  []AnswerResult            `json:"answers"`
	Accuracy float64                   `json:"accuracy"`
}

// DiagnosticService manages the diagnostic attempt lifecycle: opening an
// attempt against the question bank, recording answers while it is in
// progress, and the one-way scored submit.
type DiagnosticService interface {
	// CreateAttempt opens a new in-progress attempt for a user and delivers
	// its question set. An empty chapterCode means the whole subject.
	//
	// Returns:
	//   - (*CreatedAttempt, nil): The new attempt and its questions
	//   - (nil, ErrSubjectNotReady): If the question bank has no questions
	//     for the requested scope
	//   - (nil, error): Any other error, typically from the database
	CreateAttempt(
		ctx context.Context,
		userID uuid.UUID,
		certificate, subject, chapterCode string,
	) (*CreatedAttempt, error)

	// RecordAnswer stores the user's selection for a question within an
	// in-progress attempt. Re-answering the same question replaces the
	// earlier selection; the newest write wins.
	//
	// Returns:
	//   - nil: The answer was recorded
	//   - ErrAttemptNotFound: If the attempt does not exist
	//   - ErrAttemptNotOwned: If the attempt belongs to another user
	//   - ErrAttemptCompleted: If the attempt has already been submitted
	RecordAnswer(
		ctx context.Context,
		userID, attemptID, questionID uuid.UUID,
		selectedOption string,
	) error

	// Submit scores the attempt and performs the one-way transition to
	// completed. Scoring is exact string equality between the selected and
	// correct option keys; an answer to a question no longer in the bank
	// scores as incorrect. Exactly one of two concurrent submits wins; the
	// loser observes ErrAttemptCompleted.
	//
	// After the transaction commits, each scored answer tagged with a
	// knowledge point is fed into the mastery tracker.
	Submit(ctx context.Context, userID, attemptID uuid.UUID) (*SubmitResult, error)
}

// Common error types for DiagnosticService
var (
	// ErrSubjectNotReady indicates the question bank has no questions for
	// the requested certificate/subject/chapter scope.
	ErrSubjectNotReady = errors.New("no questions available for this subject")

	// ErrAttemptNotFound indicates that the attempt does not exist.
	ErrAttemptNotFound = errors.New("diagnostic attempt not found")

	// ErrAttemptNotOwned indicates that the user does not own the attempt.
	ErrAttemptNotOwned = errors.New("unauthorized access: attempt not owned by user")

	// ErrAttemptCompleted indicates the attempt was already submitted.
	ErrAttemptCompleted = errors.New("diagnostic attempt already completed")
)

// ServiceError wraps errors from the diagnostic service with additional
// context, so consumers can differentiate failures with errors.As instead of
// string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_attempt")
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

// NewCreateAttemptError returns a new ServiceError for the create_attempt operation.
func NewCreateAttemptError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "create_attempt",
		Message:   message,
		Err:       err,
	}
}

// NewRecordAnswerError returns a new ServiceError for the record_answer operation.
func NewRecordAnswerError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "record_answer",
		Message:   message,
		Err:       err,
	}
}

// NewSubmitError returns a new ServiceError for the submit operation.
func NewSubmitError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit",
		Message:   message,
		Err:       err,
	}
}
