package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AttemptStatus is the lifecycle state of a diagnostic attempt.
type AttemptStatus string

// Possible attempt status values. The only legal transition is
// in_progress -> completed, exactly once.
const (
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusCompleted  AttemptStatus = "completed"
)

// ChapterCodeAll marks an attempt that draws questions from the whole subject
// rather than a single chapter.
const ChapterCodeAll = "ALL"

// Diagnostic-specific validation errors
var (
	ErrAttemptIDEmpty          = errors.New("diagnostic attempt ID cannot be empty")
	ErrAttemptUserIDEmpty      = errors.New("diagnostic attempt user ID cannot be empty")
	ErrAttemptSubjectEmpty     = errors.New("diagnostic attempt subject cannot be empty")
	ErrInvalidAttemptStatus    = errors.New("invalid diagnostic attempt status")
	ErrAnswerAttemptIDEmpty    = errors.New("diagnostic answer attempt ID cannot be empty")
	ErrAnswerQuestionIDEmpty   = errors.New("diagnostic answer question ID cannot be empty")
	ErrAnswerSelectedEmpty     = errors.New("diagnostic answer selected option cannot be empty")
)

// DiagnosticAttempt is one bounded, timed test session. It is created in
// in_progress, accumulates answers, and is scored by a single one-way submit.
// TotalQuestions and CorrectQuestions are zero until the attempt completes.
type DiagnosticAttempt struct {
	ID               uuid.UUID     `json:"id"`
	UserID           uuid.UUID     `json:"user_id"`
	Certificate      string        `json:"certificate"`
	Subject          string        `json:"subject"`
	ChapterCode      string        `json:"chapter_code"`
	Status           AttemptStatus `json:"status"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      time.Time     `json:"completed_at,omitempty"` // zero until submitted
	TotalQuestions   int           `json:"total_questions"`
	CorrectQuestions int           `json:"correct_questions"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// NewDiagnosticAttempt creates a new in-progress attempt. An empty chapter
// code means the attempt is unscoped and normalizes to ChapterCodeAll.
func NewDiagnosticAttempt(
	userID uuid.UUID,
	certificate, subject, chapterCode string,
) (*DiagnosticAttempt, error) {
	if chapterCode == "" {
		chapterCode = ChapterCodeAll
	}

	now := time.Now().UTC()
	attempt := &DiagnosticAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		Certificate: certificate,
		Subject:     subject,
		ChapterCode: chapterCode,
		Status:      AttemptStatusInProgress,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	return attempt, nil
}

// Validate checks if the DiagnosticAttempt has valid data.
func (a *DiagnosticAttempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttemptIDEmpty
	}

	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}

	if a.Subject == "" {
		return ErrAttemptSubjectEmpty
	}

	switch a.Status {
	case AttemptStatusInProgress, AttemptStatusCompleted:
	default:
		return ErrInvalidAttemptStatus
	}

	return nil
}

// IsCompleted reports whether the attempt has gone through its one-way
// submit transition.
func (a *DiagnosticAttempt) IsCompleted() bool {
	return a.Status == AttemptStatusCompleted
}

// DiagnosticAnswer is one recorded selection inside an attempt, unique per
// (attempt, question) pair. While the attempt is in progress the learner may
// change their selection; the newest write wins. Answers freeze once the
// attempt completes.
type DiagnosticAnswer struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
	ChapterCode    string    `json:"chapter_code,omitempty"`
	SectionCode    string    `json:"section_code,omitempty"`
	PointID        uuid.UUID `json:"point_id,omitempty"` // Nil when the question is untagged
	AnsweredAt     time.Time `json:"answered_at"`
}

// NewDiagnosticAnswer creates a validated answer row.
func NewDiagnosticAnswer(
	attemptID, questionID uuid.UUID,
	selectedOption string,
) (*DiagnosticAnswer, error) {
	answer := &DiagnosticAnswer{
		AttemptID:      attemptID,
		QuestionID:     questionID,
		SelectedOption: selectedOption,
		AnsweredAt:     time.Now().UTC(),
	}

	if err := answer.Validate(); err != nil {
		return nil, err
	}

	return answer, nil
}

// Validate checks if the DiagnosticAnswer has valid data.
func (a *DiagnosticAnswer) Validate() error {
	if a.AttemptID == uuid.Nil {
		return ErrAnswerAttemptIDEmpty
	}

	if a.QuestionID == uuid.Nil {
		return ErrAnswerQuestionIDEmpty
	}

	if a.SelectedOption == "" {
		return ErrAnswerSelectedEmpty
	}

	return nil
}
