package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/service/diagnostic"
)

// MockDiagnosticService implements diagnostic.DiagnosticService for testing
type MockDiagnosticService struct {
	// Custom behavior functions
	CreateAttemptFn func(ctx context.Context, userID uuid.UUID, certificate, subject, chapterCode string) (*diagnostic.CreatedAttempt, error)
	RecordAnswerFn  func(ctx context.Context, userID, attemptID, questionID uuid.UUID, selectedOption string) error
	SubmitFn        func(ctx context.Context, userID, attemptID uuid.UUID) (*diagnostic.SubmitResult, error)

	// Default response values
	Created      *diagnostic.CreatedAttempt
	SubmitResult *diagnostic.SubmitResult
	Err          error

	// Call tracking for verification
	RecordAnswerCalls struct {
		mu          sync.Mutex
		Count       int
		AttemptIDs  []uuid.UUID
		QuestionIDs []uuid.UUID
		Selections  []string
	}
}

// CreateAttempt implements the diagnostic.DiagnosticService interface
func (m *MockDiagnosticService) CreateAttempt(
	ctx context.Context,
	userID uuid.UUID,
	certificate, subject, chapterCode string,
) (*diagnostic.CreatedAttempt, error) {
	if m.CreateAttemptFn != nil {
		return m.CreateAttemptFn(ctx, userID, certificate, subject, chapterCode)
	}
	return m.Created, m.Err
}

// RecordAnswer implements the diagnostic.DiagnosticService interface
func (m *MockDiagnosticService) RecordAnswer(
	ctx context.Context,
	userID, attemptID, questionID uuid.UUID,
	selectedOption string,
) error {
	m.RecordAnswerCalls.mu.Lock()
	m.RecordAnswerCalls.Count++
	m.RecordAnswerCalls.AttemptIDs = append(m.RecordAnswerCalls.AttemptIDs, attemptID)
	m.RecordAnswerCalls.QuestionIDs = append(m.RecordAnswerCalls.QuestionIDs, questionID)
	m.RecordAnswerCalls.Selections = append(m.RecordAnswerCalls.Selections, selectedOption)
	m.RecordAnswerCalls.mu.Unlock()

	if m.RecordAnswerFn != nil {
		return m.RecordAnswerFn(ctx, userID, attemptID, questionID, selectedOption)
	}
	return m.Err
}

// Submit implements the diagnostic.DiagnosticService interface
func (m *MockDiagnosticService) Submit(
	ctx context.Context,
	userID, attemptID uuid.UUID,
) (*diagnostic.SubmitResult, error) {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, userID, attemptID)
	}
	return m.SubmitResult, m.Err
}
