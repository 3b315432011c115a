package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// DiagnosticStore defines the interface for diagnostic attempt and answer
// persistence. Attempts and answers live in the same store because the
// submit transition reads and writes both atomically.
type DiagnosticStore interface {
	// CreateAttempt saves a new in-progress attempt.
	CreateAttempt(ctx context.Context, attempt *domain.DiagnosticAttempt) error

	// GetAttempt retrieves an attempt by ID.
	// Returns ErrAttemptNotFound if the attempt does not exist.
	GetAttempt(ctx context.Context, id uuid.UUID) (*domain.DiagnosticAttempt, error)

	// UpsertAnswer writes an answer row, replacing any prior selection for
	// the same (attempt, question) pair. Last write wins; the uniqueness
	// constraint on the pair guarantees no duplicate rows under concurrent
	// double-submits.
	UpsertAnswer(ctx context.Context, answer *domain.DiagnosticAnswer) error

	// ListAnswers retrieves all recorded answers for an attempt.
	ListAnswers(ctx context.Context, attemptID uuid.UUID) ([]*domain.DiagnosticAnswer, error)

	// CompleteAttempt performs the one-way in_progress -> completed
	// transition with an atomic compare-and-set on the status column,
	// stamping the completion time and the scored totals.
	// Returns ErrAttemptNotFound if the attempt does not exist and
	// ErrUpdateFailed if the status was no longer in_progress (a concurrent
	// submit won the race).
	CompleteAttempt(
		ctx context.Context,
		id uuid.UUID,
		completedAt time.Time,
		totalQuestions, correctQuestions int,
	) error

	// WithTx returns a new DiagnosticStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DiagnosticStore
}
