package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/store"
)

// PostgresDiagnosticStore implements the store.DiagnosticStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDiagnosticStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDiagnosticStore creates a new PostgreSQL implementation of the
// DiagnosticStore interface.
func NewPostgresDiagnosticStore(db store.DBTX, logger *slog.Logger) *PostgresDiagnosticStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDiagnosticStore{
		db:     db,
		logger: logger.With(slog.String("component", "diagnostic_store")),
	}
}

// Ensure PostgresDiagnosticStore implements store.DiagnosticStore interface
var _ store.DiagnosticStore = (*PostgresDiagnosticStore)(nil)

// CreateAttempt implements store.DiagnosticStore.CreateAttempt
func (s *PostgresDiagnosticStore) CreateAttempt(
	ctx context.Context,
	attempt *domain.DiagnosticAttempt,
) error {
	if err := attempt.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO diagnostic_attempts
			(id, user_id, certificate, subject, chapter_code, status,
			 started_at, completed_at, total_questions, correct_questions,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.Certificate,
		attempt.Subject,
		attempt.ChapterCode,
		attempt.Status,
		attempt.StartedAt,
		nullableTime(attempt.CompletedAt),
		attempt.TotalQuestions,
		attempt.CorrectQuestions,
		attempt.CreatedAt,
		attempt.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetAttempt implements store.DiagnosticStore.GetAttempt
func (s *PostgresDiagnosticStore) GetAttempt(
	ctx context.Context,
	id uuid.UUID,
) (*domain.DiagnosticAttempt, error) {
	query := `
		SELECT id, user_id, certificate, subject, chapter_code, status,
			   started_at, completed_at, total_questions, correct_questions,
			   created_at, updated_at
		FROM diagnostic_attempts
		WHERE id = $1`

	var attempt domain.DiagnosticAttempt
	var completedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&attempt.ID,
		&attempt.UserID,
		&attempt.Certificate,
		&attempt.Subject,
		&attempt.ChapterCode,
		&attempt.Status,
		&attempt.StartedAt,
		&completedAt,
		&attempt.TotalQuestions,
		&attempt.CorrectQuestions,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttemptNotFound
		}
		return nil, MapError(err)
	}

	if completedAt.Valid {
		attempt.CompletedAt = completedAt.Time
	}

	return &attempt, nil
}

// UpsertAnswer implements store.DiagnosticStore.UpsertAnswer
// The unique constraint on (attempt_id, question_id) plus ON CONFLICT DO
// UPDATE gives last-write-wins semantics with no duplicate rows, even under
// concurrent double-submits of the same answer.
func (s *PostgresDiagnosticStore) UpsertAnswer(
	ctx context.Context,
	answer *domain.DiagnosticAnswer,
) error {
	if err := answer.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO diagnostic_answers
			(attempt_id, question_id, selected_option, chapter_code,
			 section_code, point_id, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (attempt_id, question_id) DO UPDATE
		SET selected_option = EXCLUDED.selected_option,
			chapter_code = EXCLUDED.chapter_code,
			section_code = EXCLUDED.section_code,
			point_id = EXCLUDED.point_id,
			answered_at = EXCLUDED.answered_at`

	_, err := s.db.ExecContext(ctx, query,
		answer.AttemptID,
		answer.QuestionID,
		answer.SelectedOption,
		answer.ChapterCode,
		answer.SectionCode,
		nullableUUID(answer.PointID),
		answer.AnsweredAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// ListAnswers implements store.DiagnosticStore.ListAnswers
func (s *PostgresDiagnosticStore) ListAnswers(
	ctx context.Context,
	attemptID uuid.UUID,
) ([]*domain.DiagnosticAnswer, error) {
	query := `
		SELECT attempt_id, question_id, selected_option, chapter_code,
			   section_code, point_id, answered_at
		FROM diagnostic_answers
		WHERE attempt_id = $1
		ORDER BY answered_at, question_id`

	rows, err := s.db.QueryContext(ctx, query, attemptID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var answers []*domain.DiagnosticAnswer
	for rows.Next() {
		var answer domain.DiagnosticAnswer
		var pointID uuid.NullUUID

		err := rows.Scan(
			&answer.AttemptID,
			&answer.QuestionID,
			&answer.SelectedOption,
			&answer.ChapterCode,
			&answer.SectionCode,
			&pointID,
			&answer.AnsweredAt,
		)
		if err != nil {
			return nil, MapError(err)
		}

		if pointID.Valid {
			answer.PointID = pointID.UUID
		}
		answers = append(answers, &answer)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return answers, nil
}

// CompleteAttempt implements store.DiagnosticStore.CompleteAttempt
// The status predicate in the WHERE clause is the compare-and-set: of two
// concurrent submits only one matches the in_progress row, the other
// observes zero affected rows.
func (s *PostgresDiagnosticStore) CompleteAttempt(
	ctx context.Context,
	id uuid.UUID,
	completedAt time.Time,
	totalQuestions, correctQuestions int,
) error {
	query := `
		UPDATE diagnostic_attempts
		SET status = $2,
			completed_at = $3,
			total_questions = $4,
			correct_questions = $5,
			updated_at = $3
		WHERE id = $1 AND status = $6`

	result, err := s.db.ExecContext(ctx, query,
		id,
		domain.AttemptStatusCompleted,
		completedAt,
		totalQuestions,
		correctQuestions,
		domain.AttemptStatusInProgress,
	)
	if err != nil {
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the attempt does not exist or it already completed;
		// distinguish so the service can surface the right condition.
		if _, getErr := s.GetAttempt(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: attempt already completed", store.ErrUpdateFailed)
	}

	return nil
}

// WithTx implements store.DiagnosticStore.WithTx
func (s *PostgresDiagnosticStore) WithTx(tx *sql.Tx) store.DiagnosticStore {
	return &PostgresDiagnosticStore{
		db:     tx,
		logger: s.logger,
	}
}

// nullableUUID converts a Nil UUID to a SQL NULL.
func nullableUUID(id uuid.UUID) uuid.NullUUID {
	if id == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}
