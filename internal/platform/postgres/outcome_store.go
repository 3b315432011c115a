package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/store"
)

// PostgresAttemptOutcomeStore implements the store.AttemptOutcomeStore
// interface using a PostgreSQL database as the storage backend. The table is
// append-only; rows are never updated or deleted.
type PostgresAttemptOutcomeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptOutcomeStore creates a new PostgreSQL implementation of
// the AttemptOutcomeStore interface.
func NewPostgresAttemptOutcomeStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptOutcomeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptOutcomeStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_outcome_store")),
	}
}

// Ensure PostgresAttemptOutcomeStore implements store.AttemptOutcomeStore interface
var _ store.AttemptOutcomeStore = (*PostgresAttemptOutcomeStore)(nil)

// Append implements store.AttemptOutcomeStore.Append
func (s *PostgresAttemptOutcomeStore) Append(ctx context.Context, outcome *domain.AttemptOutcome) error {
	if err := outcome.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO attempt_outcomes (user_id, point_id, is_correct, answered_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query,
		outcome.UserID,
		outcome.PointID,
		outcome.IsCorrect,
		outcome.AnsweredAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// ListRecent implements store.AttemptOutcomeStore.ListRecent
func (s *PostgresAttemptOutcomeStore) ListRecent(
	ctx context.Context,
	userID, pointID uuid.UUID,
	limit int,
) ([]*domain.AttemptOutcome, error) {
	query := `
		SELECT user_id, point_id, is_correct, answered_at
		FROM attempt_outcomes
		WHERE user_id = $1 AND point_id = $2
		ORDER BY answered_at DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, pointID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var outcomes []*domain.AttemptOutcome
	for rows.Next() {
		var outcome domain.AttemptOutcome
		err := rows.Scan(
			&outcome.UserID,
			&outcome.PointID,
			&outcome.IsCorrect,
			&outcome.AnsweredAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		outcomes = append(outcomes, &outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return outcomes, nil
}

// WithTx implements store.AttemptOutcomeStore.WithTx
func (s *PostgresAttemptOutcomeStore) WithTx(tx *sql.Tx) store.AttemptOutcomeStore {
	return &PostgresAttemptOutcomeStore{
		db:     tx,
		logger: s.logger,
	}
}
