package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// AttemptOutcomeStore defines the interface for the append-only outcome log.
type AttemptOutcomeStore interface {
	// Append adds one outcome fact to the log. Outcomes are never updated or
	// deleted once written.
	Append(ctx context.Context, outcome *domain.AttemptOutcome) error

	// ListRecent retrieves the most recent outcomes for a (user, point) pair,
	// newest first, up to limit. Used to evaluate the trailing-streak rule.
	ListRecent(
		ctx context.Context,
		userID, pointID uuid.UUID,
		limit int,
	) ([]*domain.AttemptOutcome, error)

	// WithTx returns a new AttemptOutcomeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttemptOutcomeStore
}
