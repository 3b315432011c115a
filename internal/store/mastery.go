package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// MasteryRecordStore defines the interface for mastery record persistence.
type MasteryRecordStore interface {
	// Create saves a new mastery record.
	// It handles domain validation internally.
	// Returns ErrDuplicate if a record for the (user, point) pair already exists.
	Create(ctx context.Context, record *domain.MasteryRecord) error

	// Get retrieves a mastery record by the (user, point) pair.
	// Returns ErrMasteryRecordNotFound if no record exists.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, userID, pointID uuid.UUID) (*domain.MasteryRecord, error)

	// GetForUpdate retrieves a mastery record with a row-level lock using
	// SELECT FOR UPDATE. This must be used inside a transaction whenever an
	// outcome is about to be applied, so two concurrent outcome writes for
	// the same (user, point) pair serialize and the consecutive-correct rule
	// is evaluated against a consistent history.
	// Returns ErrMasteryRecordNotFound if no record exists.
	GetForUpdate(ctx context.Context, userID, pointID uuid.UUID) (*domain.MasteryRecord, error)

	// Update modifies an existing mastery record, identified by its
	// (user, point) pair. Returns ErrMasteryRecordNotFound if no record exists.
	Update(ctx context.Context, record *domain.MasteryRecord) error

	// ListByUser retrieves all mastery records for a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MasteryRecord, error)

	// ListWrongBook retrieves the user's wrong-question book: records with at
	// least one incorrect answer that have not been re-mastered.
	ListWrongBook(ctx context.Context, userID uuid.UUID) ([]*domain.MasteryRecord, error)

	// WithTx returns a new MasteryRecordStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) MasteryRecordStore
}
