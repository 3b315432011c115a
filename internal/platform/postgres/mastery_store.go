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

// PostgresMasteryRecordStore implements the store.MasteryRecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMasteryRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMasteryRecordStore creates a new PostgreSQL implementation of the
// MasteryRecordStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresMasteryRecordStore(db store.DBTX, logger *slog.Logger) *PostgresMasteryRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMasteryRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_record_store")),
	}
}

// Ensure PostgresMasteryRecordStore implements store.MasteryRecordStore interface
var _ store.MasteryRecordStore = (*PostgresMasteryRecordStore)(nil)

// Create implements store.MasteryRecordStore.Create
func (s *PostgresMasteryRecordStore) Create(ctx context.Context, record *domain.MasteryRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO mastery_records
			(user_id, point_id, score, wrong_count, is_weak_point, is_mastered,
			 last_reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		record.UserID,
		record.PointID,
		record.Score,
		record.WrongCount,
		record.IsWeakPoint,
		record.IsMastered,
		nullableTime(record.LastReviewedAt),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// Get implements store.MasteryRecordStore.Get
func (s *PostgresMasteryRecordStore) Get(
	ctx context.Context,
	userID, pointID uuid.UUID,
) (*domain.MasteryRecord, error) {
	query := selectMasteryRecord + ` WHERE user_id = $1 AND point_id = $2`

	record, err := scanMasteryRecord(s.db.QueryRowContext(ctx, query, userID, pointID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMasteryRecordNotFound
		}
		return nil, MapError(err)
	}

	return record, nil
}

// GetForUpdate implements store.MasteryRecordStore.GetForUpdate
// It locks the row with SELECT FOR UPDATE so concurrent outcome writes for
// the same (user, point) pair serialize. Must run inside a transaction.
func (s *PostgresMasteryRecordStore) GetForUpdate(
	ctx context.Context,
	userID, pointID uuid.UUID,
) (*domain.MasteryRecord, error) {
	query := selectMasteryRecord + ` WHERE user_id = $1 AND point_id = $2 FOR UPDATE`

	record, err := scanMasteryRecord(s.db.QueryRowContext(ctx, query, userID, pointID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMasteryRecordNotFound
		}
		return nil, MapError(err)
	}

	return record, nil
}

// Update implements store.MasteryRecordStore.Update
func (s *PostgresMasteryRecordStore) Update(ctx context.Context, record *domain.MasteryRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE mastery_records
		SET score = $3,
			wrong_count = $4,
			is_weak_point = $5,
			is_mastered = $6,
			last_reviewed_at = $7,
			updated_at = $8
		WHERE user_id = $1 AND point_id = $2`

	result, err := s.db.ExecContext(ctx, query,
		record.UserID,
		record.PointID,
		record.Score,
		record.WrongCount,
		record.IsWeakPoint,
		record.IsMastered,
		nullableTime(record.LastReviewedAt),
		record.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "mastery record")
}

// ListByUser implements store.MasteryRecordStore.ListByUser
func (s *PostgresMasteryRecordStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MasteryRecord, error) {
	query := selectMasteryRecord + ` WHERE user_id = $1 ORDER BY point_id`

	return s.queryRecords(ctx, query, userID)
}

// ListWrongBook implements store.MasteryRecordStore.ListWrongBook
func (s *PostgresMasteryRecordStore) ListWrongBook(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MasteryRecord, error) {
	query := selectMasteryRecord + `
		WHERE user_id = $1 AND wrong_count > 0 AND NOT is_mastered
		ORDER BY point_id`

	return s.queryRecords(ctx, query, userID)
}

// WithTx implements store.MasteryRecordStore.WithTx
func (s *PostgresMasteryRecordStore) WithTx(tx *sql.Tx) store.MasteryRecordStore {
	return &PostgresMasteryRecordStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresMasteryRecordStore) queryRecords(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.MasteryRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var records []*domain.MasteryRecord
	for rows.Next() {
		record, err := scanMasteryRecord(rows)
		if err != nil {
			return nil, MapError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}

const selectMasteryRecord = `
	SELECT user_id, point_id, score, wrong_count, is_weak_point, is_mastered,
		   last_reviewed_at, created_at, updated_at
	FROM mastery_records`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMasteryRecord(row rowScanner) (*domain.MasteryRecord, error) {
	var record domain.MasteryRecord
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&record.UserID,
		&record.PointID,
		&record.Score,
		&record.WrongCount,
		&record.IsWeakPoint,
		&record.IsMastered,
		&lastReviewedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		record.LastReviewedAt = lastReviewedAt.Time
	}

	return &record, nil
}

// nullableTime converts a zero time to a SQL NULL so "never reviewed" is
// stored as NULL rather than the zero timestamp.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
