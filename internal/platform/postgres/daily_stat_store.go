package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/store"
)

// PostgresDailyStatStore implements the store.DailyStatStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDailyStatStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDailyStatStore creates a new PostgreSQL implementation of the
// DailyStatStore interface.
func NewPostgresDailyStatStore(db store.DBTX, logger *slog.Logger) *PostgresDailyStatStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDailyStatStore{
		db:     db,
		logger: logger.With(slog.String("component", "daily_stat_store")),
	}
}

// Ensure PostgresDailyStatStore implements store.DailyStatStore interface
var _ store.DailyStatStore = (*PostgresDailyStatStore)(nil)

// ListSince implements store.DailyStatStore.ListSince
func (s *PostgresDailyStatStore) ListSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.DailyStat, error) {
	query := `
		SELECT user_id, day, study_minutes
		FROM daily_stats
		WHERE user_id = $1 AND day >= $2
		ORDER BY day DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var stats []domain.DailyStat
	for rows.Next() {
		var stat domain.DailyStat
		if err := rows.Scan(&stat.UserID, &stat.Day, &stat.StudyMinutes); err != nil {
			return nil, MapError(err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return stats, nil
}

// AddStudyMinutes implements store.DailyStatStore.AddStudyMinutes
func (s *PostgresDailyStatStore) AddStudyMinutes(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
	minutes int,
) error {
	query := `
		INSERT INTO daily_stats (user_id, day, study_minutes)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, day) DO UPDATE
		SET study_minutes = daily_stats.study_minutes + EXCLUDED.study_minutes`

	_, err := s.db.ExecContext(ctx, query, userID, day, minutes)
	if err != nil {
		return MapError(err)
	}

	return nil
}
