package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// DailyStatStore defines the interface for per-day study time rows.
type DailyStatStore interface {
	// ListSince retrieves a user's daily stats on or after the given day.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DailyStat, error)

	// AddStudyMinutes adds to (or creates) the user's row for a calendar day.
	AddStudyMinutes(ctx context.Context, userID uuid.UUID, day time.Time, minutes int) error
}
