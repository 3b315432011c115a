package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/service"
)

// MockEngagementService implements service.EngagementService for testing
type MockEngagementService struct {
	// Custom behavior functions
	RecordStudyTimeFn func(ctx context.Context, userID uuid.UUID, day time.Time, minutes int) error
	HeatmapFn         func(ctx context.Context, userID uuid.UUID, today time.Time, days int) ([]service.HeatmapCell, error)
	StreakFn          func(ctx context.Context, userID uuid.UUID, today time.Time) (int, error)

	// Default response values
	Cells      []service.HeatmapCell
	StreakDays int
	Err        error
}

// RecordStudyTime implements the service.EngagementService interface
func (m *MockEngagementService) RecordStudyTime(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
	minutes int,
) error {
	if m.RecordStudyTimeFn != nil {
		return m.RecordStudyTimeFn(ctx, userID, day, minutes)
	}
	return m.Err
}

// Heatmap implements the service.EngagementService interface
func (m *MockEngagementService) Heatmap(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
	days int,
) ([]service.HeatmapCell, error) {
	if m.HeatmapFn != nil {
		return m.HeatmapFn(ctx, userID, today, days)
	}
	return m.Cells, m.Err
}

// Streak implements the service.EngagementService interface
func (m *MockEngagementService) Streak(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
) (int, error) {
	if m.StreakFn != nil {
		return m.StreakFn(ctx, userID, today)
	}
	return m.StreakDays, m.Err
}
