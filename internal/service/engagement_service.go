package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain/engagement"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
	"github.com/caimi124/tiku-engine/internal/store"
)

// ErrInvalidStudyMinutes indicates a non-positive study time increment.
var ErrInvalidStudyMinutes = errors.New("study minutes must be positive")

// HeatmapCell is one day on the study heatmap: the calendar day, the raw
// minutes, and the bucketed intensity level 0-4.
type HeatmapCell struct {
	Day          time.Time `json:"day"`
	StudyMinutes int       `json:"study_minutes"`
	Level        int       `json:"level"`
}

// EngagementService aggregates daily study activity into the heatmap and
// the consecutive-day streak shown on the learner's profile.
type EngagementService interface {
	// RecordStudyTime adds study minutes to the user's counter for a
	// calendar day. Increments are additive; concurrent writes never lose
	// minutes.
	RecordStudyTime(ctx context.Context, userID uuid.UUID, day time.Time, minutes int) error

	// Heatmap returns one cell per day with recorded study time in the
	// trailing window of the given number of days, ending at today.
	Heatmap(ctx context.Context, userID uuid.UUID, today time.Time, days int) ([]HeatmapCell, error)

	// Streak returns the user's current consecutive-day study streak as of
	// today. A day with no study yet today does not break a streak that ran
	// through yesterday.
	Streak(ctx context.Context, userID uuid.UUID, today time.Time) (int, error)
}

// engagementServiceImpl implements the EngagementService interface.
type engagementServiceImpl struct {
	statStore store.DailyStatStore
	logger    *slog.Logger
}

// NewEngagementService creates a new EngagementService implementation.
func NewEngagementService(statStore store.DailyStatStore, logger *slog.Logger) EngagementService {
	if statStore == nil {
		panic("statStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &engagementServiceImpl{
		statStore: statStore,
		logger:    logger.With(slog.String("component", "engagement_service")),
	}
}

// RecordStudyTime implements EngagementService.RecordStudyTime.
func (s *engagementServiceImpl) RecordStudyTime(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
	minutes int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if minutes <= 0 {
		return ErrInvalidStudyMinutes
	}

	if err := s.statStore.AddStudyMinutes(ctx, userID, day, minutes); err != nil {
		log.Error("failed to record study time",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to record study time: %w", err)
	}

	return nil
}

// Heatmap implements EngagementService.Heatmap.
func (s *engagementServiceImpl) Heatmap(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
	days int,
) ([]HeatmapCell, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	since := today.UTC().AddDate(0, 0, -(days - 1))
	stats, err := s.statStore.ListSince(ctx, userID, since)
	if err != nil {
		log.Error("failed to list daily stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}

	cells := make([]HeatmapCell, 0, len(stats))
	for _, stat := range stats {
		cells = append(cells, HeatmapCell{
			Day:          stat.Day,
			StudyMinutes: stat.StudyMinutes,
			Level:        engagement.HeatmapBucket(stat.StudyMinutes),
		})
	}

	return cells, nil
}

// Streak implements EngagementService.Streak.
func (s *engagementServiceImpl) Streak(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// A year of history bounds the walk; longer streaks are clamped by the
	// window rather than scanning the whole table.
	since := today.UTC().AddDate(-1, 0, 0)
	stats, err := s.statStore.ListSince(ctx, userID, since)
	if err != nil {
		log.Error("failed to list daily stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, fmt.Errorf("failed to list daily stats: %w", err)
	}

	return engagement.Streak(stats, today), nil
}
