package mastery_review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/domain/mastery"
	"github.com/caimi124/tiku-engine/internal/domain/ranking"
	"github.com/caimi124/tiku-engine/internal/domain/review"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
	"github.com/caimi124/tiku-engine/internal/store"
)

// Verify interface compliance at compile time
var _ MasteryReviewService = (*masteryReviewServiceImpl)(nil)

// WeightsSource supplies the current ranking weight tables. Satisfied by
// config.WeightsProvider; a fresh prioritizer is built per request so weight
// hot-reloads take effect without restarting the service.
type WeightsSource interface {
	Current() *ranking.Weights
}

// masteryReviewServiceImpl implements the MasteryReviewService interface.
type masteryReviewServiceImpl struct {
	db           *sql.DB
	masteryStore store.MasteryRecordStore
	outcomeStore store.AttemptOutcomeStore
	pointStore   store.KnowledgePointStore
	masterySvc   mastery.Service
	scheduler    review.Service
	weights      WeightsSource
	logger       *slog.Logger
}

// NewMasteryReviewService creates a new MasteryReviewService implementation.
func NewMasteryReviewService(
	db *sql.DB,
	masteryStore store.MasteryRecordStore,
	outcomeStore store.AttemptOutcomeStore,
	pointStore store.KnowledgePointStore,
	masterySvc mastery.Service,
	scheduler review.Service,
	weights WeightsSource,
	logger *slog.Logger,
) MasteryReviewService {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
	if masteryStore == nil {
		panic("masteryStore cannot be nil")
	}
	if outcomeStore == nil {
		panic("outcomeStore cannot be nil")
	}
	if pointStore == nil {
		panic("pointStore cannot be nil")
	}
	if masterySvc == nil {
		panic("masterySvc cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if weights == nil {
		panic("weights cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &masteryReviewServiceImpl{
		db:           db,
		masteryStore: masteryStore,
		outcomeStore: outcomeStore,
		pointStore:   pointStore,
		masterySvc:   masterySvc,
		scheduler:    scheduler,
		weights:      weights,
		logger:       logger.With(slog.String("component", "mastery_review_service")),
	}
}

// RecordOutcome implements MasteryReviewService.RecordOutcome.
func (s *masteryReviewServiceImpl) RecordOutcome(
	ctx context.Context,
	userID, pointID uuid.UUID,
	isCorrect bool,
	answeredAt time.Time,
) (*domain.MasteryRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("recording answer outcome",
		slog.String("user_id", userID.String()),
		slog.String("point_id", pointID.String()),
		slog.Bool("is_correct", isCorrect))

	outcome, err := domain.NewAttemptOutcome(userID, pointID, isCorrect, answeredAt)
	if err != nil {
		return nil, NewRecordOutcomeError("invalid outcome", err)
	}

	if _, err := s.pointStore.GetByID(ctx, pointID); err != nil {
		if errors.Is(err, store.ErrPointNotFound) {
			log.Warn("outcome for unknown knowledge point",
				slog.String("point_id", pointID.String()))
			return nil, ErrPointNotFound
		}
		return nil, NewRecordOutcomeError("failed to look up knowledge point", err)
	}

	var updated *domain.MasteryRecord
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		masteryStore := s.masteryStore.WithTx(tx)
		outcomeStore := s.outcomeStore.WithTx(tx)

		// Lock the record so concurrent outcomes for the same (user, point)
		// pair serialize and each sees a consistent outcome history.
		created := false
		record, err := masteryStore.GetForUpdate(ctx, userID, pointID)
		if err != nil {
			if !errors.Is(err, store.ErrMasteryRecordNotFound) {
				return fmt.Errorf("failed to get mastery record: %w", err)
			}
			record, err = domain.NewMasteryRecord(userID, pointID)
			if err != nil {
				return fmt.Errorf("failed to create mastery record: %w", err)
			}
			created = true
		}

		// The streak rule needs the newest streak-1 prior outcomes plus the
		// one being applied.
		window := s.masterySvc.StreakLength() - 1
		recentCorrect := []bool{outcome.IsCorrect}
		if window > 0 {
			prior, err := outcomeStore.ListRecent(ctx, userID, pointID, window)
			if err != nil {
				return fmt.Errorf("failed to list recent outcomes: %w", err)
			}
			for _, p := range prior {
				recentCorrect = append(recentCorrect, p.IsCorrect)
			}
		}

		next, err := s.masterySvc.ApplyOutcome(record, outcome, recentCorrect)
		if err != nil {
			if errors.Is(err, mastery.ErrOutcomeOutOfOrder) {
				return ErrOutcomeOutOfOrder
			}
			return fmt.Errorf("failed to apply outcome: %w", err)
		}

		if err := outcomeStore.Append(ctx, outcome); err != nil {
			return fmt.Errorf("failed to append outcome: %w", err)
		}

		if created {
			if err := masteryStore.Create(ctx, next); err != nil {
				return fmt.Errorf("failed to create mastery record: %w", err)
			}
		} else {
			if err := masteryStore.Update(ctx, next); err != nil {
				return fmt.Errorf("failed to update mastery record: %w", err)
			}
		}

		updated = next
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrOutcomeOutOfOrder) {
			log.Warn("rejected out-of-order outcome",
				slog.String("user_id", userID.String()),
				slog.String("point_id", pointID.String()),
				slog.Time("answered_at", answeredAt))
			return nil, ErrOutcomeOutOfOrder
		}

		log.Error("failed to record outcome",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("point_id", pointID.String()))
		return nil, NewRecordOutcomeError("failed to record outcome", err)
	}

	log.Debug("successfully recorded outcome",
		slog.String("user_id", userID.String()),
		slog.String("point_id", pointID.String()),
		slog.Float64("score", updated.Score),
		slog.String("status", string(updated.Status())),
		slog.Bool("is_mastered", updated.IsMastered))

	return updated, nil
}

// ListDueToday implements MasteryReviewService.ListDueToday.
func (s *masteryReviewServiceImpl) ListDueToday(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
) ([]DuePoint, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.masteryStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list mastery records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list mastery records: %w", err)
	}

	due := make([]DuePoint, 0)
	for _, record := range records {
		if !s.scheduler.IsDueToday(record.Score, record.LastReviewedAt, today) {
			continue
		}
		due = append(due, DuePoint{
			Record:       record,
			NextReviewAt: s.scheduler.NextReviewDate(record.Score, record.LastReviewedAt, today),
		})
	}

	log.Debug("listed due points",
		slog.String("user_id", userID.String()),
		slog.Int("total", len(records)),
		slog.Int("due", len(due)))

	return due, nil
}

// Recommend implements MasteryReviewService.Recommend.
func (s *masteryReviewServiceImpl) Recommend(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
	limit int,
) ([]Recommendation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.masteryStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list mastery records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewRecommendError("failed to list mastery records", err)
	}

	// Candidates are points that are due per the scheduler or sitting in the
	// wrong-question book.
	candidates := make([]*domain.MasteryRecord, 0)
	pointIDs := make([]uuid.UUID, 0)
	for _, record := range records {
		if !record.IsWeakPoint &&
			!s.scheduler.IsDueToday(record.Score, record.LastReviewedAt, today) {
			continue
		}
		candidates = append(candidates, record)
		pointIDs = append(pointIDs, record.PointID)
	}

	if len(candidates) == 0 {
		return []Recommendation{}, nil
	}

	points, err := s.pointStore.GetByIDs(ctx, pointIDs)
	if err != nil {
		log.Error("failed to look up knowledge points",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewRecommendError("failed to look up knowledge points", err)
	}

	prioritizer := ranking.NewServiceWithWeights(s.weights.Current())

	recs := make([]Recommendation, 0, len(candidates))
	for _, record := range candidates {
		rec := Recommendation{
			PointID:      record.PointID,
			Score:        record.Score,
			Status:       record.Status(),
			WrongCount:   record.WrongCount,
			NextReviewAt: s.scheduler.NextReviewDate(record.Score, record.LastReviewedAt, today),
		}

		// An untagged point still ranks, on its bare weakness score.
		baseWeakness := (100 - record.Score) / 100
		if point, ok := points[record.PointID]; ok {
			p := prioritizer.Priority(baseWeakness, point.ChapterID, point.Type)
			rec.Priority = p.Priority
			rec.ChapterWeight = p.ChapterWeight
			rec.PointTypeWeight = p.PointTypeWeight
		} else {
			rec.Priority = baseWeakness
		}

		recs = append(recs, rec)
	}

	// Highest priority first; ties break by point ID so the ordering is
	// stable across requests.
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority > recs[j].Priority
		}
		return recs[i].PointID.String() < recs[j].PointID.String()
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	log.Debug("ranked review recommendations",
		slog.String("user_id", userID.String()),
		slog.Int("candidates", len(candidates)),
		slog.Int("returned", len(recs)))

	return recs, nil
}

// ListWrongBook implements MasteryReviewService.ListWrongBook.
func (s *masteryReviewServiceImpl) ListWrongBook(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MasteryRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.masteryStore.ListWrongBook(ctx, userID)
	if err != nil {
		log.Error("failed to list wrong-question book",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list wrong-question book: %w", err)
	}

	return records, nil
}
