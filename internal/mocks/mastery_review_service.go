package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/service/mastery_review"
)

// MockMasteryReviewService implements mastery_review.MasteryReviewService for testing
type MockMasteryReviewService struct {
	// Custom behavior functions
	RecordOutcomeFn func(ctx context.Context, userID, pointID uuid.UUID, isCorrect bool, answeredAt time.Time) (*domain.MasteryRecord, error)
	ListDueTodayFn  func(ctx context.Context, userID uuid.UUID, today time.Time) ([]mastery_review.DuePoint, error)
	RecommendFn     func(ctx context.Context, userID uuid.UUID, today time.Time, limit int) ([]mastery_review.Recommendation, error)
	ListWrongBookFn func(ctx context.Context, userID uuid.UUID) ([]*domain.MasteryRecord, error)

	// Default response values
	Record          *domain.MasteryRecord
	DuePoints       []mastery_review.DuePoint
	Recommendations []mastery_review.Recommendation
	WrongBook       []*domain.MasteryRecord
	Err             error

	// Call tracking for verification
	RecordOutcomeCalls struct {
		mu        sync.Mutex
		Count     int
		UserIDs   []uuid.UUID
		PointIDs  []uuid.UUID
		Outcomes  []bool
		Answered  []time.Time
	}
}

// RecordOutcome implements the mastery_review.MasteryReviewService interface
func (m *MockMasteryReviewService) RecordOutcome(
	ctx context.Context,
	userID, pointID uuid.UUID,
	isCorrect bool,
	answeredAt time.Time,
) (*domain.MasteryRecord, error) {
	m.RecordOutcomeCalls.mu.Lock()
	m.RecordOutcomeCalls.Count++
	m.RecordOutcomeCalls.UserIDs = append(m.RecordOutcomeCalls.UserIDs, userID)
	m.RecordOutcomeCalls.PointIDs = append(m.RecordOutcomeCalls.PointIDs, pointID)
	m.RecordOutcomeCalls.Outcomes = append(m.RecordOutcomeCalls.Outcomes, isCorrect)
	m.RecordOutcomeCalls.Answered = append(m.RecordOutcomeCalls.Answered, answeredAt)
	m.RecordOutcomeCalls.mu.Unlock()

	if m.RecordOutcomeFn != nil {
		return m.RecordOutcomeFn(ctx, userID, pointID, isCorrect, answeredAt)
	}
	return m.Record, m.Err
}

// ListDueToday implements the mastery_review.MasteryReviewService interface
func (m *MockMasteryReviewService) ListDueToday(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
) ([]mastery_review.DuePoint, error) {
	if m.ListDueTodayFn != nil {
		return m.ListDueTodayFn(ctx, userID, today)
	}
	return m.DuePoints, m.Err
}

// Recommend implements the mastery_review.MasteryReviewService interface
func (m *MockMasteryReviewService) Recommend(
	ctx context.Context,
	userID uuid.UUID,
	today time.Time,
	limit int,
) ([]mastery_review.Recommendation, error) {
	if m.RecommendFn != nil {
		return m.RecommendFn(ctx, userID, today, limit)
	}
	return m.Recommendations, m.Err
}

// ListWrongBook implements the mastery_review.MasteryReviewService interface
func (m *MockMasteryReviewService) ListWrongBook(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.MasteryRecord, error) {
	if m.ListWrongBookFn != nil {
		return m.ListWrongBookFn(ctx, userID)
	}
	return m.WrongBook, m.Err
}
