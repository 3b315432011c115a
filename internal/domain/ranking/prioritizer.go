// Package ranking implements the recommendation prioritizer: the weighted
// priority score that blends a point's weakness with its chapter yield and
// skill-type value, used to order review candidates.
package ranking

import (
	"math"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// Priority is the computed ranking score for one candidate, with the
// contributing weights exposed so callers can surface them.
type Priority struct {
	Priority        float64 `json:"priority"`
	ChapterWeight   int     `json:"chapter_weight"`
	PointTypeWeight int     `json:"point_type_weight"`
}

// Service defines the interface for priority computation
type Service interface {
	// Priority computes the ranking score for one candidate:
	// baseWeakness x chapterWeight x pointTypeWeight.
	//
	// A non-finite or non-positive product falls back to the base weakness
	// score itself, so a zero or negative weakness keeps its own value as
	// rank key instead of vanishing from the ordering.
	Priority(baseWeakness float64, chapterID int, pointType domain.PointType) Priority
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	weights *Weights
}

// NewDefaultService creates a prioritizer with the standard weight tables
func NewDefaultService() Service {
	return &defaultService{
		weights: NewDefaultWeights(),
	}
}

// NewServiceWithWeights creates a prioritizer with custom weight tables
func NewServiceWithWeights(weights *Weights) Service {
	return &defaultService{
		weights: weights,
	}
}

// Priority implements the Service interface.
func (s *defaultService) Priority(
	baseWeakness float64,
	chapterID int,
	pointType domain.PointType,
) Priority {
	chapterWeight := s.weights.ChapterWeight(chapterID)
	pointTypeWeight := s.weights.PointTypeWeight(pointType)

	priority := baseWeakness * float64(chapterWeight) * float64(pointTypeWeight)
	if math.IsNaN(priority) || math.IsInf(priority, 0) || priority <= 0 {
		priority = baseWeakness
	}

	return Priority{
		Priority:        priority,
		ChapterWeight:   chapterWeight,
		PointTypeWeight: pointTypeWeight,
	}
}
