package ranking

import (
	"github.com/caimi124/tiku-engine/internal/domain"
)

// Fallback weights for chapters missing from the table.
//
// The review flow and the recommendation flow historically used different
// fallbacks (3 vs 1). Which one is intended is an open product question, so
// both are preserved as named constants rather than silently unified.
const (
	DefaultChapterWeightForScheduling = 3
	DefaultChapterWeightForRanking    = 1
	DefaultPointTypeWeight            = 1
)

// Weights holds the static importance tables used to rank review candidates:
// chapter weight (1-5, how high-yield a chapter is on the exam) and point
// type weight (1-5, how valuable a skill type is). Injected into the
// prioritizer at construction time so tests can substitute alternate tables,
// and hot-reloadable through the config watcher.
type Weights struct {
	Chapter   map[int]int
	PointType map[domain.PointType]int
}

// NewDefaultWeights creates the standard weight tables.
//
// Chapter weights follow the observed exam yield: 5 for core chapters, 4 for
// common ones, 3 for baseline, 2 for auxiliary material.
func NewDefaultWeights() *Weights {
	return &Weights{
		Chapter: map[int]int{
			1:  3,
			2:  3,
			3:  4,
			4:  5,
			5:  5,
			6:  4,
			7:  4,
			8:  5,
			9:  5,
			10: 4,
			11: 3,
			12: 3,
			13: 2,
			14: 2,
		},
		PointType: map[domain.PointType]int{
			domain.PointTypeMechanism:        5,
			domain.PointTypeClinicalUse:      5,
			domain.PointTypeAdverseReaction:  4,
			domain.PointTypeContraindication: 4,
			domain.PointTypeInteraction:      2,
			domain.PointTypeDosage:           1,
		},
	}
}

// ChapterWeight returns the ranking weight for a chapter, falling back to
// DefaultChapterWeightForRanking for unknown chapters.
func (w *Weights) ChapterWeight(chapterID int) int {
	if weight, ok := w.Chapter[chapterID]; ok {
		return weight
	}
	return DefaultChapterWeightForRanking
}

// SchedulingChapterWeight returns the review-flow weight for a chapter,
// falling back to DefaultChapterWeightForScheduling for unknown chapters.
func (w *Weights) SchedulingChapterWeight(chapterID int) int {
	if weight, ok := w.Chapter[chapterID]; ok {
		return weight
	}
	return DefaultChapterWeightForScheduling
}

// PointTypeWeight returns the weight for a point type, falling back to
// DefaultPointTypeWeight for unknown or absent types.
func (w *Weights) PointTypeWeight(pointType domain.PointType) int {
	if weight, ok := w.PointType[pointType]; ok {
		return weight
	}
	return DefaultPointTypeWeight
}
