package domain

import (
	"errors"

	"github.com/google/uuid"
)

// PointType classifies what a knowledge point teaches about a drug or topic.
type PointType string

// Possible point type values.
const (
	PointTypeMechanism        PointType = "mechanism"
	PointTypeClinicalUse      PointType = "clinical_use"
	PointTypeAdverseReaction  PointType = "adverse_reaction"
	PointTypeContraindication PointType = "contraindication"
	PointTypeInteraction      PointType = "interaction"
	PointTypeDosage           PointType = "dosage"
)

// KnowledgePoint-specific validation errors
var (
	// ErrPointIDEmpty is returned when a knowledge point ID is empty or nil.
	ErrPointIDEmpty = errors.New("knowledge point ID cannot be empty")

	// ErrPointChapterInvalid is returned when a knowledge point's chapter is not positive.
	ErrPointChapterInvalid = errors.New("knowledge point chapter must be positive")

	// ErrInvalidPointType is returned when a point type is not one of the known values.
	ErrInvalidPointType = errors.New("invalid point type")
)

// KnowledgePoint is one examinable fact in the syllabus. It is reference data
// owned by the content pipeline; the engine only reads it to look up chapter
// and type weights.
type KnowledgePoint struct {
	ID        uuid.UUID `json:"id"`
	ChapterID int       `json:"chapter_id"`
	Type      PointType `json:"type"`
}

// Validate checks if the KnowledgePoint has valid data.
// Returns an error if any field fails validation.
func (p *KnowledgePoint) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPointIDEmpty
	}

	if p.ChapterID <= 0 {
		return ErrPointChapterInvalid
	}

	if !p.Type.IsValid() {
		return ErrInvalidPointType
	}

	return nil
}

// IsValid reports whether the point type is one of the known values.
func (t PointType) IsValid() bool {
	switch t {
	case PointTypeMechanism,
		PointTypeClinicalUse,
		PointTypeAdverseReaction,
		PointTypeContraindication,
		PointTypeInteraction,
		PointTypeDosage:
		return true
	default:
		return false
	}
}
