package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// AnswerKey is the scoring view of one question: its correct option key and
// the knowledge point it is tagged with (Nil when untagged).
type AnswerKey struct {
	CorrectOption string
	PointID       uuid.UUID
}

// QuestionStore defines the read-only interface over the question bank.
// Questions are owned by the content pipeline; the engine only counts them
// for readiness checks, delivers them into attempts, and reads the answer
// keys during scoring.
type QuestionStore interface {
	// CountAvailable returns how many questions exist for a certificate and
	// subject, optionally scoped to a chapter. ChapterCodeAll (or empty)
	// means the whole subject.
	CountAvailable(ctx context.Context, certificate, subject, chapterCode string) (int, error)

	// ListForAttempt retrieves up to limit questions for an attempt's scope.
	ListForAttempt(
		ctx context.Context,
		certificate, subject, chapterCode string,
		limit int,
	) ([]*domain.Question, error)

	// GetAnswerKeys retrieves the scoring view for each given question ID.
	// Unknown IDs are simply absent from the result map.
	GetAnswerKeys(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]AnswerKey, error)
}

// KnowledgePointStore defines the read-only interface over knowledge point
// reference data.
type KnowledgePointStore interface {
	// GetByID retrieves a knowledge point.
	// Returns ErrPointNotFound if the point does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgePoint, error)

	// GetByIDs retrieves a batch of knowledge points keyed by ID. Unknown
	// IDs are absent from the result map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.KnowledgePoint, error)
}
