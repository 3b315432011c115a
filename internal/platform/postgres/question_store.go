package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/store"
)

// PostgresQuestionStore implements the store.QuestionStore and
// store.KnowledgePointStore interfaces over the content tables. Both are
// read-only: the content pipeline owns writes.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a new PostgreSQL implementation of the
// question and knowledge point read interfaces.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure PostgresQuestionStore implements both read interfaces
var (
	_ store.QuestionStore       = (*PostgresQuestionStore)(nil)
	_ store.KnowledgePointStore = (*PostgresQuestionStore)(nil)
)

// CountAvailable implements store.QuestionStore.CountAvailable
func (s *PostgresQuestionStore) CountAvailable(
	ctx context.Context,
	certificate, subject, chapterCode string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM questions
		WHERE certificate = $1 AND subject = $2
		  AND ($3 = '' OR $3 = 'ALL' OR chapter_code = $3)`

	var count int
	err := s.db.QueryRowContext(ctx, query, certificate, subject, chapterCode).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// ListForAttempt implements store.QuestionStore.ListForAttempt
func (s *PostgresQuestionStore) ListForAttempt(
	ctx context.Context,
	certificate, subject, chapterCode string,
	limit int,
) ([]*domain.Question, error) {
	query := `
		SELECT id, certificate, subject, chapter_code, stem, options,
			   correct_option, point_id
		FROM questions
		WHERE certificate = $1 AND subject = $2
		  AND ($3 = '' OR $3 = 'ALL' OR chapter_code = $3)
		ORDER BY random()
		LIMIT $4`

	rows, err := s.db.QueryContext(ctx, query, certificate, subject, chapterCode, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var questions []*domain.Question
	for rows.Next() {
		var question domain.Question
		var optionsJSON []byte
		var pointID uuid.NullUUID

		err := rows.Scan(
			&question.ID,
			&question.Certificate,
			&question.Subject,
			&question.ChapterCode,
			&question.Stem,
			&optionsJSON,
			&question.CorrectOption,
			&pointID,
		)
		if err != nil {
			return nil, MapError(err)
		}

		if err := json.Unmarshal(optionsJSON, &question.Options); err != nil {
			return nil, fmt.Errorf("%w: malformed question options: %v", store.ErrInvalidEntity, err)
		}
		if pointID.Valid {
			question.PointID = pointID.UUID
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return questions, nil
}

// GetAnswerKeys implements store.QuestionStore.GetAnswerKeys
func (s *PostgresQuestionStore) GetAnswerKeys(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]store.AnswerKey, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]store.AnswerKey{}, nil
	}

	query := `
		SELECT id, correct_option, point_id
		FROM questions
		WHERE id = ANY($1::uuid[])`

	rows, err := s.db.QueryContext(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	keys := make(map[uuid.UUID]store.AnswerKey, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var key store.AnswerKey
		var pointID uuid.NullUUID
		if err := rows.Scan(&id, &key.CorrectOption, &pointID); err != nil {
			return nil, MapError(err)
		}
		if pointID.Valid {
			key.PointID = pointID.UUID
		}
		keys[id] = key
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return keys, nil
}

// GetByID implements store.KnowledgePointStore.GetByID
func (s *PostgresQuestionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.KnowledgePoint, error) {
	query := `
		SELECT id, chapter_id, point_type
		FROM knowledge_points
		WHERE id = $1`

	var point domain.KnowledgePoint
	err := s.db.QueryRowContext(ctx, query, id).Scan(&point.ID, &point.ChapterID, &point.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPointNotFound
		}
		return nil, MapError(err)
	}

	return &point, nil
}

// GetByIDs implements store.KnowledgePointStore.GetByIDs
func (s *PostgresQuestionStore) GetByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]*domain.KnowledgePoint, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*domain.KnowledgePoint{}, nil
	}

	query := `
		SELECT id, chapter_id, point_type
		FROM knowledge_points
		WHERE id = ANY($1::uuid[])`

	rows, err := s.db.QueryContext(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	points := make(map[uuid.UUID]*domain.KnowledgePoint, len(ids))
	for rows.Next() {
		var point domain.KnowledgePoint
		if err := rows.Scan(&point.ID, &point.ChapterID, &point.Type); err != nil {
			return nil, MapError(err)
		}
		points[point.ID] = &point
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return points, nil
}

// uuidStrings renders IDs for a uuid[] query parameter.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
