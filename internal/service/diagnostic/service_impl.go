package diagnostic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
	"github.com/caimi124/tiku-engine/internal/store"
)

// Verify interface compliance at compile time
var _ DiagnosticService = (*diagnosticServiceImpl)(nil)

// OutcomeRecorder receives scored answers after an attempt completes.
// Satisfied by mastery_review.MasteryReviewService; nil disables the feed.
type OutcomeRecorder interface {
	RecordOutcome(
		ctx context.Context,
		userID, pointID uuid.UUID,
		isCorrect bool,
		answeredAt time.Time,
	) (*domain.MasteryRecord, error)
}

// diagnosticServiceImpl implements the DiagnosticService interface.
type diagnosticServiceImpl struct {
	db                  *sql.DB
	diagnosticStore     store.DiagnosticStore
	questionStore       store.QuestionStore
	recorder            OutcomeRecorder
	questionsPerAttempt int
	logger              *slog.Logger
}

// NewDiagnosticService creates a new DiagnosticService implementation.
// recorder may be nil, which disables the mastery feed.
func NewDiagnosticService(
	db *sql.DB,
	diagnosticStore store.DiagnosticStore,
	questionStore store.QuestionStore,
	recorder OutcomeRecorder,
	questionsPerAttempt int,
	logger *slog.Logger,
) DiagnosticService {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
	if diagnosticStore == nil {
		panic("diagnosticStore cannot be nil")
	}
	if questionStore == nil {
		panic("questionStore cannot be nil")
	}
	if questionsPerAttempt <= 0 {
		panic("questionsPerAttempt must be positive")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &diagnosticServiceImpl{
		db:                  db,
		diagnosticStore:     diagnosticStore,
		questionStore:       questionStore,
		recorder:            recorder,
		questionsPerAttempt: questionsPerAttempt,
		logger:              logger.With(slog.String("component", "diagnostic_service")),
	}
}

// CreateAttempt implements DiagnosticService.CreateAttempt.
func (s *diagnosticServiceImpl) CreateAttempt(
	ctx context.Context,
	userID uuid.UUID,
	certificate, subject, chapterCode string,
) (*CreatedAttempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("creating diagnostic attempt",
		slog.String("user_id", userID.String()),
		slog.String("certificate", certificate),
		slog.String("subject", subject),
		slog.String("chapter_code", chapterCode))

	count, err := s.questionStore.CountAvailable(ctx, certificate, subject, chapterCode)
	if err != nil {
		log.Error("failed to count available questions",
			slog.String("error", err.Error()),
			slog.String("subject", subject))
		return nil, NewCreateAttemptError("failed to count available questions", err)
	}
	if count == 0 {
		log.Warn("no questions available for attempt scope",
			slog.String("certificate", certificate),
			slog.String("subject", subject),
			slog.String("chapter_code", chapterCode))
		return nil, ErrSubjectNotReady
	}

	attempt, err := domain.NewDiagnosticAttempt(userID, certificate, subject, chapterCode)
	if err != nil {
		return nil, NewCreateAttemptError("invalid attempt", err)
	}

	if err := s.diagnosticStore.CreateAttempt(ctx, attempt); err != nil {
		log.Error("failed to create attempt",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewCreateAttemptError("failed to create attempt", err)
	}

	questions, err := s.questionStore.ListForAttempt(
		ctx,
		certificate,
		subject,
		attempt.ChapterCode,
		s.questionsPerAttempt,
	)
	if err != nil {
		log.Error("failed to deliver attempt questions",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return nil, NewCreateAttemptError("failed to deliver attempt questions", err)
	}

	log.Debug("created diagnostic attempt",
		slog.String("attempt_id", attempt.ID.String()),
		slog.Int("questions", len(questions)))

	return &CreatedAttempt{
		Attempt:   attempt,
		Questions: stripAnswerKeys(questions),
	}, nil
}

// RecordAnswer implements DiagnosticService.RecordAnswer.
func (s *diagnosticServiceImpl) RecordAnswer(
	ctx context.Context,
	userID, attemptID, questionID uuid.UUID,
	selectedOption string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	attempt, err := s.diagnosticStore.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			return ErrAttemptNotFound
		}
		return NewRecordAnswerError("failed to get attempt", err)
	}

	if attempt.UserID != userID {
		log.Warn("user does not own attempt",
			slog.String("user_id", userID.String()),
			slog.String("attempt_id", attemptID.String()))
		return ErrAttemptNotOwned
	}

	if attempt.IsCompleted() {
		return ErrAttemptCompleted
	}

	answer, err := domain.NewDiagnosticAnswer(attemptID, questionID, selectedOption)
	if err != nil {
		return NewRecordAnswerError("invalid answer", err)
	}

	if err := s.diagnosticStore.UpsertAnswer(ctx, answer); err != nil {
		log.Error("failed to record answer",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attemptID.String()),
			slog.String("question_id", questionID.String()))
		return NewRecordAnswerError("failed to record answer", err)
	}

	return nil
}

// Submit implements DiagnosticService.Submit.
func (s *diagnosticServiceImpl) Submit(
	ctx context.Context,
	userID, attemptID uuid.UUID,
) (*SubmitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("submitting diagnostic attempt",
		slog.String("user_id", userID.String()),
		slog.String("attempt_id", attemptID.String()))

	var result *SubmitResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		diagStore := s.diagnosticStore.WithTx(tx)

		attempt, err := diagStore.GetAttempt(ctx, attemptID)
		if err != nil {
			if errors.Is(err, store.ErrAttemptNotFound) {
				return ErrAttemptNotFound
			}
			return fmt.Errorf("failed to get attempt: %w", err)
		}

		if attempt.UserID != userID {
			log.Warn("user does not own attempt",
				slog.String("user_id", userID.String()),
				slog.String("attempt_id", attemptID.String()))
			return ErrAttemptNotOwned
		}

		if attempt.IsCompleted() {
			return ErrAttemptCompleted
		}

		answers, err := diagStore.ListAnswers(ctx, attemptID)
		if err != nil {
			return fmt.Errorf("failed to list answers: %w", err)
		}

		questionIDs := make([]uuid.UUID, 0, len(answers))
		for _, answer := range answers {
			questionIDs = append(questionIDs, answer.QuestionID)
		}

		keys, err := s.questionStore.GetAnswerKeys(ctx, questionIDs)
		if err != nil {
			return fmt.Errorf("failed to get answer keys: %w", err)
		}

		scored := make([]AnswerResult, 0, len(answers))
		correct := 0
		for _, answer := range answers {
			key, known := keys[answer.QuestionID]
			isCorrect := known && answer.SelectedOption == key.CorrectOption
			if isCorrect {
				correct++
			}
			scored = append(scored, AnswerResult{
				QuestionID:     answer.QuestionID,
				SelectedOption: answer.SelectedOption,
				CorrectOption:  key.CorrectOption,
				IsCorrect:      isCorrect,
				pointID:        key.PointID,
			})
		}

		completedAt := time.Now().UTC()
		err = diagStore.CompleteAttempt(ctx, attemptID, completedAt, len(answers), correct)
		if err != nil {
			if errors.Is(err, store.ErrAttemptNotFound) {
				return ErrAttemptNotFound
			}
			// The status predicate failed: a concurrent submit won the race.
			if errors.Is(err, store.ErrUpdateFailed) {
				return ErrAttemptCompleted
			}
			return fmt.Errorf("failed to complete attempt: %w", err)
		}

		completed := *attempt
		completed.Status = domain.AttemptStatusCompleted
		completed.CompletedAt = completedAt
		completed.TotalQuestions = len(answers)
		completed.CorrectQuestions = correct
		completed.UpdatedAt = completedAt

		accuracy := 0.0
		if len(answers) > 0 {
			accuracy = float64(correct) / float64(len(answers))
		}

		result = &SubmitResult{
			Attempt:  &completed,
			Answers:  scored,
			Accuracy: accuracy,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) ||
			errors.Is(err, ErrAttemptNotOwned) ||
			errors.Is(err, ErrAttemptCompleted) {
			return nil, err
		}

		log.Error("failed to submit attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attemptID.String()))
		return nil, NewSubmitError("failed to submit attempt", err)
	}

	s.feedMastery(ctx, userID, result)

	log.Debug("submitted diagnostic attempt",
		slog.String("attempt_id", attemptID.String()),
		slog.Int("total", result.Attempt.TotalQuestions),
		slog.Int("correct", result.Attempt.CorrectQuestions))

	return result, nil
}

// feedMastery pushes each point-tagged scored answer into the mastery
// tracker. Runs after the submit transaction commits; a failed feed leaves
// the completed attempt intact, so failures are logged and skipped.
func (s *diagnosticServiceImpl) feedMastery(
	ctx context.Context,
	userID uuid.UUID,
	result *SubmitResult,
) {
	if s.recorder == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, answer := range result.Answers {
		if answer.pointID == uuid.Nil {
			continue
		}

		_, err := s.recorder.RecordOutcome(
			ctx,
			userID,
			answer.pointID,
			answer.IsCorrect,
			result.Attempt.CompletedAt,
		)
		if err != nil {
			log.Warn("failed to feed outcome into mastery tracker",
				slog.String("error", err.Error()),
				slog.String("point_id", answer.pointID.String()),
				slog.String("attempt_id", result.Attempt.ID.String()))
		}
	}
}

// stripAnswerKeys returns delivery copies of the questions with the correct
// option and point tag removed, so answer keys never reach the client.
func stripAnswerKeys(questions []*domain.Question) []*domain.Question {
	delivered := make([]*domain.Question, len(questions))
	for i, q := range questions {
		copied := *q
		copied.CorrectOption = ""
		copied.PointID = uuid.Nil
		delivered[i] = &copied
	}
	return delivered
}
