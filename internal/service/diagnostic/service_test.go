package diagnostic_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/service/diagnostic"
	"github.com/caimi124/tiku-engine/internal/store"
)

// MockDiagnosticStore is a mock implementation of the DiagnosticStore interface
type MockDiagnosticStore struct {
	mock.Mock
}

func (m *MockDiagnosticStore) CreateAttempt(
	ctx context.Context,
	attempt *domain.DiagnosticAttempt,
) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockDiagnosticStore) GetAttempt(
	ctx context.Context,
	id uuid.UUID,
) (*domain.DiagnosticAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiagnosticAttempt), args.Error(1)
}

func (m *MockDiagnosticStore) UpsertAnswer(
	ctx context.Context,
	answer *domain.DiagnosticAnswer,
) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockDiagnosticStore) ListAnswers(
	ctx context.Context,
	attemptID uuid.UUID,
) ([]*domain.DiagnosticAnswer, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DiagnosticAnswer), args.Error(1)
}

func (m *MockDiagnosticStore) CompleteAttempt(
	ctx context.Context,
	id uuid.UUID,
	completedAt time.Time,
	totalQuestions, correctQuestions int,
) error {
	args := m.Called(ctx, id, completedAt, totalQuestions, correctQuestions)
	return args.Error(0)
}

func (m *MockDiagnosticStore) WithTx(tx *sql.Tx) store.DiagnosticStore {
	return m
}

// MockQuestionStore is a mock implementation of the QuestionStore interface
type MockQuestionStore struct {
	mock.Mock
}

func (m *MockQuestionStore) CountAvailable(
	ctx context.Context,
	certificate, subject, chapterCode string,
) (int, error) {
	args := m.Called(ctx, certificate, subject, chapterCode)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionStore) ListForAttempt(
	ctx context.Context,
	certificate, subject, chapterCode string,
	limit int,
) ([]*domain.Question, error) {
	args := m.Called(ctx, certificate, subject, chapterCode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionStore) GetAnswerKeys(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]store.AnswerKey, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]store.AnswerKey), args.Error(1)
}

// MockOutcomeRecorder is a mock implementation of the OutcomeRecorder interface
type MockOutcomeRecorder struct {
	mock.Mock
}

func (m *MockOutcomeRecorder) RecordOutcome(
	ctx context.Context,
	userID, pointID uuid.UUID,
	isCorrect bool,
	answeredAt time.Time,
) (*domain.MasteryRecord, error) {
	args := m.Called(ctx, userID, pointID, isCorrect, answeredAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MasteryRecord), args.Error(1)
}

// testFixture bundles the service under test with its mocks.
type testFixture struct {
	service         diagnostic.DiagnosticService
	dbMock          sqlmock.Sqlmock
	diagnosticStore *MockDiagnosticStore
	questionStore   *MockQuestionStore
	recorder        *MockOutcomeRecorder
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &testFixture{
		dbMock:          dbMock,
		diagnosticStore: new(MockDiagnosticStore),
		questionStore:   new(MockQuestionStore),
		recorder:        new(MockOutcomeRecorder),
	}
	f.service = diagnostic.NewDiagnosticService(
		db,
		f.diagnosticStore,
		f.questionStore,
		f.recorder,
		20,
		nil,
	)
	return f
}

func inProgressAttempt(userID uuid.UUID) *domain.DiagnosticAttempt {
	now := time.Now().UTC().Add(-time.Hour)
	return &domain.DiagnosticAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		Certificate: "pharmacist",
		Subject:     "pharmacology",
		ChapterCode: domain.ChapterCodeAll,
		Status:      domain.AttemptStatusInProgress,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAttempt_DeliversQuestionsWithoutAnswerKeys(t *testing.T) {
	f := newTestFixture(t)
	userID := uuid.New()

	bankQuestions := []*domain.Question{
		{
			ID:            uuid.New(),
			Certificate:   "pharmacist",
			Subject:       "pharmacology",
			ChapterCode:   "ch04",
			Stem:          "Which receptor does atropine block?",
			Options:       []domain.QuestionOption{{Key: "A", Kind: domain.OptionKindText, Text: "M"}, {Key: "B", Kind: domain.OptionKindText, Text: "N"}},
			CorrectOption: "A",
			PointID:       uuid.New(),
		},
	}

	f.questionStore.On("CountAvailable", mock.Anything, "pharmacist", "pharmacology", "").
		Return(50, nil)
	f.diagnosticStore.On("CreateAttempt", mock.Anything, mock.Anything).Return(nil)
	f.questionStore.On("ListForAttempt", mock.Anything, "pharmacist", "pharmacology", domain.ChapterCodeAll, 20).
		Return(bankQuestions, nil)

	created, err := f.service.CreateAttempt(context.Background(), userID, "pharmacist", "pharmacology", "")

	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusInProgress, created.Attempt.Status)
	assert.Equal(t, domain.ChapterCodeAll, created.Attempt.ChapterCode, "empty chapter scope normalizes to ALL")
	require.Len(t, created.Questions, 1)
	assert.Empty(t, created.Questions[0].CorrectOption, "delivered questions must not carry the answer key")
	assert.Equal(t, uuid.Nil, created.Questions[0].PointID)
	assert.Equal(t, "A", bankQuestions[0].CorrectOption, "bank copy is untouched")
	f.diagnosticStore.AssertExpectations(t)
}

func TestCreateAttempt_SubjectNotReady(t *testing.T) {
	f := newTestFixture(t)

	f.questionStore.On("CountAvailable", mock.Anything, "pharmacist", "pharmacology", "ch01").
		Return(0, nil)

	_, err := f.service.CreateAttempt(
		context.Background(),
		uuid.New(),
		"pharmacist",
		"pharmacology",
		"ch01",
	)

	assert.ErrorIs(t, err, diagnostic.ErrSubjectNotReady)
	f.diagnosticStore.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestRecordAnswer_Lifecycle(t *testing.T) {
	userID := uuid.New()

	t.Run("records answer on in-progress attempt", func(t *testing.T) {
		f := newTestFixture(t)
		attempt := inProgressAttempt(userID)
		questionID := uuid.New()

		f.diagnosticStore.On("GetAttempt", mock.Anything, attempt.ID).Return(attempt, nil)
		f.diagnosticStore.On("UpsertAnswer", mock.Anything, mock.MatchedBy(func(a *domain.DiagnosticAnswer) bool {
			return a.AttemptID == attempt.ID && a.QuestionID == questionID && a.SelectedOption == "B"
		})).Return(nil)

		err := f.service.RecordAnswer(context.Background(), userID, attempt.ID, questionID, "B")

		require.NoError(t, err)
		f.diagnosticStore.AssertExpectations(t)
	})

	t.Run("rejects answer from another user", func(t *testing.T) {
		f := newTestFixture(t)
		attempt := inProgressAttempt(userID)

		f.diagnosticStore.On("GetAttempt", mock.Anything, attempt.ID).Return(attempt, nil)

		err := f.service.RecordAnswer(context.Background(), uuid.New(), attempt.ID, uuid.New(), "A")

		assert.ErrorIs(t, err, diagnostic.ErrAttemptNotOwned)
		f.diagnosticStore.AssertNotCalled(t, "UpsertAnswer", mock.Anything, mock.Anything)
	})

	t.Run("rejects answer after completion", func(t *testing.T) {
		f := newTestFixture(t)
		attempt := inProgressAttempt(userID)
		attempt.Status = domain.AttemptStatusCompleted

		f.diagnosticStore.On("GetAttempt", mock.Anything, attempt.ID).Return(attempt, nil)

		err := f.service.RecordAnswer(context.Background(), userID, attempt.ID, uuid.New(), "A")

		assert.ErrorIs(t, err, diagnostic.ErrAttemptCompleted)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		f := newTestFixture(t)
		attemptID := uuid.New()

		f.diagnosticStore.On("GetAttempt", mock.Anything, attemptID).
			Return(nil, store.ErrAttemptNotFound)

		err := f.service.RecordAnswer(context.Background(), userID, attemptID, uuid.New(), "A")

		assert.ErrorIs(t, err, diagnostic.ErrAttemptNotFound)
	})
}

func TestSubmit_ScoresAndFeedsMastery(t *testing.T) {
	f := newTestFixture(t)
	userID := uuid.New()
	attempt := inProgressAttempt(userID)

	q1 := uuid.New() // answered correctly, tagged
	q2 := uuid.New() // answered incorrectly, tagged
	q3 := uuid.New() // question no longer in the bank
	p1 := uuid.New()
	p2 := uuid.New()

	answers := []*domain.DiagnosticAnswer{
		{AttemptID: attempt.ID, QuestionID: q1, SelectedOption: "A"},
		{AttemptID: attempt.ID, QuestionID: q2, SelectedOption: "C"},
		{AttemptID: attempt.ID, QuestionID: q3, SelectedOption: "B"},
	}
	keys := map[uuid.UUID]store.AnswerKey{
		q1: {CorrectOption: "A", PointID: p1},
		q2: {CorrectOption: "B", PointID: p2},
	}

	f.dbMock.ExpectBegin()
	f.diagnosticStore.On("GetAttempt", mock.Anything, attempt.ID).Return(attempt, nil)
	f.diagnosticStore.On("ListAnswers", mock.Anything, attempt.ID).Return(answers, nil)
	f.questionStore.On("GetAnswerKeys", mock.Anything, mock.Anything).Return(keys, nil)
	f.diagnosticStore.On("CompleteAttempt", mock.Anything, attempt.ID, mock.Anything, 3, 1).
		Return(nil)
	f.dbMock.ExpectCommit()

	f.recorder.On("RecordOutcome", mock.Anything, userID, p1, true, mock.Anything).
		Return(&domain.MasteryRecord{}, nil)
	f.recorder.On("RecordOutcome", mock.Anything, userID, p2, false, mock.Anything).
		Return(&domain.MasteryRecord{}, nil)

	result, err := f.service.Submit(context.Background(), userID, attempt.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusCompleted, result.Attempt.Status)
	assert.Equal(t, 3, result.Attempt.TotalQuestions)
	assert.Equal(t, 1, result.Attempt.CorrectQuestions)
	assert.InDelta(t, 1.0/3.0, result.Accuracy, 0.001)
	require.Len(t, result.Answers, 3)

	// The untagged bank-missing question scores incorrect and is not fed.
	f.recorder.AssertNumberOfCalls(t, "RecordOutcome", 2)
	f.diagnosticStore.AssertExpectations(t)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmit_AlreadyCompleted(t *testing.T) {
	f := newTestFixture(t)
	userID := uuid.New()
	attempt := inProgressAttempt(userID)
	attempt.Status = domain.AttemptStatusCompleted

	f.dbMock.ExpectBegin()
	f.diagnosticStore.On("GetAttempt", mock.Anything, attempt.ID).Return(attempt, nil)
	f.dbMock.ExpectRollback()

	_, err := f.service.Submit(context.Background(), userID, attempt.ID)

	assert.ErrorIs(t, err, diagnostic.ErrAttemptCompleted)
	f.diagnosticStore.AssertNotCalled(
		t,
		"CompleteAttempt",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	)
	f.recorder.AssertNotCalled(
		t,
		"RecordOutcome",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmit_LosesCompletionRace(t *testing.T) {
	f := newTestFixture(t)
	userID := uuid.New()
	attempt := inProgressAttempt(userID)

	f.dbMock.ExpectBegin()
	f.diagnosticStore.On("GetAttempt", mock.Anything, attempt.ID).Return(attempt, nil)
	f.diagnosticStore.On("ListAnswers", mock.Anything, attempt.ID).
		Return([]*domain.DiagnosticAnswer{}, nil)
	f.questionStore.On("GetAnswerKeys", mock.Anything, mock.Anything).
		Return(map[uuid.UUID]store.AnswerKey{}, nil)
	f.diagnosticStore.On("CompleteAttempt", mock.Anything, attempt.ID, mock.Anything, 0, 0).
		Return(store.ErrUpdateFailed)
	f.dbMock.ExpectRollback()

	_, err := f.service.Submit(context.Background(), userID, attempt.ID)

	assert.ErrorIs(t, err, diagnostic.ErrAttemptCompleted)
	f.recorder.AssertNotCalled(
		t,
		"RecordOutcome",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmit_NotOwned(t *testing.T) {
	f := newTestFixture(t)
	attempt := inProgressAttempt(uuid.New())

	f.dbMock.ExpectBegin()
	f.diagnosticStore.On("GetAttempt", mock.Anything, attempt.ID).Return(attempt, nil)
	f.dbMock.ExpectRollback()

	_, err := f.service.Submit(context.Background(), uuid.New(), attempt.ID)

	assert.ErrorIs(t, err, diagnostic.ErrAttemptNotOwned)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}
