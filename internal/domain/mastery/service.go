package mastery

import (
	"errors"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// Common errors
var (
	ErrNilRecord  = errors.New("mastery record cannot be nil")
	ErrNilOutcome = errors.New("attempt outcome cannot be nil")

	// ErrOutcomeOutOfOrder is returned when an outcome's answered time
	// precedes the record's last reviewed time. The engine never reorders
	// events itself; the caller must drop or re-sequence the outcome.
	ErrOutcomeOutOfOrder = errors.New("attempt outcome precedes last recorded outcome")
)

// Service defines the interface for mastery tracking operations
type Service interface {
	// ApplyOutcome computes a new mastery record from one answer outcome.
	//
	// recentCorrect lists correctness of the point's most recent outcomes,
	// newest first, including the outcome being applied. The caller reads the
	// prior history from the outcome log and prepends the new outcome.
	//
	// Returns ErrOutcomeOutOfOrder if the outcome is chronologically before
	// the record's last reviewed time.
	ApplyOutcome(
		record *domain.MasteryRecord,
		outcome *domain.AttemptOutcome,
		recentCorrect []bool,
	) (*domain.MasteryRecord, error)

	// StreakLength reports how many consecutive correct outcomes upgrade a
	// point, so callers know how much history to read from the outcome log.
	StreakLength() int
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new mastery service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new mastery service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// ApplyOutcome implements the Service interface.
func (s *defaultService) ApplyOutcome(
	record *domain.MasteryRecord,
	outcome *domain.AttemptOutcome,
	recentCorrect []bool,
) (*domain.MasteryRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	if outcome == nil {
		return nil, ErrNilOutcome
	}

	if err := outcome.Validate(); err != nil {
		return nil, err
	}

	if !record.LastReviewedAt.IsZero() && outcome.AnsweredAt.Before(record.LastReviewedAt) {
		return nil, ErrOutcomeOutOfOrder
	}

	return calculateNextRecord(record, outcome, recentCorrect, s.params), nil
}

// StreakLength implements the Service interface.
func (s *defaultService) StreakLength() int {
	return s.params.MasteryStreak
}
