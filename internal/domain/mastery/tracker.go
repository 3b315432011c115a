package mastery

import (
	"github.com/caimi124/tiku-engine/internal/domain"
)

// calculateNewScore applies one answer outcome to the current mastery score.
//
// The update is an exponential smoothing toward the relevant bound: a correct
// answer closes a fixed fraction of the remaining distance to 100, an
// incorrect answer keeps only a fixed fraction of the current score. Both
// directions are monotone and can never leave the [0, 100] range.
func calculateNewScore(current float64, isCorrect bool, params *Params) float64 {
	var score float64
	if isCorrect {
		score = current + (100-current)*params.CorrectGain
	} else {
		score = current * params.IncorrectRetention
	}

	// Guard against drift from float arithmetic at the bounds.
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}

// isMasteredStreak evaluates the trailing-streak upgrade rule against the
// point's recent outcome history.
//
// recentCorrect lists correctness of the most recent outcomes for the
// (user, point) pair, newest first, INCLUDING the outcome being applied.
// The rule fires only when at least MasteryStreak outcomes exist and the
// newest MasteryStreak of them are all correct.
func isMasteredStreak(recentCorrect []bool, params *Params) bool {
	if len(recentCorrect) < params.MasteryStreak {
		return false
	}

	for _, correct := range recentCorrect[:params.MasteryStreak] {
		if !correct {
			return false
		}
	}

	return true
}

// calculateNextRecord creates a new MasteryRecord with updated values after
// one answer outcome, following the immutable update pattern: the input
// record is never modified.
//
// recentCorrect must include the outcome being applied (newest first); the
// caller assembles it from the outcome log plus the new outcome.
func calculateNextRecord(
	record *domain.MasteryRecord,
	outcome *domain.AttemptOutcome,
	recentCorrect []bool,
	params *Params,
) *domain.MasteryRecord {
	next := &domain.MasteryRecord{
		UserID:         record.UserID,
		PointID:        record.PointID,
		Score:          record.Score,
		WrongCount:     record.WrongCount,
		IsWeakPoint:    record.IsWeakPoint,
		IsMastered:     record.IsMastered,
		LastReviewedAt: record.LastReviewedAt,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}

	next.Score = calculateNewScore(record.Score, outcome.IsCorrect, params)
	next.LastReviewedAt = outcome.AnsweredAt
	next.UpdatedAt = outcome.AnsweredAt

	if outcome.IsCorrect {
		// A correct answer alone never clears the wrong-question book entry;
		// only completing the streak does.
		if isMasteredStreak(recentCorrect, params) {
			next.IsMastered = true
			next.IsWeakPoint = false
		}
	} else {
		next.WrongCount++
		next.IsWeakPoint = true
		next.IsMastered = false
	}

	return next
}
