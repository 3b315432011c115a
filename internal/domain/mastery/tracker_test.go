package mastery

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/caimi124/tiku-engine/internal/domain"
)

func TestCalculateNewScore(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		correct  bool
		expected float64
	}{
		{
			name:     "Correct from zero gains first step",
			current:  0,
			correct:  true,
			expected: 30, // 0 + 100*0.3
		},
		{
			name:     "Correct closes a fraction of the remaining distance",
			current:  50,
			correct:  true,
			expected: 65, // 50 + 50*0.3
		},
		{
			name:     "Correct at the upper bound stays at 100",
			current:  100,
			correct:  true,
			expected: 100,
		},
		{
			name:     "Incorrect decays toward zero",
			current:  80,
			correct:  false,
			expected: 56, // 80 * 0.7
		},
		{
			name:     "Incorrect at zero stays at zero",
			current:  0,
			correct:  false,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			score := calculateNewScore(tc.current, tc.correct, params)

			if math.Abs(score-tc.expected) > 1e-9 {
				t.Errorf("Expected score %v, got %v", tc.expected, score)
			}
		})
	}
}

func TestCalculateNewScoreStaysBounded(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// A long run of either outcome must never leave [0, 100].
	score := 50.0
	for i := 0; i < 100; i++ {
		score = calculateNewScore(score, true, params)
		if score < 0 || score > 100 {
			t.Fatalf("score left bounds after %d correct answers: %v", i+1, score)
		}
	}

	for i := 0; i < 100; i++ {
		score = calculateNewScore(score, false, params)
		if score < 0 || score > 100 {
			t.Fatalf("score left bounds after %d incorrect answers: %v", i+1, score)
		}
	}
}

func TestIsMasteredStreak(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		recent   []bool // newest first
		expected bool
	}{
		{
			name:     "Three newest correct with prior incorrect upgrades",
			recent:   []bool{true, true, true, false},
			expected: true,
		},
		{
			name:     "Exactly three correct upgrades",
			recent:   []bool{true, true, true},
			expected: true,
		},
		{
			name:     "Incorrect newest blocks upgrade",
			recent:   []bool{false, true, true, true},
			expected: false,
		},
		{
			name:     "Fewer than three outcomes never upgrades",
			recent:   []bool{true, true},
			expected: false,
		},
		{
			name:     "Empty history never upgrades",
			recent:   nil,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := isMasteredStreak(tc.recent, params)

			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestCalculateNextRecord(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	userID := uuid.New()
	pointID := uuid.New()
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	baseRecord := func() *domain.MasteryRecord {
		return &domain.MasteryRecord{
			UserID:         userID,
			PointID:        pointID,
			Score:          50,
			WrongCount:     1,
			IsWeakPoint:    true,
			IsMastered:     false,
			LastReviewedAt: now.Add(-24 * time.Hour),
			CreatedAt:      now.Add(-72 * time.Hour),
			UpdatedAt:      now.Add(-24 * time.Hour),
		}
	}

	t.Run("Correct outcome completing the streak sets mastered and clears weak flag", func(t *testing.T) {
		record := baseRecord()
		outcome := &domain.AttemptOutcome{
			UserID: userID, PointID: pointID, IsCorrect: true, AnsweredAt: now,
		}

		next := calculateNextRecord(record, outcome, []bool{true, true, true, false}, params)

		if !next.IsMastered {
			t.Error("Expected IsMastered to be set after completing the streak")
		}
		if next.IsWeakPoint {
			t.Error("Expected IsWeakPoint cleared after completing the streak")
		}
		if next.WrongCount != record.WrongCount {
			t.Errorf("Correct outcome must not change WrongCount: got %d", next.WrongCount)
		}
		if !next.LastReviewedAt.Equal(now) {
			t.Errorf("Expected LastReviewedAt %v, got %v", now, next.LastReviewedAt)
		}
	})

	t.Run("Correct outcome without streak keeps wrong-book state", func(t *testing.T) {
		record := baseRecord()
		outcome := &domain.AttemptOutcome{
			UserID: userID, PointID: pointID, IsCorrect: true, AnsweredAt: now,
		}

		next := calculateNextRecord(record, outcome, []bool{true, false, true}, params)

		if next.IsMastered {
			t.Error("Expected IsMastered to stay false without a full streak")
		}
		if !next.IsWeakPoint {
			t.Error("A lone correct answer must not clear the weak-point flag")
		}
	})

	t.Run("Incorrect outcome increments wrong count and clears mastered", func(t *testing.T) {
		record := baseRecord()
		record.IsMastered = true
		outcome := &domain.AttemptOutcome{
			UserID: userID, PointID: pointID, IsCorrect: false, AnsweredAt: now,
		}

		next := calculateNextRecord(record, outcome, []bool{false, true, true, true}, params)

		if next.IsMastered {
			t.Error("Expected a single incorrect outcome to clear IsMastered")
		}
		if !next.IsWeakPoint {
			t.Error("Expected IsWeakPoint set after an incorrect outcome")
		}
		if next.WrongCount != record.WrongCount+1 {
			t.Errorf("Expected WrongCount %d, got %d", record.WrongCount+1, next.WrongCount)
		}
	})

	t.Run("Input record is not mutated", func(t *testing.T) {
		record := baseRecord()
		original := *record
		outcome := &domain.AttemptOutcome{
			UserID: userID, PointID: pointID, IsCorrect: false, AnsweredAt: now,
		}

		_ = calculateNextRecord(record, outcome, []bool{false}, params)

		if *record != original {
			t.Error("calculateNextRecord must not modify its input record")
		}
	})
}
