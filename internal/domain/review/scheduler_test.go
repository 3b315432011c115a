package review

import (
	"testing"
	"time"
)

func TestIntervalDays(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		score    float64
		expected int
	}{
		{name: "Zero score gets shortest interval", score: 0, expected: 1},
		{name: "Weak score", score: 35, expected: 2},
		{name: "Review band lower edge", score: 60, expected: 7},
		{name: "Mastered band", score: 85, expected: 15},
		{name: "Near-perfect score gets longest interval", score: 95, expected: 30},
		{name: "Perfect score", score: 100, expected: 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			days := params.intervalDays(tc.score)

			if days != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, days)
			}
		})
	}
}

func TestIntervalMonotonicity(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// interval(s1) <= interval(s2) for every s1 <= s2 in [0, 100].
	prev := params.intervalDays(0)
	for score := 0.0; score <= 100; score += 0.5 {
		days := params.intervalDays(score)
		if days < prev {
			t.Fatalf("interval decreased at score %v: %d < %d", score, days, prev)
		}
		prev = days
	}

	// And the top of the curve must be materially longer than the bottom.
	if params.intervalDays(100) < 5*params.intervalDays(0) {
		t.Errorf("interval(100)=%d is not at least 5x interval(0)=%d",
			params.intervalDays(100), params.intervalDays(0))
	}
}

func TestNextReviewDate(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	today := time.Date(2025, 3, 10, 14, 45, 0, 0, time.UTC)

	t.Run("Never-reviewed point is due today", func(t *testing.T) {
		got := service.NextReviewDate(75, time.Time{}, today)
		want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

		if !got.Equal(want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("Interval counts from the review's calendar day", func(t *testing.T) {
		reviewed := time.Date(2025, 3, 8, 23, 59, 0, 0, time.UTC)
		got := service.NextReviewDate(0, reviewed, today)
		want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

		if !got.Equal(want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("Next review date never precedes the review", func(t *testing.T) {
		reviewed := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
		for score := 0.0; score <= 100; score += 10 {
			next := service.NextReviewDate(score, reviewed, today)
			if next.Before(reviewed.Truncate(24 * time.Hour)) {
				t.Errorf("score %v: next review %v precedes review %v", score, next, reviewed)
			}
		}
	})
}

func TestIsDueToday(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	today := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		score          float64
		lastReviewedAt time.Time
		expected       bool
	}{
		{
			name:           "No review history is always due",
			score:          95,
			lastReviewedAt: time.Time{},
			expected:       true,
		},
		{
			name:  "Reviewed late yesterday with a long interval is not due",
			score: 95,
			// 23:59 yesterday, checked 00:01 today: calendar gap is one day,
			// interval is 30, so not due.
			lastReviewedAt: time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC),
			expected:       false,
		},
		{
			name:           "Weak point reviewed yesterday is due again",
			score:          10,
			lastReviewedAt: time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC),
			expected:       true,
		},
		{
			name:           "Reviewed earlier today is not due",
			score:          10,
			lastReviewedAt: time.Date(2025, 3, 10, 0, 0, 30, 0, time.UTC),
			expected:       false,
		},
		{
			name:           "Overdue point stays due",
			score:          50,
			lastReviewedAt: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
			expected:       true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.IsDueToday(tc.score, tc.lastReviewedAt, today)

			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNewParamsRejectsBadBands(t *testing.T) {
	t.Parallel()

	defaults := NewDefaultParams()

	testCases := []struct {
		name  string
		bands []IntervalBand
	}{
		{name: "Empty bands", bands: nil},
		{name: "First band not at zero", bands: []IntervalBand{{MinScore: 10, Days: 1}}},
		{
			name: "Decreasing days",
			bands: []IntervalBand{
				{MinScore: 0, Days: 5},
				{MinScore: 50, Days: 2},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := NewParams(tc.bands)

			if params.intervalDays(0) != defaults.intervalDays(0) ||
				params.intervalDays(100) != defaults.intervalDays(100) {
				t.Error("Expected fallback to default bands")
			}
		})
	}
}
