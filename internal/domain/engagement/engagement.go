// Package engagement implements the engagement aggregator: the heatmap
// bucketing of daily study time and the consecutive-day streak count.
package engagement

import (
	"time"

	"github.com/caimi124/tiku-engine/internal/domain"
)

// HeatmapBucket maps a day's study minutes to a heatmap intensity level 0-4.
// Boundaries are half-open: exactly 0 minutes is level 0, anything under 15
// is level 1, [15,30) is 2, [30,60) is 3, and an hour or more is 4.
func HeatmapBucket(minutes int) int {
	switch {
	case minutes <= 0:
		return 0
	case minutes < 15:
		return 1
	case minutes < 30:
		return 2
	case minutes < 60:
		return 3
	default:
		return 4
	}
}

// Streak counts consecutive calendar days with nonzero study time ending at
// today, walking backward until the chain breaks.
//
// If today has no recorded study yet, the streak may still be alive: counting
// then starts at yesterday. A day whose row exists with zero minutes breaks
// the chain the same way a missing day does.
func Streak(stats []domain.DailyStat, today time.Time) int {
	minutesByDay := make(map[time.Time]int, len(stats))
	for _, stat := range stats {
		minutesByDay[midnight(stat.Day)] = stat.StudyMinutes
	}

	day := midnight(today)
	if minutesByDay[day] <= 0 {
		// No study yet today: the chain may still end at yesterday.
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for minutesByDay[day] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

// midnight strips the time of day, keeping the calendar date in UTC.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
