package analyze

import (
	"time"

	"github.com/devpulse/devpulse/pkg/model"
)

// WorkTimeWindow is an hour-of-day window that may wrap past midnight, e.g.
// StartHour=22, EndHour=6 covers 22:00 through 05:59.
type WorkTimeWindow struct {
	StartHour int
	EndHour   int
}

// DefaultLateNightWindow is 22:00-06:00 local time.
var DefaultLateNightWindow = WorkTimeWindow{StartHour: 22, EndHour: 6}

// DefaultOvertimeWindow is 18:00-21:00 local time.
var DefaultOvertimeWindow = WorkTimeWindow{StartHour: 18, EndHour: 21}

// Contains reports whether hour falls in the window, wrapping past midnight
// when StartHour > EndHour.
func (w WorkTimeWindow) Contains(hour int) bool {
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}

	// Wraps midnight: true for [Start,24) union [0,End) via modular offset.
	return (hour-w.StartHour+24)%24 < (w.EndHour-w.StartHour+24)%24
}

// WorkTimeClass is the independent (non-exclusive) classification of one
// commit's timestamp.
type WorkTimeClass struct {
	LateNight bool
	Weekend   bool
	Overtime  bool
}

// ClassifyWorkTime classifies ts against lateNight and overtime windows.
// Weekend is Saturday or Sunday. The classes are not mutually exclusive.
func ClassifyWorkTime(ts time.Time, lateNight, overtime WorkTimeWindow) WorkTimeClass {
	hour := ts.Hour()
	weekday := ts.Weekday()

	return WorkTimeClass{
		LateNight: lateNight.Contains(hour),
		Weekend:   weekday == time.Saturday || weekday == time.Sunday,
		Overtime:  overtime.Contains(hour),
	}
}

// WorkTimeCounts tallies each class across commits, using whatever
// late-night and overtime windows the caller passed to CountWorkTime.
type WorkTimeCounts struct {
	LateNight int
	Weekend   int
	Overtime  int
}

// CountWorkTime classifies every commit's timestamp and returns the totals.
func CountWorkTime(commits []model.Commit, lateNight, overtime WorkTimeWindow) WorkTimeCounts {
	var counts WorkTimeCounts

	for _, c := range commits {
		class := ClassifyWorkTime(c.Timestamp, lateNight, overtime)

		if class.LateNight {
			counts.LateNight++
		}

		if class.Weekend {
			counts.Weekend++
		}

		if class.Overtime {
			counts.Overtime++
		}
	}

	return counts
}
