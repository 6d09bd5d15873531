package model

import "time"

// TimeWindow is an inclusive-start, exclusive-end interval in wall-clock
// time: membership is `start <= t < end`.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow returns the window for one calendar day in the given location,
// midnight to midnight.
func DayWindow(day time.Time, loc *time.Location) TimeWindow {
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)

	return TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// ISOWeekWindow returns the window for an ISO 8601 week (Monday 00:00 to the
// following Monday 00:00) in the given location.
func ISOWeekWindow(year, week int, loc *time.Location) TimeWindow {
	// Jan 4th is always in ISO week 1; walk back to that week's Monday.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	isoWeekday := int(jan4.Weekday())

	if isoWeekday == 0 {
		isoWeekday = 7
	}

	week1Monday := jan4.AddDate(0, 0, -(isoWeekday - 1))
	start := week1Monday.AddDate(0, 0, (week-1)*7)

	return TimeWindow{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthWindow returns the window for a calendar month in the given location.
func MonthWindow(year int, month time.Month, loc *time.Location) TimeWindow {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	return TimeWindow{Start: start, End: start.AddDate(0, 1, 0)}
}

// ExplicitWindow returns a window bounded by [from, until).
func ExplicitWindow(from, until time.Time) TimeWindow {
	return TimeWindow{Start: from, End: until}
}
