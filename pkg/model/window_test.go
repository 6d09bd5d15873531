package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/pkg/model"
)

func TestDayWindow(t *testing.T) {
	t.Parallel()

	w := model.DayWindow(time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)))
}

func TestISOWeekWindow(t *testing.T) {
	t.Parallel()

	// 2025-W02 per spec E5: Monday 2025-01-06 to Monday 2025-01-13.
	w := model.ISOWeekWindow(2025, 2, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), w.End)

	y, wk := w.Start.ISOWeek()
	assert.Equal(t, 2025, y)
	assert.Equal(t, 2, wk)
}

func TestMonthWindow(t *testing.T) {
	t.Parallel()

	w := model.MonthWindow(2025, time.January, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestExplicitWindow(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	w := model.ExplicitWindow(from, until)

	assert.Equal(t, from, w.Start)
	assert.Equal(t, until, w.End)
	assert.True(t, w.Contains(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)))
}

func TestTimeWindow_HalfOpen(t *testing.T) {
	t.Parallel()

	w := model.TimeWindow{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End))
}
