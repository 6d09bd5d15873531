package analyze_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/analyze"
	"github.com/devpulse/devpulse/pkg/model"
)

func TestWorkTimeWindow_ContainsWrapsMidnight(t *testing.T) {
	t.Parallel()

	w := analyze.DefaultLateNightWindow // 22-06

	assert.True(t, w.Contains(23))
	assert.True(t, w.Contains(0))
	assert.True(t, w.Contains(5))
	assert.False(t, w.Contains(6))
	assert.False(t, w.Contains(21))
	assert.False(t, w.Contains(12))
}

func TestWorkTimeWindow_ContainsNonWrapping(t *testing.T) {
	t.Parallel()

	w := analyze.DefaultOvertimeWindow // 18-21

	assert.True(t, w.Contains(18))
	assert.True(t, w.Contains(20))
	assert.False(t, w.Contains(21))
	assert.False(t, w.Contains(17))
}

func TestClassifyWorkTime_AllClassesIndependent(t *testing.T) {
	t.Parallel()

	// Saturday 23:00: late-night and weekend, not overtime.
	ts := time.Date(2025, 1, 4, 23, 0, 0, 0, time.UTC)

	class := analyze.ClassifyWorkTime(ts, analyze.DefaultLateNightWindow, analyze.DefaultOvertimeWindow)

	assert.True(t, class.LateNight)
	assert.True(t, class.Weekend)
	assert.False(t, class.Overtime)
}

func TestClassifyWorkTime_WeekdayOvertimeOnly(t *testing.T) {
	t.Parallel()

	// Wednesday 19:00.
	ts := time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC)

	class := analyze.ClassifyWorkTime(ts, analyze.DefaultLateNightWindow, analyze.DefaultOvertimeWindow)

	assert.False(t, class.LateNight)
	assert.False(t, class.Weekend)
	assert.True(t, class.Overtime)
}

func TestCountWorkTime_Aggregates(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{
		{Timestamp: time.Date(2025, 1, 4, 23, 0, 0, 0, time.UTC)}, // late-night + weekend
		{Timestamp: time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC)}, // overtime
		{Timestamp: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}, // none
	}

	counts := analyze.CountWorkTime(commits, analyze.DefaultLateNightWindow, analyze.DefaultOvertimeWindow)

	assert.Equal(t, 1, counts.LateNight)
	assert.Equal(t, 1, counts.Weekend)
	assert.Equal(t, 1, counts.Overtime)
}
