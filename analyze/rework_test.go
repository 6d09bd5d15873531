package analyze_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/analyze"
	"github.com/devpulse/devpulse/pkg/model"
)

func TestRework_NoAdds(t *testing.T) {
	t.Parallel()

	result := analyze.Rework(nil, 3)

	assert.Zero(t, result.ReworkLines)
	assert.Zero(t, result.TotalAdded)
	assert.Zero(t, result.Rate)
	assert.Zero(t, result.DisplayRate())
}

func TestRework_WithinWindow(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	commits := []model.Commit{
		{Hash: "c1", AuthorName: "alice", Timestamp: day1, Files: []model.FileChange{{Path: "a.go", Added: 100}}},
		{Hash: "c2", AuthorName: "alice", Timestamp: day2, Files: []model.FileChange{{Path: "a.go", Deleted: 80}}},
	}

	result := analyze.Rework(commits, 3)

	assert.Equal(t, 80, result.ReworkLines)
	assert.Equal(t, 100, result.TotalAdded)
	assert.InDelta(t, 80.0, result.Rate, 0.001)
}

func TestRework_OutsideWindowIsExcluded(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(10 * 24 * time.Hour)

	commits := []model.Commit{
		{Hash: "c1", AuthorName: "alice", Timestamp: day1, Files: []model.FileChange{{Path: "a.go", Added: 50}}},
		{Hash: "c2", AuthorName: "alice", Timestamp: day2, Files: []model.FileChange{{Path: "a.go", Deleted: 50}}},
	}

	result := analyze.Rework(commits, 3)

	assert.Zero(t, result.ReworkLines)
	assert.Equal(t, 50, result.TotalAdded)
	assert.Zero(t, result.Rate)
}

func TestRework_DisplayRateClampsAt100(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	commits := []model.Commit{
		{Hash: "c1", AuthorName: "alice", Timestamp: ts, Files: []model.FileChange{{Path: "a.go", Added: 10}}},
		{Hash: "c2", AuthorName: "alice", Timestamp: ts, Files: []model.FileChange{{Path: "a.go", Deleted: 10}}},
		{Hash: "c3", AuthorName: "alice", Timestamp: ts, Files: []model.FileChange{{Path: "a.go", Deleted: 10}}},
	}

	result := analyze.Rework(commits, 3)

	assert.Greater(t, result.Rate, 100.0)
	assert.Equal(t, 100.0, result.DisplayRate())
}

func TestRework_MultipleFilesAreIndependent(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	commits := []model.Commit{
		{Hash: "c1", AuthorName: "alice", Timestamp: ts, Files: []model.FileChange{
			{Path: "a.go", Added: 10},
			{Path: "b.go", Added: 20},
		}},
		{Hash: "c2", AuthorName: "alice", Timestamp: ts.Add(time.Hour), Files: []model.FileChange{
			{Path: "a.go", Deleted: 5},
		}},
	}

	result := analyze.Rework(commits, 1)

	assert.Equal(t, 5, result.ReworkLines)
	assert.Equal(t, 30, result.TotalAdded)
}
