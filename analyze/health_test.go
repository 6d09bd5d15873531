package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/analyze"
	"github.com/devpulse/devpulse/pkg/model"
)

func TestLargeCommitCount_DefaultCeiling(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{
		{Files: []model.FileChange{{Added: 600}}},
		{Files: []model.FileChange{{Added: 10}}},
	}

	assert.Equal(t, 1, analyze.LargeCommitCount(commits, 0))
}

func TestHealthScore_PerfectScore(t *testing.T) {
	t.Parallel()

	score := analyze.HealthScore(model.HealthMetrics{MessageQuality: 100})

	assert.Equal(t, 100, score.Score)
	assert.Equal(t, model.SeverityExcellent, score.Level)
	assert.Empty(t, score.Deductions)
}

func TestHealthScore_DeductionTable(t *testing.T) {
	t.Parallel()

	metrics := model.HealthMetrics{
		LargeCommitCount: 2,
		ChurnRate:        35,
		ReworkRate:       20,
		MessageQuality:   50,
		LateNightCount:   20,
		WeekendCount:     5,
		HighRiskFiles:    10,
	}

	score := analyze.HealthScore(metrics)

	// 100 - 10 (large*5) - 20 (churn>30) - 8 (rework 15-30) - 10 (msg<60)
	// - 20 (abnormal capped) - 15 (high-risk capped) = 17
	assert.Equal(t, 17, score.Score)
	assert.Equal(t, model.SeverityDanger, score.Level)
	assert.Len(t, score.Deductions, 6)
}

func TestHealthScore_AbnormalTimeCappedAt20(t *testing.T) {
	t.Parallel()

	score := analyze.HealthScore(model.HealthMetrics{LateNightCount: 100, MessageQuality: 100})

	found := false
	for _, d := range score.Deductions {
		if d.Reason == "abnormal-time commits" {
			found = true
			assert.Equal(t, 20, d.Amount)
		}
	}
	assert.True(t, found)
}

func TestHealthScore_HighRiskFilesCappedAt15(t *testing.T) {
	t.Parallel()

	score := analyze.HealthScore(model.HealthMetrics{HighRiskFiles: 50, MessageQuality: 100})

	found := false
	for _, d := range score.Deductions {
		if d.Reason == "high-risk files" {
			found = true
			assert.Equal(t, 15, d.Amount)
		}
	}
	assert.True(t, found)
}

func TestHealthScore_ClampsAtZero(t *testing.T) {
	t.Parallel()

	metrics := model.HealthMetrics{
		LargeCommitCount: 50,
		ChurnRate:        90,
		ReworkRate:       90,
		MessageQuality:   0,
		LateNightCount:   100,
		HighRiskFiles:    100,
	}

	score := analyze.HealthScore(metrics)

	assert.Equal(t, 0, score.Score)
	assert.Equal(t, model.SeverityDanger, score.Level)
}

func TestHealthScore_SeverityBoundaries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.SeverityExcellent, model.SeverityFor(80))
	assert.Equal(t, model.SeverityGood, model.SeverityFor(79))
	assert.Equal(t, model.SeverityGood, model.SeverityFor(60))
	assert.Equal(t, model.SeverityWarning, model.SeverityFor(59))
	assert.Equal(t, model.SeverityWarning, model.SeverityFor(40))
	assert.Equal(t, model.SeverityDanger, model.SeverityFor(39))
}
