package notifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/notifier"
)

const sampleDailyReport = `# Daily Report

## Overview

| Metric | Value |
| --- | --- |
| Repositories analyzed | 3 |
| Active authors | 5 |
| Commits | 42 |

## Quality

| Metric | Value |
| --- | --- |
| Large commits | 2 |
| Message quality | 78.5% |

## Risk Alerts

| Author | Late-night commits | Weekend commits | Large commits |
| --- | --- | --- | --- |
| alice | 3 | 1 | 1 |
| bob | 1 | 0 | 1 |

Health score: **82/100** (Good)
`

const sampleWeeklyReport = `# Weekly Report

## Core Totals

| Metric | Value |
| --- | --- |
| Repositories | 2 |
| Authors | 4 |
| Commits | 120 |
| Net | +340 |

## Productivity Ranking

| Author | Commits | Net lines |
| --- | --- | --- |
| alice | 50 | 200 |
| bob | 40 | 100 |
| carol | 20 | 30 |
| dave | 10 | 10 |

Health score: **90/100** (Excellent)
`

func TestExtractDigest_Daily(t *testing.T) {
	t.Parallel()

	d := notifier.ExtractDigest(sampleDailyReport)

	assert.Equal(t, 3, d.Repositories)
	assert.Equal(t, 5, d.ActiveAuthors)
	assert.Equal(t, 42, d.Commits)
	assert.Equal(t, 4, d.LargeCommits) // 2 from the Quality table plus 1+1 from Risk Alerts rows
	assert.InDelta(t, 78.5, d.MessageQuality, 0.01)
	assert.Equal(t, 4, d.LateNightCommits)
	assert.Equal(t, 1, d.WeekendCommits)
	assert.Equal(t, 82, d.HealthScore)
	assert.Equal(t, "Good", d.HealthLevel)
}

func TestExtractDigest_WeeklyTopContributorsCappedAtThree(t *testing.T) {
	t.Parallel()

	d := notifier.ExtractDigest(sampleWeeklyReport)

	assert.Equal(t, 2, d.Repositories)
	assert.Equal(t, 4, d.ActiveAuthors)
	assert.Equal(t, 120, d.Commits)
	assert.Equal(t, 340, d.NetLines)
	assert.Len(t, d.TopContributors, 3)
	assert.Equal(t, "alice", d.TopContributors[0].Name)
	assert.Equal(t, 50, d.TopContributors[0].Commits)
	assert.Equal(t, 90, d.HealthScore)
}

func TestExtractDigest_EmptyInput(t *testing.T) {
	t.Parallel()

	d := notifier.ExtractDigest("")

	assert.Equal(t, 0, d.Commits)
	assert.Empty(t, d.TopContributors)
	assert.Equal(t, float64(100), d.MessageQuality)
}
