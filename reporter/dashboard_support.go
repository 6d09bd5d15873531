package reporter

import (
	"context"
	"time"

	"github.com/devpulse/devpulse/analyze"
	"github.com/devpulse/devpulse/internal/config"
	"github.com/devpulse/devpulse/pkg/model"
)

// DailyHealthScore fetches the commits for the calendar day containing at
// and returns the same aggregate HealthScore the Daily reporter's footer
// would print. render/dashboard's health-score trend line calls this once
// per day of project history rather than duplicating Base's aggregation
// rules.
func DailyHealthScore(ctx context.Context, b *Base, at time.Time, loc *time.Location, exclude config.AnalysisConfig) model.HealthScore {
	window := model.DayWindow(at, loc)
	sets := b.FetchAll(ctx, window)

	metrics := make([]model.HealthMetrics, 0, len(sets))

	for _, s := range sets {
		src := findSource(b.Sources, s.Repo.ID)
		if src == nil {
			continue
		}

		metrics = append(metrics, b.healthMetricsFor(ctx, *src, s.Commits, exclude))
	}

	return analyze.HealthScore(aggregateHealthMetrics(metrics))
}

// AllCommitsTagged fetches every configured repository's commits across the
// full window and tags each with its repository id, the shape
// render/dashboard needs for its per-repository pie chart and author
// rankings.
func AllCommitsTagged(ctx context.Context, b *Base, window model.TimeWindow) []TaggedCommit {
	sets := b.FetchAll(ctx, window)

	var out []TaggedCommit
	for _, s := range sets {
		for _, c := range s.Commits {
			out = append(out, TaggedCommit{Commit: c, RepoID: s.Repo.ID})
		}
	}

	return out
}

// TaggedCommit mirrors render/dashboard.TaggedCommit so callers can build
// dashboard.Input directly from reporter output; this package does not
// import render/dashboard, and render/dashboard does not import reporter.
type TaggedCommit struct {
	model.Commit
	RepoID string
}
