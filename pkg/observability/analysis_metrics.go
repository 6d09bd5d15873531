package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommitsTotal     = "devpulse.run.commits.total"
	metricReposTotal       = "devpulse.run.repos.total"
	metricRepoDuration     = "devpulse.run.repo.duration.seconds"
	metricProviderCacheHit = "devpulse.run.provider_cache.hits.total"
	metricProviderCacheMis = "devpulse.run.provider_cache.misses.total"
	metricReportBytes      = "devpulse.run.report.bytes_written.total"

	attrRepo = "repo"
)

// AnalysisMetrics holds OTel instruments for run-level devpulse metrics.
type AnalysisMetrics struct {
	commitsTotal  metric.Int64Counter
	reposTotal    metric.Int64Counter
	repoDuration  metric.Float64Histogram
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	reportBytes   metric.Int64Counter
}

// RunStats holds the statistics for a single report-generation run.
type RunStats struct {
	Commits          int64
	ReposFetched     int
	RepoDurations    []time.Duration
	ProviderCacheHit int64
	ProviderCacheMis int64
	ReportBytes      int64
}

// NewAnalysisMetrics creates run metric instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	commits, err := mt.Int64Counter(metricCommitsTotal,
		metric.WithDescription("Total commits ingested across all providers"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsTotal, err)
	}

	repos, err := mt.Int64Counter(metricReposTotal,
		metric.WithDescription("Total repositories fetched"),
		metric.WithUnit("{repo}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReposTotal, err)
	}

	repoDur, err := mt.Float64Histogram(metricRepoDuration,
		metric.WithDescription("Per-repository fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRepoDuration, err)
	}

	hits, err := mt.Int64Counter(metricProviderCacheHit,
		metric.WithDescription("Provider commit-cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricProviderCacheHit, err)
	}

	misses, err := mt.Int64Counter(metricProviderCacheMis,
		metric.WithDescription("Provider commit-cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricProviderCacheMis, err)
	}

	reportBytes, err := mt.Int64Counter(metricReportBytes,
		metric.WithDescription("Bytes written to rendered report files"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportBytes, err)
	}

	return &AnalysisMetrics{
		commitsTotal: commits,
		reposTotal:   repos,
		repoDuration: repoDur,
		cacheHits:    hits,
		cacheMisses:  misses,
		reportBytes:  reportBytes,
	}, nil
}

// RecordRun records run statistics for a completed report-generation pass.
// Safe to call on a nil receiver (no-op).
func (am *AnalysisMetrics) RecordRun(ctx context.Context, stats RunStats) {
	if am == nil {
		return
	}

	am.commitsTotal.Add(ctx, stats.Commits)
	am.reposTotal.Add(ctx, int64(stats.ReposFetched))

	for _, d := range stats.RepoDurations {
		am.repoDuration.Record(ctx, d.Seconds())
	}

	am.cacheHits.Add(ctx, stats.ProviderCacheHit)
	am.cacheMisses.Add(ctx, stats.ProviderCacheMis)
	am.reportBytes.Add(ctx, stats.ReportBytes)
}

// RecordRepoDuration records a single repository's fetch duration, tagged by repo id.
func (am *AnalysisMetrics) RecordRepoDuration(ctx context.Context, repoID string, d time.Duration) {
	if am == nil {
		return
	}

	am.repoDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrRepo, repoID)))
}
