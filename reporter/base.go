// Package reporter assembles Markdown reports from the commits fetched for
// a resolved TimeWindow: daily, weekly, and monthly share this Base for
// window-independent formatting and aggregate-building (spec §4.3).
package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/devpulse/devpulse/analyze"
	"github.com/devpulse/devpulse/internal/config"
	"github.com/devpulse/devpulse/internal/numfmt"
	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/pkg/observability"
	"github.com/devpulse/devpulse/provider"
)

// tracerName is the fallback OTel tracer name used when a Base has no
// Tracer of its own, matching the teacher's own fallback-to-global-provider
// convention in internal/framework.Runner.
const tracerName = "devpulse"

// maxHotspotFileSizeLookups bounds the number of GetFileLineCount calls a
// report performs per repository, so a long window with thousands of
// touched files doesn't turn HealthScore computation into one request per
// file; the churned-most files are the ones most worth sizing.
const maxHotspotFileSizeLookups = 200

// RepoSource binds a configured repository to the Provider that serves it.
type RepoSource struct {
	Repo     model.Repository
	Provider provider.Provider
}

// Base holds everything the three reporters need that does not vary with
// the resolved window: the repository/provider set, thresholds, working
// hours, and project identity (spec §6).
type Base struct {
	ProjectName  string
	Sources      []RepoSource
	Thresholds   config.ThresholdsConfig
	WorkingHours config.WorkingHoursConfig
	Logger       *slog.Logger

	// Tracer creates spans around each repository fetch. When nil, falls
	// back to otel.Tracer(tracerName).
	Tracer trace.Tracer

	// Metrics records per-repository fetch durations. A nil Metrics (and a
	// nil *observability.AnalysisMetrics receiver) is a no-op.
	Metrics *observability.AnalysisMetrics
}

// RepoCommits is one repository's commit set within the resolved window.
type RepoCommits struct {
	Repo    model.Repository
	Commits []model.Commit
}

// Stats summarizes one FetchAll call for the CLI layer's run-level metrics
// (spec §5's per-repository fetch stage), without requiring reporter to
// depend on the observability package's RunStats shape.
type Stats struct {
	Commits int
	Repos   int
}

// tracer returns b.Tracer, falling back to the global provider's tracer.
func (b *Base) tracer() trace.Tracer {
	if b.Tracer != nil {
		return b.Tracer
	}

	return otel.Tracer(tracerName)
}

// FetchAll retrieves commits in window from every configured repository.
// A single repository's fetch failure is logged and that repository is
// skipped; it never fails the whole report (spec §5 "per-repository
// failure is isolated by the caller"). Each repository's fetch runs inside
// its own span and has its duration recorded via Metrics.
func (b *Base) FetchAll(ctx context.Context, window model.TimeWindow) []RepoCommits {
	out := make([]RepoCommits, 0, len(b.Sources))

	for _, src := range b.Sources {
		repoCtx, span := b.tracer().Start(ctx, "devpulse.repo.fetch",
			trace.WithAttributes(attribute.String("repo.id", src.Repo.ID)))

		start := time.Now()
		commits, err := src.Provider.GetCommits(repoCtx, src.Repo.ID, window.Start, window.End, "all")
		b.Metrics.RecordRepoDuration(repoCtx, src.Repo.ID, time.Since(start))

		if err != nil {
			observability.RecordSpanError(span, err, observability.ErrTypeDependencyUnavailable, observability.ErrSourceDependency)
			span.End()

			if b.Logger != nil {
				b.Logger.WarnContext(ctx, "skipping repository for window", "repo", src.Repo.ID, "error", err)
			}

			continue
		}

		filtered := provider.FilterWindow(commits, window)
		span.SetAttributes(attribute.Int("repo.commits", len(filtered)))
		span.End()

		out = append(out, RepoCommits{Repo: src.Repo, Commits: filtered})
	}

	return out
}

// allCommits flattens every repository's commits into one slice.
func allCommits(sets []RepoCommits) []model.Commit {
	var all []model.Commit
	for _, s := range sets {
		all = append(all, s.Commits...)
	}

	return all
}

// buildAuthorAggregates folds every repository's commits into per-author
// totals, keyed by author name.
func buildAuthorAggregates(sets []RepoCommits) map[string]*model.AuthorAggregate {
	authors := make(map[string]*model.AuthorAggregate)

	for _, s := range sets {
		for _, c := range s.Commits {
			a, ok := authors[c.AuthorName]
			if !ok {
				a = model.NewAuthorAggregate(c.AuthorName)
				authors[c.AuthorName] = a
			}

			a.AddCommit(c, s.Repo.ID, s.Repo.Type)
		}
	}

	return authors
}

// buildRepoAggregates summarizes each repository's own commit set.
func buildRepoAggregates(sets []RepoCommits) []*model.RepoAggregate {
	aggs := make([]*model.RepoAggregate, 0, len(sets))

	for _, s := range sets {
		agg := model.NewRepoAggregate(s.Repo.ID)
		for _, c := range s.Commits {
			agg.AddCommit(c)
		}

		aggs = append(aggs, agg)
	}

	sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].RepoID < aggs[j].RepoID })

	return aggs
}

// sortedAuthorNames returns author names sorted by name ascending, the
// deterministic tiebreak spec §4.3 "Common rules" requires for rankings.
func sortedAuthorNames(authors map[string]*model.AuthorAggregate) []string {
	names := make([]string, 0, len(authors))
	for n := range authors {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

func (b *Base) lateNightWindow() analyze.WorkTimeWindow {
	return parseWindowOr(b.WorkingHours.LateNightStart, b.WorkingHours.LateNightEnd, analyze.DefaultLateNightWindow)
}

func (b *Base) overtimeWindow() analyze.WorkTimeWindow {
	return parseWindowOr(b.WorkingHours.OvertimeStart, b.WorkingHours.OvertimeEnd, analyze.DefaultOvertimeWindow)
}

func parseWindowOr(start, end string, fallback analyze.WorkTimeWindow) analyze.WorkTimeWindow {
	s, okS := parseHour(start)
	e, okE := parseHour(end)

	if !okS || !okE {
		return fallback
	}

	return analyze.WorkTimeWindow{StartHour: s, EndHour: e}
}

func parseHour(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) == 0 {
		return 0, false
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}

	return h, true
}

// hotspotThresholds builds analyze.HotspotThresholds from the configured
// exclusion rules and numeric thresholds.
func (b *Base) hotspotThresholds(exclude config.AnalysisConfig) analyze.HotspotThresholds {
	return analyze.HotspotThresholds{
		ModifyCount:      b.Thresholds.ChurnCount,
		LargeFile:        b.Thresholds.LargeFile,
		MultiAuthorCount: b.Thresholds.MultiAuthorCount,
		ExcludePatterns:  exclude.ExcludePatterns,
		ExcludeDirs:      exclude.ExcludeDirs,
	}
}

// fileSizes resolves the current line count for up to
// maxHotspotFileSizeLookups distinct paths touched in commits, using src's
// Provider. Paths beyond the cap are left at size 0, which under-scores
// (never over-scores) their hotspot risk.
func fileSizes(ctx context.Context, src RepoSource, commits []model.Commit) map[string]int {
	counts := make(map[string]int)
	touched := make(map[string]int)
	order := make([]string, 0)

	for _, c := range commits {
		for _, f := range c.Files {
			if _, seen := touched[f.Path]; !seen {
				order = append(order, f.Path)
			}

			touched[f.Path]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return touched[order[i]] > touched[order[j]] })

	if len(order) > maxHotspotFileSizeLookups {
		order = order[:maxHotspotFileSizeLookups]
	}

	for _, path := range order {
		n, err := src.Provider.GetFileLineCount(ctx, src.Repo.ID, path, "")
		if err == nil {
			counts[path] = n
		}
	}

	return counts
}

// healthMetricsFor computes model.HealthMetrics for one repository's
// commit set, combining the analyzers per spec §4.2.
func (b *Base) healthMetricsFor(ctx context.Context, src RepoSource, commits []model.Commit, exclude config.AnalysisConfig) model.HealthMetrics {
	churn := analyze.Churn(commits, orDefault(b.Thresholds.ChurnCount, 3))
	rework := analyze.Rework(commits, orDefault(b.Thresholds.ReworkDeleteDays, 7))
	quality := analyze.MessageQuality(commits)
	counts := analyze.CountWorkTime(commits, b.lateNightWindow(), b.overtimeWindow())

	sizes := fileSizes(ctx, src, commits)
	hotspots := analyze.Hotspot(commits, sizes, b.hotspotThresholds(exclude))

	return model.HealthMetrics{
		LargeCommitCount: analyze.LargeCommitCount(commits, b.Thresholds.LargeCommit),
		ChurnRate:        churn.Rate,
		ReworkRate:       rework.DisplayRate(),
		MessageQuality:   quality,
		LateNightCount:   counts.LateNight,
		WeekendCount:     counts.Weekend,
		HighRiskFiles:    len(hotspots),
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}

	return v
}

// aggregateHealthMetrics combines every repository's HealthMetrics per
// original_source/src/reporters/base.py's calculate_health_score: max for
// rate-like fields, sum for counts, average for message quality.
func aggregateHealthMetrics(perRepo []model.HealthMetrics) model.HealthMetrics {
	if len(perRepo) == 0 {
		return model.HealthMetrics{MessageQuality: 100}
	}

	var out model.HealthMetrics

	qualitySum := 0.0

	for _, m := range perRepo {
		out.LargeCommitCount += m.LargeCommitCount
		out.LateNightCount += m.LateNightCount
		out.WeekendCount += m.WeekendCount
		out.HighRiskFiles += m.HighRiskFiles

		if m.ChurnRate > out.ChurnRate {
			out.ChurnRate = m.ChurnRate
		}

		if m.ReworkRate > out.ReworkRate {
			out.ReworkRate = m.ReworkRate
		}

		qualitySum += m.MessageQuality
	}

	out.MessageQuality = qualitySum / float64(len(perRepo))

	return out
}

// --- Markdown assembly helpers ---

type mdWriter struct {
	b strings.Builder
}

func (w *mdWriter) heading(level int, text string) {
	w.b.WriteString(strings.Repeat("#", level))
	w.b.WriteString(" ")
	w.b.WriteString(text)
	w.b.WriteString("\n\n")
}

func (w *mdWriter) line(text string) {
	w.b.WriteString(text)
	w.b.WriteString("\n")
}

func (w *mdWriter) para(text string) {
	w.b.WriteString(text)
	w.b.WriteString("\n\n")
}

func (w *mdWriter) table(headers []string, rows [][]string) {
	w.b.WriteString("| ")
	w.b.WriteString(strings.Join(escapeCells(headers), " | "))
	w.b.WriteString(" |\n|")
	w.b.WriteString(strings.Repeat(" --- |", len(headers)))
	w.b.WriteString("\n")

	for _, row := range rows {
		w.b.WriteString("| ")
		w.b.WriteString(strings.Join(escapeCells(row), " | "))
		w.b.WriteString(" |\n")
	}

	w.b.WriteString("\n")
}

// escapeCells escapes every cell for safe placement in a pipe-delimited
// Markdown table row.
func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}

	return out
}

// escapeCell escapes backslashes and pipes (which would otherwise be read
// as column delimiters) and collapses embedded newlines, so a commit
// message or free-text field can never break a table's row structure.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	return s
}

func (w *mdWriter) String() string {
	return w.b.String()
}

// formatHeader writes the title plus a generated-at/project banner, matching
// original_source/src/reporters/base.py's _format_header.
func formatHeader(w *mdWriter, title, projectName string, generatedAt time.Time) {
	w.heading(1, title)
	w.para(fmt.Sprintf("**Project:** %s  \n**Generated:** %s", projectName, generatedAt.Format("2006-01-02 15:04:05 MST")))
}

// formatFooter writes the trailing health-score summary line shared by all
// three reporters.
func formatFooter(w *mdWriter, score model.HealthScore) {
	w.heading(2, "Health Score")
	w.para(fmt.Sprintf("**%d/100** (%s)", score.Score, score.Level))

	if len(score.Deductions) == 0 {
		w.para("No deductions.")
		return
	}

	rows := make([][]string, 0, len(score.Deductions))
	for _, d := range score.Deductions {
		rows = append(rows, []string{d.Reason, numfmt.Signed(-d.Amount)})
	}

	w.table([]string{"Reason", "Points"}, rows)
}
