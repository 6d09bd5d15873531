package reporter

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/devpulse/devpulse/analyze"
	"github.com/devpulse/devpulse/internal/config"
	"github.com/devpulse/devpulse/internal/numfmt"
	"github.com/devpulse/devpulse/pkg/model"
)

// Weekly assembles the weekly report (spec §4.3.b): productivity ranking,
// quality section, time-of-day histogram, health score, action items.
type Weekly struct {
	*Base
	Exclude config.AnalysisConfig
}

// hourBand is one of the seven fixed bands the weekly activity heatmap
// uses (spec §4.3 "Common rules").
type hourBand struct {
	label      string
	startHour  int
	endHourExc int
}

var hourBands = []hourBand{
	{"00-06", 0, 6},
	{"06-09", 6, 9},
	{"09-12", 9, 12},
	{"12-14", 12, 14},
	{"14-18", 14, 18},
	{"18-22", 18, 22},
	{"22-24", 22, 24},
}

// Generate builds the Markdown report for ISO week (year, week) in loc.
func (rw *Weekly) Generate(ctx context.Context, year, week int, loc *time.Location, generatedAt time.Time) (string, Stats, error) {
	window := model.ISOWeekWindow(year, week, loc)
	sets := rw.FetchAll(ctx, window)
	commits := allCommits(sets)

	w := &mdWriter{}
	title := fmt.Sprintf("Weekly Report — %d-W%02d", year, week)
	formatHeader(w, title, rw.ProjectName, generatedAt)

	authors := buildAuthorAggregates(sets)
	writeProductivityRanking(w, authors)
	writeQualitySection(w, rw.Base, commits, rw.Exclude)
	writeHourHistogram(w, commits)

	metrics := rw.perRepoHealthMetrics(ctx, sets)
	score := analyze.HealthScore(aggregateHealthMetrics(metrics))

	writeActionItems(w, score, metrics)
	formatFooter(w, score)

	return w.String(), Stats{Commits: len(commits), Repos: len(sets)}, nil
}

func (rw *Weekly) perRepoHealthMetrics(ctx context.Context, sets []RepoCommits) []model.HealthMetrics {
	metrics := make([]model.HealthMetrics, 0, len(sets))

	for _, s := range sets {
		if src := findSource(rw.Sources, s.Repo.ID); src != nil {
			metrics = append(metrics, rw.healthMetricsFor(ctx, *src, s.Commits, rw.Exclude))
		}
	}

	return metrics
}

// writeProductivityRanking ranks authors by a composite of commits, lines
// added, and repositories touched, each normalized to the run's maximum
// (spec §4.3.b).
func writeProductivityRanking(w *mdWriter, authors map[string]*model.AuthorAggregate) {
	w.heading(2, "Productivity Ranking")

	maxCommits, maxAdded, maxRepos := 1, 1, 1

	for _, a := range authors {
		maxCommits = maxInt(maxCommits, a.CommitCount)
		maxAdded = maxInt(maxAdded, a.Added)
		maxRepos = maxInt(maxRepos, len(a.RepoSet))
	}

	type ranked struct {
		name  string
		score float64
		a     *model.AuthorAggregate
	}

	items := make([]ranked, 0, len(authors))

	for name, a := range authors {
		score := 0.30*float64(a.CommitCount)/float64(maxCommits) +
			0.50*float64(a.Added)/float64(maxAdded) +
			0.20*float64(len(a.RepoSet))/float64(maxRepos)

		items = append(items, ranked{name: name, score: score, a: a})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}

		return items[i].name < items[j].name
	})

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.name,
			fmt.Sprintf("%.3f", it.score),
			numfmt.Int(it.a.CommitCount),
			numfmt.Signed(it.a.Net()),
			numfmt.Int(len(it.a.RepoSet)),
		})
	}

	w.table([]string{"Author", "Score", "Commits", "Net lines", "Repos"}, rows)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// writeQualitySection covers large/tiny commits, message quality, and the
// file hot-list across every configured repository's commits.
func writeQualitySection(w *mdWriter, b *Base, commits []model.Commit, exclude config.AnalysisConfig) {
	w.heading(2, "Quality")

	large := analyze.LargeCommitCount(commits, b.Thresholds.LargeCommit)
	tiny := countTiny(commits, orDefault(b.Thresholds.TinyCommit, 5))
	quality := analyze.MessageQuality(commits)

	rows := [][]string{
		{"Large commits", numfmt.Int(large)},
		{"Tiny commits", numfmt.Int(tiny)},
		{"Message quality", numfmt.Percent(quality)},
	}

	w.table([]string{"Metric", "Value"}, rows)

	churn := analyze.Churn(commits, orDefault(b.Thresholds.ChurnCount, 3))
	if len(churn.Files) == 0 {
		w.para("No file hot-list this period.")
		return
	}

	w.heading(3, "File Hot-List")

	top := analyze.TopN(churn.Files, 10, func(x, y analyze.ChurnFile) bool { return x.ModifyCount > y.ModifyCount })

	hotRows := make([][]string, 0, len(top))
	for _, f := range top {
		hotRows = append(hotRows, []string{f.Path, numfmt.Int(f.ModifyCount), numfmt.Int(len(f.Authors))})
	}

	w.table([]string{"File", "Modifications", "Authors"}, hotRows)
}

func countTiny(commits []model.Commit, ceiling int) int {
	n := 0

	for _, c := range commits {
		if c.Lines() > 0 && c.Lines() < ceiling {
			n++
		}
	}

	return n
}

// writeHourHistogram tallies commits into the seven fixed hour bands.
func writeHourHistogram(w *mdWriter, commits []model.Commit) {
	w.heading(2, "Time-of-Day Activity")

	counts := make([]int, len(hourBands))

	for _, c := range commits {
		hour := c.Timestamp.Hour()

		for i, band := range hourBands {
			if hour >= band.startHour && hour < band.endHourExc {
				counts[i]++

				break
			}
		}
	}

	rows := make([][]string, 0, len(hourBands))
	for i, band := range hourBands {
		rows = append(rows, []string{band.label, numfmt.Int(counts[i])})
	}

	w.table([]string{"Hour band", "Commits"}, rows)
}

// writeActionItems derives three prioritized recommendations from the
// aggregated health metrics.
func writeActionItems(w *mdWriter, score model.HealthScore, perRepo []model.HealthMetrics) {
	w.heading(2, "Action Items")

	agg := aggregateHealthMetrics(perRepo)

	items := make([]string, 0, 3)

	if agg.ChurnRate > 10 {
		items = append(items, fmt.Sprintf("Reduce churn on frequently rewritten files (rate %s).", numfmt.Percent(agg.ChurnRate)))
	}

	if agg.ReworkRate > 15 {
		items = append(items, fmt.Sprintf("Investigate rework (rate %s) — recently added code is being redone quickly.", numfmt.Percent(agg.ReworkRate)))
	}

	if agg.MessageQuality < 60 {
		items = append(items, "Improve commit message quality; adopt conventional-commit prefixes.")
	}

	if agg.LateNightCount+agg.WeekendCount > 0 {
		items = append(items, fmt.Sprintf("Review %d off-hours commits for burnout risk.", agg.LateNightCount+agg.WeekendCount))
	}

	if agg.HighRiskFiles > 0 {
		items = append(items, fmt.Sprintf("Schedule refactors for %d high-risk files.", agg.HighRiskFiles))
	}

	if len(items) == 0 {
		items = append(items, "No action items — health score "+fmt.Sprintf("%d/100.", score.Score))
	}

	if len(items) > 3 {
		items = items[:3]
	}

	for _, item := range items {
		w.line("- " + item)
	}

	w.line("")
}
