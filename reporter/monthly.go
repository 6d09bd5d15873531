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

// Monthly assembles the monthly report (spec §4.3.c): core totals, top-10
// contributors, per-repository contribution, weekly trend, health metrics,
// commit-size distribution, file hot-list, recommendations.
type Monthly struct {
	*Base
	Exclude config.AnalysisConfig
}

// Generate builds the Markdown report for the calendar month (year, month)
// in loc.
func (m *Monthly) Generate(ctx context.Context, year int, month time.Month, loc *time.Location, generatedAt time.Time) (string, Stats, error) {
	window := model.MonthWindow(year, month, loc)
	sets := m.FetchAll(ctx, window)
	commits := allCommits(sets)

	w := &mdWriter{}
	title := fmt.Sprintf("Monthly Report — %s %d", month.String(), year)
	formatHeader(w, title, m.ProjectName, generatedAt)

	writeCoreTotals(w, sets, commits)
	writeTopContributors(w, buildAuthorAggregates(sets))
	writeRepoContribution(w, buildRepoAggregates(sets))
	writeWeeklyTrend(w, commits)
	writeSizeDistribution(w, commits)

	metrics := m.perRepoHealthMetrics(ctx, sets)
	agg := aggregateHealthMetrics(metrics)
	score := analyze.HealthScore(agg)

	writeMonthlyHotList(w, commits, m.Thresholds)
	writeRecommendations(w, agg)
	formatFooter(w, score)

	return w.String(), Stats{Commits: len(commits), Repos: len(sets)}, nil
}

func (m *Monthly) perRepoHealthMetrics(ctx context.Context, sets []RepoCommits) []model.HealthMetrics {
	metrics := make([]model.HealthMetrics, 0, len(sets))

	for _, s := range sets {
		if src := findSource(m.Sources, s.Repo.ID); src != nil {
			metrics = append(metrics, m.healthMetricsFor(ctx, *src, s.Commits, m.Exclude))
		}
	}

	return metrics
}

func writeCoreTotals(w *mdWriter, sets []RepoCommits, commits []model.Commit) {
	w.heading(2, "Core Totals")

	added, deleted := 0, 0
	for _, c := range commits {
		added += c.Added()
		deleted += c.Deleted()
	}

	authors := buildAuthorAggregates(sets)

	rows := [][]string{
		{"Repositories", numfmt.Int(len(sets))},
		{"Authors", numfmt.Int(len(authors))},
		{"Commits", numfmt.Int(len(commits))},
		{"Lines added", numfmt.Signed(added)},
		{"Lines deleted", numfmt.Signed(-deleted)},
		{"Net", numfmt.Signed(added - deleted)},
	}

	w.table([]string{"Metric", "Value"}, rows)
}

func writeTopContributors(w *mdWriter, authors map[string]*model.AuthorAggregate) {
	w.heading(2, "Top Contributors")

	type entry struct {
		name string
		a    *model.AuthorAggregate
	}

	items := make([]entry, 0, len(authors))
	for name, a := range authors {
		items = append(items, entry{name: name, a: a})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].a.CommitCount != items[j].a.CommitCount {
			return items[i].a.CommitCount > items[j].a.CommitCount
		}

		return items[i].name < items[j].name
	})

	if len(items) > 10 {
		items = items[:10]
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.name,
			numfmt.Int(it.a.CommitCount),
			numfmt.Signed(it.a.Net()),
			numfmt.Int(len(it.a.RepoSet)),
		})
	}

	w.table([]string{"Author", "Commits", "Net lines", "Repos"}, rows)
}

func writeRepoContribution(w *mdWriter, repos []*model.RepoAggregate) {
	w.heading(2, "Per-Repository Contribution")

	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, []string{
			r.RepoID,
			numfmt.Int(r.CommitCount),
			numfmt.Signed(r.Net()),
			numfmt.Int(len(r.AuthorSet)),
		})
	}

	w.table([]string{"Repository", "Commits", "Net lines", "Authors"}, rows)
}

// writeWeeklyTrend groups commits by ISO (year, week) and emits one row per
// week-of-month, ordered chronologically.
func writeWeeklyTrend(w *mdWriter, commits []model.Commit) {
	w.heading(2, "Weekly Trend")

	type weekKey struct {
		year, week int
	}

	counts := make(map[weekKey]int)

	for _, c := range commits {
		y, wk := c.Timestamp.ISOWeek()
		counts[weekKey{year: y, week: wk}]++
	}

	keys := make([]weekKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}

		return keys[i].week < keys[j].week
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{fmt.Sprintf("%d-W%02d", k.year, k.week), numfmt.Int(counts[k])})
	}

	w.table([]string{"Week", "Commits"}, rows)
}

// writeSizeDistribution buckets commits into small (<50 lines),
// medium (50-200), and large (>200).
func writeSizeDistribution(w *mdWriter, commits []model.Commit) {
	w.heading(2, "Commit-Size Distribution")

	small, medium, large := 0, 0, 0

	for _, c := range commits {
		switch lines := c.Lines(); {
		case lines < 50:
			small++
		case lines <= 200:
			medium++
		default:
			large++
		}
	}

	rows := [][]string{
		{"Small (<50)", numfmt.Int(small)},
		{"Medium (50-200)", numfmt.Int(medium)},
		{"Large (>200)", numfmt.Int(large)},
	}

	w.table([]string{"Bucket", "Commits"}, rows)
}

func writeMonthlyHotList(w *mdWriter, commits []model.Commit, th config.ThresholdsConfig) {
	w.heading(2, "File Hot-List")

	churn := analyze.Churn(commits, orDefault(th.ChurnCount, 3))
	if len(churn.Files) == 0 {
		w.para("No file hot-list this period.")
		return
	}

	top := analyze.TopN(churn.Files, 10, func(x, y analyze.ChurnFile) bool { return x.ModifyCount > y.ModifyCount })

	rows := make([][]string, 0, len(top))
	for _, f := range top {
		rows = append(rows, []string{f.Path, numfmt.Int(f.ModifyCount), numfmt.Int(len(f.Authors))})
	}

	w.table([]string{"File", "Modifications", "Authors"}, rows)
}

// writeRecommendations keys three recommendations off the aggregated
// ratios, for the next month.
func writeRecommendations(w *mdWriter, agg model.HealthMetrics) {
	w.heading(2, "Recommendations for Next Month")

	if agg.ChurnRate > 30 {
		w.line("- Churn rate is critically high; freeze risky files behind review gates.")
	} else if agg.ChurnRate > 10 {
		w.line("- Churn rate trending up; pair-review the hottest files.")
	}

	if agg.ReworkRate > 30 {
		w.line("- Rework rate is critically high; slow down on features touching recently added code.")
	} else if agg.ReworkRate > 15 {
		w.line("- Rework rate elevated; budget time for design review before large additions.")
	}

	if agg.HighRiskFiles > 0 {
		w.line(fmt.Sprintf("- %d files are high-risk; prioritize them for refactor next month.", agg.HighRiskFiles))
	}

	w.line("")
}
