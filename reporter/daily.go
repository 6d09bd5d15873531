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

// Daily assembles the daily report (spec §4.3.a): overview, code-change
// totals, risk alerts, health score, per-author detail.
type Daily struct {
	*Base
	Exclude config.AnalysisConfig
}

// Generate builds the Markdown report for the calendar day containing at,
// in loc, as of generatedAt.
func (d *Daily) Generate(ctx context.Context, at time.Time, loc *time.Location, generatedAt time.Time) (string, Stats, error) {
	window := model.DayWindow(at, loc)
	sets := d.FetchAll(ctx, window)
	commits := allCommits(sets)

	w := &mdWriter{}
	title := fmt.Sprintf("Daily Report — %s", window.Start.Format("2006-01-02"))
	formatHeader(w, title, d.ProjectName, generatedAt)

	writeDailyOverview(w, sets, commits)
	writeDailyTotals(w, commits)
	perRepoMetrics := writeDailyRiskAlerts(ctx, w, d.Base, sets, d.Exclude)
	writeDailyPerAuthor(w, sets)

	formatFooter(w, analyze.HealthScore(aggregateHealthMetrics(perRepoMetrics)))

	return w.String(), Stats{Commits: len(commits), Repos: len(sets)}, nil
}

func writeDailyOverview(w *mdWriter, sets []RepoCommits, commits []model.Commit) {
	w.heading(2, "Overview")

	authors := buildAuthorAggregates(sets)

	rows := [][]string{
		{"Repositories analyzed", numfmt.Int(len(sets))},
		{"Active authors", numfmt.Int(len(authors))},
		{"Commits", numfmt.Int(len(commits))},
	}

	w.table([]string{"Metric", "Value"}, rows)
}

func writeDailyTotals(w *mdWriter, commits []model.Commit) {
	w.heading(2, "Code Change Totals")

	added, deleted := 0, 0
	for _, c := range commits {
		added += c.Added()
		deleted += c.Deleted()
	}

	rows := [][]string{
		{"Lines added", numfmt.Signed(added)},
		{"Lines deleted", numfmt.Signed(-deleted)},
		{"Net", numfmt.Signed(added - deleted)},
	}

	w.table([]string{"Metric", "Value"}, rows)
}

// writeDailyRiskAlerts reports work-time anomalies and large commits per
// repository, returning each repository's HealthMetrics for the footer's
// aggregate score.
func writeDailyRiskAlerts(ctx context.Context, w *mdWriter, b *Base, sets []RepoCommits, exclude config.AnalysisConfig) []model.HealthMetrics {
	w.heading(2, "Risk Alerts")

	lateNight := b.lateNightWindow()
	overtime := b.overtimeWindow()

	metrics := make([]model.HealthMetrics, 0, len(sets))
	rows := make([][]string, 0)

	for _, s := range sets {
		counts := analyze.CountWorkTime(s.Commits, lateNight, overtime)
		largeCount := analyze.LargeCommitCount(s.Commits, b.Thresholds.LargeCommit)

		if counts.LateNight+counts.Weekend+largeCount > 0 {
			rows = append(rows, []string{
				s.Repo.DisplayName,
				numfmt.Int(counts.LateNight),
				numfmt.Int(counts.Weekend),
				numfmt.Int(largeCount),
			})
		}

		src := findSource(b.Sources, s.Repo.ID)
		if src != nil {
			metrics = append(metrics, b.healthMetricsFor(ctx, *src, s.Commits, exclude))
		}
	}

	if len(rows) == 0 {
		w.para("No anomalies detected.")
	} else {
		w.table([]string{"Repository", "Late-night commits", "Weekend commits", "Large commits"}, rows)
	}

	return metrics
}

func findSource(sources []RepoSource, repoID string) *RepoSource {
	for i := range sources {
		if sources[i].Repo.ID == repoID {
			return &sources[i]
		}
	}

	return nil
}

func writeDailyPerAuthor(w *mdWriter, sets []RepoCommits) {
	w.heading(2, "Per-Author Detail")

	authors := buildAuthorAggregates(sets)

	for _, name := range sortedAuthorNames(authors) {
		a := authors[name]
		w.heading(3, fmt.Sprintf("%s (%d commits, %s net lines)", name, a.CommitCount, numfmt.Signed(a.Net())))

		rows := make([][]string, 0)

		for _, s := range sets {
			for _, c := range s.Commits {
				if c.AuthorName != name {
					continue
				}

				rows = append(rows, []string{
					c.Timestamp.Format("15:04"),
					s.Repo.DisplayName,
					numfmt.Signed(c.Added()),
					numfmt.Signed(-c.Deleted()),
					c.Message,
				})
			}
		}

		sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

		w.table([]string{"Time", "Repository", "Added", "Deleted", "Message"}, rows)
	}
}
