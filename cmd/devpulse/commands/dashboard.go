package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/pkg/observability"
	"github.com/devpulse/devpulse/render/dashboard"
	"github.com/devpulse/devpulse/reporter"
)

// NewDashboardCommand builds the `dashboard` verb (spec §6): generate one
// dashboard preset (--days N) or, by default, every preset in
// dashboard.Presets (spec §4.4.c).
func NewDashboardCommand(rootFlags *RootFlags) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Generate the dashboard (one preset window, or all)",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := NewApp(rootFlags.Config, rootFlags.Output)
			if err != nil {
				return err
			}
			defer app.Close()

			return runDashboard(app, days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "preset window in days (7, 14, 30, 60, 90); 0 generates every preset")

	return cmd
}

func runDashboard(app *App, days int) error {
	ctx, cancel := defaultRunContext()
	defer cancel()

	ctx, span := app.Obs.Tracer.Start(ctx, "devpulse.report.dashboard",
		trace.WithAttributes(attribute.Int("dashboard.days", days)))
	defer span.End()

	hitsBefore, missBefore := app.cacheStats()

	now := time.Now()

	earliest, err := earliestDailyReport(app.OutputRoot)
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return err
	}

	allWindow := model.TimeWindow{Start: time.Time{}, End: now}
	commits := reporter.AllCommitsTagged(ctx, app.Base, allWindow)

	tagged := make([]dashboard.TaggedCommit, 0, len(commits))
	for _, c := range commits {
		tagged = append(tagged, dashboard.TaggedCommit{Commit: c.Commit, RepoID: c.RepoID})
	}

	scores := dailyScoresSince(ctx, app, earliest, now)

	in := dashboard.Input{
		ProjectName:   app.Cfg.Project.Name,
		EarliestDaily: earliest,
		Commits:       tagged,
		DailyScores:   scores,
		Latest:        latestReports(app.OutputRoot),
	}

	files, err := dashboard.Build(in)
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return fmt.Errorf("build dashboard: %w", err)
	}

	outDir := filepath.Join(app.OutputRoot, "dashboard")
	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return fmt.Errorf("create dashboard dir: %w", err)
	}

	var bytesWritten int64

	for _, p := range dashboard.Presets {
		if days != 0 && p.Days != days {
			continue
		}

		content, ok := files["dashboard-"+p.Label+".html"]
		if !ok {
			continue
		}

		path := filepath.Join(outDir, diskName(p.Label))
		if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
			observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
			return fmt.Errorf("write %s: %w", path, err)
		}

		bytesWritten += int64(len(content))
	}

	app.recordRun(ctx, reporter.Stats{Commits: len(tagged), Repos: len(app.Base.Sources)}, hitsBefore, missBefore, bytesWritten)

	return nil
}

// diskName maps a preset label to the filesystem layout spec §6 names: the
// default 7-day preset is "index.html"; every other preset is
// "index-<label>.html".
func diskName(label string) string {
	if label == "7d" {
		return "index.html"
	}

	return "index-" + label + ".html"
}

// dailyScoresSince computes one HealthScore per calendar day from earliest
// to now, the health-score trend line's data (spec §4.4.c). earliest being
// zero (no daily reports on disk yet) yields an empty trend rather than
// scanning an unbounded range.
func dailyScoresSince(ctx context.Context, app *App, earliest, now time.Time) []dashboard.DailyScore {
	if earliest.IsZero() {
		return nil
	}

	var scores []dashboard.DailyScore

	for d := earliest; !d.After(now); d = d.AddDate(0, 0, 1) {
		score := reporter.DailyHealthScore(ctx, app.Base, d, time.Local, app.Cfg.Analysis)
		scores = append(scores, dashboard.DailyScore{Date: d, Score: score.Score})
	}

	return scores
}

// earliestDailyReport returns the date of the oldest daily report file
// present on disk, or the zero time if none exist (spec §4.4.c "measured
// from the earliest dated daily report file present").
func earliestDailyReport(outputRoot string) (time.Time, error) {
	dir := filepath.Join(outputRoot, reportDirs.Daily)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}

		return time.Time{}, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var earliest time.Time

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}

		base := strings.TrimSuffix(e.Name(), ".md")

		t, err := time.ParseInLocation("2006-01-02", base, time.Local)
		if err != nil {
			continue
		}

		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}

	return earliest, nil
}

// latestReports finds the newest report file of each kind present on disk.
func latestReports(outputRoot string) dashboard.LatestReports {
	return dashboard.LatestReports{
		Daily:   latestIn(filepath.Join(outputRoot, reportDirs.Daily), "daily"),
		Weekly:  latestIn(filepath.Join(outputRoot, reportDirs.Weekly), "weekly"),
		Monthly: latestIn(filepath.Join(outputRoot, reportDirs.Monthly), "monthly"),
	}
}

func latestIn(dir, kind string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var best string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}

		if e.Name() > best {
			best = e.Name()
		}
	}

	if best == "" {
		return ""
	}

	return "../reports/" + kind + "/" + best
}
