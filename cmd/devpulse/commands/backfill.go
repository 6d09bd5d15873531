package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/reporter"
)

// NewBackfillCommand builds the `backfill` verb (spec §6): iterate dates
// (and ISO weeks) from --from, or the earliest observed commit when --from
// is empty, to today, invoking the matching reporter once per missing
// file.
func NewBackfillCommand(rootFlags *RootFlags) *cobra.Command {
	var (
		from       string
		dailyOnly  bool
		weeklyOnly bool
		dryRun     bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill in every missing daily/weekly report between --from and today",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := NewApp(rootFlags.Config, rootFlags.Output)
			if err != nil {
				return err
			}
			defer app.Close()

			start, err := resolveBackfillStart(app, from)
			if err != nil {
				return err
			}

			if !dryRun && !yes {
				return errBackfillNeedsConfirmation
			}

			return runBackfill(app, start, dailyOnly, weeklyOnly, dryRun)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "earliest date to backfill from (YYYY-MM-DD); defaults to the earliest commit observed")
	cmd.Flags().BoolVar(&dailyOnly, "daily-only", false, "only backfill daily reports")
	cmd.Flags().BoolVar(&weeklyOnly, "weekly-only", false, "only backfill weekly reports")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be generated without writing files")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm generating reports (required unless --dry-run)")

	return cmd
}

// errBackfillNeedsConfirmation guards against an unattended backfill
// silently regenerating a potentially large number of reports.
var errBackfillNeedsConfirmation = fmt.Errorf("backfill: pass --yes to proceed, or --dry-run to preview")

func resolveBackfillStart(app *App, from string) (time.Time, error) {
	if from != "" {
		return parseDateOrToday(from)
	}

	var earliest time.Time

	window := model.TimeWindow{End: time.Now()}
	for _, tc := range reporter.AllCommitsTagged(context.Background(), app.Base, window) {
		if earliest.IsZero() || tc.Commit.Timestamp.Before(earliest) {
			earliest = tc.Commit.Timestamp
		}
	}

	if !earliest.IsZero() {
		return earliest, nil
	}

	return time.Now().AddDate(0, -1, 0), nil
}

func runBackfill(app *App, start time.Time, dailyOnly, weeklyOnly, dryRun bool) error {
	now := time.Now()

	if !weeklyOnly {
		for d := start; !d.After(now); d = d.AddDate(0, 0, 1) {
			name := d.Format("2006-01-02")
			if app.reportExists(reportDirs.Daily, name) {
				continue
			}

			if dryRun {
				fmt.Printf("would generate daily %s\n", name)
				continue
			}

			if err := runDaily(app, d); err != nil {
				return fmt.Errorf("backfill daily %s: %w", name, err)
			}
		}
	}

	if !dailyOnly {
		seen := make(map[string]bool)

		for d := start; !d.After(now); d = d.AddDate(0, 0, 1) {
			year, week := d.ISOWeek()

			name := fmt.Sprintf("%04d-W%02d", year, week)
			if seen[name] {
				continue
			}

			seen[name] = true

			if app.reportExists(reportDirs.Weekly, name) {
				continue
			}

			if dryRun {
				fmt.Printf("would generate weekly %s\n", name)
				continue
			}

			if err := runWeekly(app, year, week); err != nil {
				return fmt.Errorf("backfill weekly %s: %w", name, err)
			}
		}
	}

	return nil
}
