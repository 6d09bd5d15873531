package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/devpulse/devpulse/pkg/observability"
	"github.com/devpulse/devpulse/reporter"
)

// NewWeeklyCommand builds the `weekly` verb (spec §6): emit one weekly
// report for --week (ISO 8601, YYYY-Www), defaulting to the current ISO
// week.
func NewWeeklyCommand(rootFlags *RootFlags) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Generate the weekly engineering-health report",
		RunE: func(_ *cobra.Command, _ []string) error {
			year, wk, err := parseISOWeekOrCurrent(week)
			if err != nil {
				return err
			}

			app, err := NewApp(rootFlags.Config, rootFlags.Output)
			if err != nil {
				return err
			}
			defer app.Close()

			return runWeekly(app, year, wk)
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "ISO week (YYYY-Www), defaults to the current week")

	return cmd
}

func runWeekly(app *App, year, week int) error {
	w := &reporter.Weekly{Base: app.Base, Exclude: app.Cfg.Analysis}

	ctx, cancel := defaultRunContext()
	defer cancel()

	name := fmt.Sprintf("%04d-W%02d", year, week)

	ctx, span := app.Obs.Tracer.Start(ctx, "devpulse.report.weekly",
		trace.WithAttributes(attribute.String("report.week", name)))
	defer span.End()

	hitsBefore, missBefore := app.cacheStats()

	md, stats, err := w.Generate(ctx, year, week, time.Local, time.Now())
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return fmt.Errorf("generate weekly report: %w", err)
	}

	title := fmt.Sprintf("Weekly Report — %s", name)

	bytesWritten, err := app.writeReport(reportDirs.Weekly, name, title, md)
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return err
	}

	app.recordRun(ctx, stats, hitsBefore, missBefore, bytesWritten)

	return nil
}

func parseISOWeekOrCurrent(s string) (year, week int, err error) {
	if s == "" {
		year, week = time.Now().ISOWeek()
		return year, week, nil
	}

	if _, scanErr := fmt.Sscanf(s, "%d-W%d", &year, &week); scanErr != nil {
		return 0, 0, fmt.Errorf("parse --week %q (want YYYY-Www): %w", s, scanErr)
	}

	return year, week, nil
}
