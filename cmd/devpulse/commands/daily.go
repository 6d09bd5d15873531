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

// NewDailyCommand builds the `daily` verb (spec §6): emit one daily report
// for --date, defaulting to today in local time.
func NewDailyCommand(rootFlags *RootFlags) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Generate the daily engineering-health report",
		RunE: func(_ *cobra.Command, _ []string) error {
			at, err := parseDateOrToday(date)
			if err != nil {
				return err
			}

			app, err := NewApp(rootFlags.Config, rootFlags.Output)
			if err != nil {
				return err
			}
			defer app.Close()

			return runDaily(app, at)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "report date (YYYY-MM-DD), defaults to today")

	return cmd
}

func runDaily(app *App, at time.Time) error {
	d := &reporter.Daily{Base: app.Base, Exclude: app.Cfg.Analysis}

	ctx, cancel := defaultRunContext()
	defer cancel()

	ctx, span := app.Obs.Tracer.Start(ctx, "devpulse.report.daily",
		trace.WithAttributes(attribute.String("report.date", at.Format("2006-01-02"))))
	defer span.End()

	hitsBefore, missBefore := app.cacheStats()

	md, stats, err := d.Generate(ctx, at, time.Local, time.Now())
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return fmt.Errorf("generate daily report: %w", err)
	}

	name := at.Format("2006-01-02")
	title := fmt.Sprintf("Daily Report — %s", name)

	bytesWritten, err := app.writeReport(reportDirs.Daily, name, title, md)
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return err
	}

	app.recordRun(ctx, stats, hitsBefore, missBefore, bytesWritten)

	return nil
}

func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}

	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --date %q: %w", s, err)
	}

	return t, nil
}
