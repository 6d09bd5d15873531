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

// NewMonthlyCommand builds the `monthly` verb (spec §6): emit one monthly
// report for --month (YYYY-MM), defaulting to the current calendar month.
func NewMonthlyCommand(rootFlags *RootFlags) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Generate the monthly engineering-health report",
		RunE: func(_ *cobra.Command, _ []string) error {
			year, mo, err := parseMonthOrCurrent(month)
			if err != nil {
				return err
			}

			app, err := NewApp(rootFlags.Config, rootFlags.Output)
			if err != nil {
				return err
			}
			defer app.Close()

			return runMonthly(app, year, mo)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "report month (YYYY-MM), defaults to the current month")

	return cmd
}

func runMonthly(app *App, year int, month time.Month) error {
	m := &reporter.Monthly{Base: app.Base, Exclude: app.Cfg.Analysis}

	ctx, cancel := defaultRunContext()
	defer cancel()

	name := fmt.Sprintf("%04d-%02d", year, int(month))

	ctx, span := app.Obs.Tracer.Start(ctx, "devpulse.report.monthly",
		trace.WithAttributes(attribute.String("report.month", name)))
	defer span.End()

	hitsBefore, missBefore := app.cacheStats()

	md, stats, err := m.Generate(ctx, year, month, time.Local, time.Now())
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return fmt.Errorf("generate monthly report: %w", err)
	}

	title := fmt.Sprintf("Monthly Report — %s %d", month.String(), year)

	bytesWritten, err := app.writeReport(reportDirs.Monthly, name, title, md)
	if err != nil {
		observability.RecordSpanError(span, err, observability.ErrTypeInternal, observability.ErrSourceServer)
		return err
	}

	app.recordRun(ctx, stats, hitsBefore, missBefore, bytesWritten)

	return nil
}

func parseMonthOrCurrent(s string) (int, time.Month, error) {
	if s == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}

	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse --month %q (want YYYY-MM): %w", s, err)
	}

	return t.Year(), t.Month(), nil
}
