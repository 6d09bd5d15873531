package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// defaultRunTimeout bounds a single report-generation run's wall clock
// (spec §5 "a run respects a wall-clock deadline"). Provider calls below
// this orchestrator check it via ctx.Done() the same way a bounded worker
// pool would.
const defaultRunTimeout = 10 * time.Minute

// RootFlags are the persistent flags every subcommand reads.
type RootFlags struct {
	Config string
	Output string
}

// NewRootCommand builds the `devpulse` root command and its seven verbs
// (spec §6).
func NewRootCommand() *cobra.Command {
	flags := &RootFlags{}

	root := &cobra.Command{
		Use:   "devpulse",
		Short: "Engineering-health metrics over commit history",
		Long: `devpulse ingests commit history from one or more repositories,
computes churn, rework, hotspot, and health-score metrics over bounded time
windows, and emits Markdown reports, rendered HTML, and a static dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.Config, "config", "", "path to the devpulse config file")
	root.PersistentFlags().StringVar(&flags.Output, "output", ".", "root directory the reports/ and dashboard/ trees are written under")

	root.AddCommand(
		NewDailyCommand(flags),
		NewWeeklyCommand(flags),
		NewMonthlyCommand(flags),
		NewNotifyCommand(flags),
		NewHTMLCommand(flags),
		NewDashboardCommand(flags),
		NewBackfillCommand(flags),
	)

	return root
}

// defaultRunContext returns a context bounded by defaultRunTimeout, the
// per-run deadline spec §5 requires.
func defaultRunContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultRunTimeout)
}
