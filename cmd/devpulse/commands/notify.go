package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/notifier"
)

// ErrUnknownReportKind is returned when notify's positional argument is not
// one of daily, weekly, monthly.
var ErrUnknownReportKind = errors.New("notify: unknown report kind")

// stdoutNotifier is the default notifier.Notifier: it prints the formatted
// message to stdout. The two real delivery channels (spec §1 "out of
// scope") are collaborators an operator wires in behind the same
// interface; this is the reference implementation for local use and CI
// logs.
type stdoutNotifier struct{}

func (stdoutNotifier) Send(title, markdownBody string, atMentions []string) error {
	fmt.Printf("--- %s ---\n%s\n", title, markdownBody)

	if len(atMentions) > 0 {
		fmt.Printf("(mentions: %s)\n", strings.Join(atMentions, ", "))
	}

	return nil
}

// NewNotifyCommand builds the `notify` verb (spec §6): read a rendered
// report and hand its extracted digest to the notifier.Notifier interface.
func NewNotifyCommand(rootFlags *RootFlags) *cobra.Command {
	var reportFile string

	cmd := &cobra.Command{
		Use:       "notify {daily|weekly|monthly}",
		Short:     "Send a rendered report's digest through the notifier interface",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"daily", "weekly", "monthly"},
		RunE: func(_ *cobra.Command, args []string) error {
			kind := notifier.ReportKind(args[0])
			if kind != notifier.KindDaily && kind != notifier.KindWeekly && kind != notifier.KindMonthly {
				return fmt.Errorf("%w: %q", ErrUnknownReportKind, args[0])
			}

			return runNotify(rootFlags.Output, kind, reportFile)
		},
	}

	cmd.Flags().StringVar(&reportFile, "report-file", "", "path to a specific rendered Markdown report; defaults to the latest of its kind")

	return cmd
}

func runNotify(outputRoot string, kind notifier.ReportKind, reportFile string) error {
	dir, name := dirAndPeriodFor(kind, outputRoot)

	path := reportFile
	if path == "" {
		base, ok := latestMarkdown(dir)
		if !ok {
			return fmt.Errorf("notify: no %s report found under %s", kind, dir)
		}

		path = filepath.Join(dir, base)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report %s: %w", path, err)
	}

	digest := notifier.ExtractDigest(string(raw))
	message := notifier.FormatMessage(kind, name, digest)

	var n notifier.Notifier = stdoutNotifier{}

	return n.Send(notifier.Title(kind), message, digest.AtMentions)
}

// latestMarkdown returns the lexicographically-last (and so, given the
// YYYY-MM-DD / YYYY-Www / YYYY-MM naming convention, most recent) .md
// filename in dir.
func latestMarkdown(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var best string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}

		if e.Name() > best {
			best = e.Name()
		}
	}

	return best, best != ""
}

func dirAndPeriodFor(kind notifier.ReportKind, outputRoot string) (dir, period string) {
	switch kind {
	case notifier.KindWeekly:
		return filepath.Join(outputRoot, reportDirs.Weekly), "this week"
	case notifier.KindMonthly:
		return filepath.Join(outputRoot, reportDirs.Monthly), "this month"
	default:
		return filepath.Join(outputRoot, reportDirs.Daily), "today"
	}
}
