package notifier

import (
	"fmt"
	"strings"

	"github.com/devpulse/devpulse/internal/numfmt"
)

// ReportKind names which of the three reporters produced the digest being
// formatted.
type ReportKind string

const (
	KindDaily   ReportKind = "daily"
	KindWeekly  ReportKind = "weekly"
	KindMonthly ReportKind = "monthly"
)

// Title returns the notification title for kind, matching the pattern
// original_source/src/notifiers/base.py's send_*_report methods use (a
// fixed title per report kind).
func Title(kind ReportKind) string {
	switch kind {
	case KindWeekly:
		return "Engineering health — weekly report"
	case KindMonthly:
		return "Engineering health — monthly report"
	default:
		return "Engineering health — daily report"
	}
}

// FormatMessage builds the short Markdown body sent to a notification
// channel: a headline score, the core counts, and up to three top
// contributors, scaled down from the full rendered report.
func FormatMessage(kind ReportKind, period string, d Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s** (%s)\n\n", Title(kind), period)
	fmt.Fprintf(&b, "Health score: **%d/100** (%s)\n\n", d.HealthScore, orDash(d.HealthLevel))
	fmt.Fprintf(&b, "- Commits: %s\n", numfmt.Int(d.Commits))
	fmt.Fprintf(&b, "- Active authors: %s\n", numfmt.Int(d.ActiveAuthors))

	if d.Repositories > 0 {
		fmt.Fprintf(&b, "- Repositories: %s\n", numfmt.Int(d.Repositories))
	}

	fmt.Fprintf(&b, "- Net lines: %s\n", numfmt.Signed(d.NetLines))

	if d.LateNightCommits+d.WeekendCommits+d.LargeCommits > 0 {
		fmt.Fprintf(&b, "- Late-night: %d · Weekend: %d · Large commits: %d\n",
			d.LateNightCommits, d.WeekendCommits, d.LargeCommits)
	}

	if len(d.TopContributors) > 0 {
		b.WriteString("\nTop contributors:\n")

		for i, c := range d.TopContributors {
			fmt.Fprintf(&b, "%d. %s — %s commits, %s net\n", i+1, c.Name, numfmt.Int(c.Commits), numfmt.Signed(c.NetLines))
		}
	}

	if len(d.AtMentions) > 0 {
		b.WriteString("\n")

		for _, m := range d.AtMentions {
			fmt.Fprintf(&b, "@%s ", m)
		}

		b.WriteString("\n")
	}

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
