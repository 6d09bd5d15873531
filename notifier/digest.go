package notifier

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// mdTable is one Markdown pipe table found in a report, tagged with the
// heading that precedes it.
type mdTable struct {
	heading string
	headers []string
	rows    [][]string
}

var (
	headingRe   = regexp.MustCompile(`^#{1,3}\s+(.+?)\s*$`)
	pipeRowRe   = regexp.MustCompile(`^\|.*\|\s*$`)
	separatorRe = regexp.MustCompile(`^\|[\s:|-]+\|\s*$`)
	scoreLineRe = regexp.MustCompile(`\*\*(\d+)/100\*\*\s*\(([^)]+)\)`)
)

// ExtractDigest scans a rendered Markdown report and pulls out the fields
// original_source/src/notifiers/base.py's three divergent
// _extract_*_data methods each computed by hand: this single table-driven
// parser covers daily, weekly, and monthly reports because all three share
// the same mdWriter table layout (reporter's formatHeader/formatFooter
// and each reporter's section writers).
func ExtractDigest(markdown string) Digest {
	tables := parseTables(markdown)

	d := Digest{MessageQuality: 100}

	applyTwoColumnTable(&d, findTable(tables, "Overview"), map[string]*int{
		"Repositories analyzed": &d.Repositories,
		"Active authors":        &d.ActiveAuthors,
		"Commits":                &d.Commits,
	})

	applyTwoColumnTable(&d, findTable(tables, "Core Totals"), map[string]*int{
		"Repositories": &d.Repositories,
		"Authors":      &d.ActiveAuthors,
		"Commits":      &d.Commits,
	})

	applyTwoColumnTable(&d, findTable(tables, "Code Change Totals"), map[string]*int{
		"Net": &d.NetLines,
	})

	applyTwoColumnTable(&d, findTable(tables, "Core Totals"), map[string]*int{
		"Net": &d.NetLines,
	})

	applyQualityTable(&d, findTable(tables, "Quality"))

	applyRiskAlerts(&d, findTable(tables, "Risk Alerts"))

	d.TopContributors = extractContributors(tables)

	if m := scoreLineRe.FindStringSubmatch(markdown); m != nil {
		d.HealthScore = atoiOr(m[1], 0)
		d.HealthLevel = m[2]
	}

	return d
}

func parseTables(markdown string) []mdTable {
	lines := strings.Split(markdown, "\n")

	var (
		tables     []mdTable
		heading    string
		inTable    bool
		cur        mdTable
	)

	flush := func() {
		if inTable && len(cur.rows) > 0 {
			tables = append(tables, cur)
		}

		inTable = false
		cur = mdTable{}
	}

	for _, line := range lines {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			heading = m[1]

			continue
		}

		if separatorRe.MatchString(line) {
			continue
		}

		if pipeRowRe.MatchString(line) {
			cells := splitRow(line)

			if !inTable {
				inTable = true
				cur = mdTable{heading: heading, headers: cells}

				continue
			}

			cur.rows = append(cur.rows, cells)

			continue
		}

		flush()
	}

	flush()

	return tables
}

func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	parts := strings.Split(trimmed, "|")
	out := make([]string, len(parts))

	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}

	return out
}

func findTable(tables []mdTable, heading string) *mdTable {
	for i := range tables {
		if tables[i].heading == heading {
			return &tables[i]
		}
	}

	return nil
}

func applyTwoColumnTable(_ *Digest, t *mdTable, targets map[string]*int) {
	if t == nil {
		return
	}

	for _, row := range t.rows {
		if len(row) < 2 {
			continue
		}

		if dst, ok := targets[row[0]]; ok {
			*dst = parseSignedInt(row[1])
		}
	}
}

func applyQualityTable(d *Digest, t *mdTable) {
	if t == nil {
		return
	}

	for _, row := range t.rows {
		if len(row) < 2 {
			continue
		}

		switch row[0] {
		case "Large commits":
			d.LargeCommits = parseSignedInt(row[1])
		case "Message quality":
			d.MessageQuality = parsePercent(row[1])
		}
	}
}

func applyRiskAlerts(d *Digest, t *mdTable) {
	if t == nil {
		return
	}

	lateIdx, weekendIdx, largeIdx := colIndex(t.headers, "Late-night commits"), colIndex(t.headers, "Weekend commits"), colIndex(t.headers, "Large commits")

	for _, row := range t.rows {
		if lateIdx >= 0 && lateIdx < len(row) {
			d.LateNightCommits += parseSignedInt(row[lateIdx])
		}

		if weekendIdx >= 0 && weekendIdx < len(row) {
			d.WeekendCommits += parseSignedInt(row[weekendIdx])
		}

		if largeIdx >= 0 && largeIdx < len(row) {
			d.LargeCommits += parseSignedInt(row[largeIdx])
		}
	}
}

// extractContributors reads the top rows of whichever ranking table the
// report carries: "Productivity Ranking" (weekly) or "Top Contributors"
// (monthly), falling back to none for daily reports (which rank per-author
// detail by heading, not by table).
func extractContributors(tables []mdTable) []Contributor {
	t := findTable(tables, "Productivity Ranking")
	if t == nil {
		t = findTable(tables, "Top Contributors")
	}

	if t == nil {
		return nil
	}

	nameIdx := colIndex(t.headers, "Author")
	commitsIdx := colIndex(t.headers, "Commits")
	netIdx := colIndex(t.headers, "Net lines")

	if nameIdx < 0 {
		return nil
	}

	out := make([]Contributor, 0, len(t.rows))

	for _, row := range t.rows {
		if nameIdx >= len(row) {
			continue
		}

		c := Contributor{Name: row[nameIdx]}

		if commitsIdx >= 0 && commitsIdx < len(row) {
			c.Commits = parseSignedInt(row[commitsIdx])
		}

		if netIdx >= 0 && netIdx < len(row) {
			c.NetLines = parseSignedInt(row[netIdx])
		}

		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Commits > out[j].Commits })

	const topContributorLimit = 3
	if len(out) > topContributorLimit {
		out = out[:topContributorLimit]
	}

	return out
}

func colIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}

	return -1
}

func parseSignedInt(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimSpace(s)

	return atoiOr(s, 0)
}

func parsePercent(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return v
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}

	return n
}
