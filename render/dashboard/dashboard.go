// Package dashboard builds the per-preset-window HTML dashboards (spec
// §4.4.c): headline counters, seven go-echarts charts with inlined data, and
// a subtitle that lists the supported time-range presets and the names of
// the latest reports on disk as plain text (not links). Built on
// pkg/render/plotpage, the teacher's chart-page wrapper.
package dashboard

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/pkg/render/plotpage"
)

// Preset is one supported dashboard window.
type Preset struct {
	Label string // "7d", "14d", ..., "all"
	Days  int    // 0 for "all"
}

// Presets is the fixed preset list spec §4.4.c names.
var Presets = []Preset{
	{Label: "7d", Days: 7},
	{Label: "14d", Days: 14},
	{Label: "30d", Days: 30},
	{Label: "60d", Days: 60},
	{Label: "90d", Days: 90},
	{Label: "all", Days: 0},
}

// LatestReports links to the newest report of each kind actually present on
// disk, empty when none exist.
type LatestReports struct {
	Daily   string
	Weekly  string
	Monthly string
}

// TaggedCommit is a commit annotated with the repository it belongs to, the
// only fact model.Commit itself does not carry (spec §3).
type TaggedCommit struct {
	model.Commit
	RepoID string
}

// DailyScore is one day's health score, the health-trend line's data point.
type DailyScore struct {
	Date  time.Time
	Score int
}

// Input is the full-history data a dashboard is built from, gathered once
// per run and sliced to each preset's window by Build.
type Input struct {
	ProjectName   string
	EarliestDaily time.Time // earliest dated daily report file present on disk; zero if none.
	Commits       []TaggedCommit
	DailyScores   []DailyScore
	Latest        LatestReports
}

// redirectHTML is the fixed redirect page emitted for a preset whose window
// exceeds the project's actual history (spec §8 B3/E6).
const redirectHTML = `<!DOCTYPE html><html><head><meta charset="utf-8"><meta http-equiv="refresh" content="0; url=dashboard-all.html"><title>Redirecting</title></head><body>Not enough history yet; redirecting to <a href="dashboard-all.html">the all-time dashboard</a>.</body></html>`

// Build renders every preset's dashboard file, returning a map of filename
// (e.g. "dashboard-7d.html") to HTML content.
func Build(in Input) (map[string]string, error) {
	out := make(map[string]string, len(Presets))

	for _, p := range Presets {
		name := "dashboard-" + p.Label + ".html"

		if p.Days > 0 && !historyCovers(in.EarliestDaily, p.Days) {
			out[name] = redirectHTML

			continue
		}

		html, err := buildOne(in, p)
		if err != nil {
			return nil, fmt.Errorf("build dashboard %s: %w", p.Label, err)
		}

		out[name] = html
	}

	return out, nil
}

// SupportedPresets returns the labels of presets whose window the project's
// history actually covers, for the dashboard's time-range selector.
func SupportedPresets(earliestDaily time.Time) []string {
	labels := make([]string, 0, len(Presets))

	for _, p := range Presets {
		if p.Days == 0 || historyCovers(earliestDaily, p.Days) {
			labels = append(labels, p.Label)
		}
	}

	return labels
}

func historyCovers(earliest time.Time, days int) bool {
	if earliest.IsZero() {
		return false
	}

	return time.Since(earliest) >= time.Duration(days)*24*time.Hour
}

func buildOne(in Input, p Preset) (string, error) {
	window := windowFor(in, p)
	commits := commitsInWindow(in.Commits, window)
	scores := scoresInWindow(in.DailyScores, window)
	supported := SupportedPresets(in.EarliestDaily)

	page := plotpage.NewPage(in.ProjectName+" — "+p.Label, selectorSubtitle(supported, in.Latest))
	page.Add(headlineSection(commits, scores))
	page.Add(healthTrendSection(scores))
	page.Add(commitsPerDaySection(commits))
	page.Add(linesAreaSection(commits))
	page.Add(topAuthorsByCommitsSection(commits))
	page.Add(topAuthorsByNetLinesSection(commits))
	page.Add(reposPieSection(commits))
	page.Add(hourOfDaySection(commits))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "", fmt.Errorf("render dashboard page: %w", err)
	}

	return buf.String(), nil
}

func selectorSubtitle(supported []string, latest LatestReports) string {
	return fmt.Sprintf("Windows: %v · latest daily: %s · latest weekly: %s · latest monthly: %s",
		supported, orNone(latest.Daily), orNone(latest.Weekly), orNone(latest.Monthly))
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}

	return s
}

func windowFor(in Input, p Preset) model.TimeWindow {
	end := time.Now()

	if p.Days == 0 {
		start := in.EarliestDaily
		if start.IsZero() {
			start = end
		}

		return model.TimeWindow{Start: start, End: end}
	}

	return model.TimeWindow{Start: end.AddDate(0, 0, -p.Days), End: end}
}

func commitsInWindow(commits []TaggedCommit, w model.TimeWindow) []TaggedCommit {
	out := make([]TaggedCommit, 0, len(commits))

	for _, c := range commits {
		if w.Contains(c.Timestamp) {
			out = append(out, c)
		}
	}

	return out
}

func scoresInWindow(scores []DailyScore, w model.TimeWindow) []DailyScore {
	out := make([]DailyScore, 0, len(scores))

	for _, s := range scores {
		if w.Contains(s.Date) {
			out = append(out, s)
		}
	}

	return out
}

func headlineSection(commits []TaggedCommit, scores []DailyScore) plotpage.Section {
	authors := make(map[string]struct{})
	net := 0

	for _, c := range commits {
		authors[c.AuthorName] = struct{}{}
		net += c.Net()
	}

	avgScore := 0
	if len(scores) > 0 {
		sum := 0
		for _, s := range scores {
			sum += s.Score
		}

		avgScore = sum / len(scores)
	}

	return plotpage.Section{
		Title:    "Headline",
		Subtitle: fmt.Sprintf("%d commits · %d active authors · %+d net lines · avg health %d/100", len(commits), len(authors), net, avgScore),
	}
}

func healthTrendSection(scores []DailyScore) plotpage.Section {
	labels := make([]string, len(scores))
	data := make([]plotpage.SeriesData, len(scores))

	for i, s := range scores {
		labels[i] = s.Date.Format("01-02")
		data[i] = s.Score
	}

	line := plotpage.BuildLineChart(nil, labels, []plotpage.LineSeries{{Name: "Health score", Data: data}}, "score")

	return plotpage.Section{Title: "Health score trend", Chart: line}
}

func commitsPerDaySection(commits []TaggedCommit) plotpage.Section {
	byDay := make(map[string]int)

	for _, c := range commits {
		byDay[c.Timestamp.Format("2006-01-02")]++
	}

	labels := sortedKeys(byDay)
	data := make([]plotpage.SeriesData, len(labels))

	for i, day := range labels {
		data[i] = byDay[day]
	}

	bar := plotpage.BuildBarChart(nil, labels, []plotpage.BarSeries{{Name: "Commits", Data: data}}, "commits")

	return plotpage.Section{Title: "Commits per day", Chart: bar}
}

func linesAreaSection(commits []TaggedCommit) plotpage.Section {
	addedByDay := make(map[string]int)
	deletedByDay := make(map[string]int)

	for _, c := range commits {
		day := c.Timestamp.Format("2006-01-02")
		addedByDay[day] += c.Added()
		deletedByDay[day] += c.Deleted()
	}

	labels := sortedKeysUnion(addedByDay, deletedByDay)

	addedData := make([]plotpage.SeriesData, len(labels))
	deletedData := make([]plotpage.SeriesData, len(labels))

	for i, day := range labels {
		addedData[i] = addedByDay[day]
		deletedData[i] = deletedByDay[day]
	}

	line := plotpage.BuildLineChart(nil, labels, []plotpage.LineSeries{
		{Name: "Added", Data: addedData, AreaOpacity: 0.3},
		{Name: "Deleted", Data: deletedData, AreaOpacity: 0.3},
	}, "lines")

	return plotpage.Section{Title: "Lines added / deleted", Chart: line}
}

func topAuthorsByCommitsSection(commits []TaggedCommit) plotpage.Section {
	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.AuthorName]++
	}

	labels, values := topN(counts, 10)

	return plotpage.Section{Title: "Top authors by commits", Chart: horizontalBar(labels, values, "Commits")}
}

func topAuthorsByNetLinesSection(commits []TaggedCommit) plotpage.Section {
	net := make(map[string]int)
	for _, c := range commits {
		net[c.AuthorName] += c.Net()
	}

	labels, values := topN(net, 10)

	return plotpage.Section{Title: "Top authors by net lines", Chart: horizontalBar(labels, values, "Net lines")}
}

// horizontalBar builds a horizontal bar chart (categories on the vertical
// axis, values along the horizontal), the layout go-echarts'
// Bar.XYReversal produces.
func horizontalBar(labels []string, values []int, seriesName string) *charts.Bar {
	bar := charts.NewBar()
	bar.XYReversal()
	bar.SetXAxis(labels)

	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	bar.AddSeries(seriesName, data)

	return bar
}

func reposPieSection(commits []TaggedCommit) plotpage.Section {
	counts := make(map[string]int)

	for _, c := range commits {
		counts[c.RepoID]++
	}

	keys := sortedKeys(counts)

	items := make([]opts.PieData, 0, len(keys))
	for _, k := range keys {
		items = append(items, opts.PieData{Name: k, Value: counts[k]})
	}

	pie := charts.NewPie()
	pie.AddSeries("Repositories", items)

	return plotpage.Section{Title: "Repositories", Chart: pie}
}

func hourOfDaySection(commits []TaggedCommit) plotpage.Section {
	counts := make([]int, 24)

	for _, c := range commits {
		counts[c.Timestamp.Hour()]++
	}

	labels := make([]string, 24)
	data := make([]plotpage.SeriesData, 24)

	for h := 0; h < 24; h++ {
		labels[h] = fmt.Sprintf("%02d", h)
		data[h] = counts[h]
	}

	bar := plotpage.BuildBarChart(nil, labels, []plotpage.BarSeries{{Name: "Commits", Data: data}}, "commits")

	return plotpage.Section{Title: "Hour of day", Chart: bar}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func sortedKeysUnion(a, b map[string]int) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}

	for k := range b {
		set[k] = struct{}{}
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func topN(counts map[string]int, n int) ([]string, []int) {
	type kv struct {
		k string
		v int
	}

	items := make([]kv, 0, len(counts))
	for k, v := range counts {
		items = append(items, kv{k: k, v: v})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].v != items[j].v {
			return items[i].v > items[j].v
		}

		return items[i].k < items[j].k
	})

	if len(items) > n {
		items = items[:n]
	}

	labels := make([]string, len(items))
	values := make([]int, len(items))

	for i, it := range items {
		labels[i] = it.k
		values[i] = it.v
	}

	return labels, values
}
