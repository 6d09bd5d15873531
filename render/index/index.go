// Package index builds the site-wide index.html linking to the daily,
// weekly, and monthly reports actually present on disk (spec §4.4.b).
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dirs names the three report output directories, each scanned relative to
// a common output root.
type Dirs struct {
	Daily   string
	Weekly  string
	Monthly string
}

// Entry is one linkable report file.
type Entry struct {
	Label string
	Href  string
}

// Build scans dirs (resolved relative to root) as of now and returns the
// three entry lists: every daily report in now's calendar month, every
// weekly report in now's ISO year, and the previous month's monthly report
// if present.
func Build(root string, dirs Dirs, now time.Time) (dailies, weeklies []Entry, monthly *Entry, err error) {
	dailies, err = scanDaily(filepath.Join(root, dirs.Daily), now)
	if err != nil {
		return nil, nil, nil, err
	}

	weeklies, err = scanWeekly(filepath.Join(root, dirs.Weekly), now)
	if err != nil {
		return nil, nil, nil, err
	}

	monthly, err = previousMonthEntry(filepath.Join(root, dirs.Monthly), dirs.Monthly, now)
	if err != nil {
		return nil, nil, nil, err
	}

	return dailies, weeklies, monthly, nil
}

// filenameDate extracts the YYYY-MM-DD prefix from a report filename such
// as "2026-07-14.html", or ok=false if the prefix does not parse.
func filenameDate(name string) (time.Time, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	t, err := time.Parse("2006-01-02", base)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func scanDaily(dir string, now time.Time) ([]Entry, error) {
	entries, err := readHTMLFiles(dir)
	if err != nil {
		return nil, err
	}

	var out []Entry

	for _, name := range entries {
		d, ok := filenameDate(name)
		if !ok {
			continue
		}

		if d.Year() == now.Year() && d.Month() == now.Month() {
			out = append(out, Entry{Label: d.Format("2006-01-02"), Href: "daily/" + name})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label > out[j].Label })

	return out, nil
}

func scanWeekly(dir string, now time.Time) ([]Entry, error) {
	entries, err := readHTMLFiles(dir)
	if err != nil {
		return nil, err
	}

	nowYear, _ := now.ISOWeek()

	var out []Entry

	for _, name := range entries {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

		var year, week int
		if _, scanErr := fmt.Sscanf(base, "%d-W%d", &year, &week); scanErr != nil {
			continue
		}

		if year == nowYear {
			out = append(out, Entry{Label: base, Href: "weekly/" + name})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label > out[j].Label })

	return out, nil
}

// previousMonthEntry returns the monthly report for the calendar month
// before now, if the file is present on disk.
func previousMonthEntry(dir, dirName string, now time.Time) (*Entry, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	name := fmt.Sprintf("%04d-%02d.html", prev.Year(), int(prev.Month()))

	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("stat monthly report: %w", err)
	}

	return &Entry{Label: prev.Format("2006-01"), Href: dirName + "/" + name}, nil
}

func readHTMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}

		names = append(names, e.Name())
	}

	return names, nil
}
