package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devpulse/devpulse/render/markdown"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// reportDirs are the three report output directories, relative to an App's
// OutputRoot (spec §6 filesystem layout).
var reportDirs = struct {
	Daily, Weekly, Monthly string
}{"reports/daily", "reports/weekly", "reports/monthly"}

// writeReport writes both the Markdown source and its rendered HTML for one
// report, under dir/name.md and dir/name.html. A filesystem write failure
// is fatal (spec §7 kind 4). Returns the total bytes written across both
// files, for the caller's run-level metrics.
func (a *App) writeReport(dir, name, title, md string) (int64, error) {
	full := filepath.Join(a.OutputRoot, dir)

	if err := os.MkdirAll(full, dirPerm); err != nil {
		return 0, fmt.Errorf("create output dir %s: %w", full, err)
	}

	mdPath := filepath.Join(full, name+".md")
	if err := os.WriteFile(mdPath, []byte(md), filePerm); err != nil {
		return 0, fmt.Errorf("write %s: %w", mdPath, err)
	}

	html, err := markdown.ToHTML(title, md)
	if err != nil {
		return 0, fmt.Errorf("render html for %s: %w", name, err)
	}

	htmlPath := filepath.Join(full, name+".html")
	if err := os.WriteFile(htmlPath, []byte(html), filePerm); err != nil {
		return 0, fmt.Errorf("write %s: %w", htmlPath, err)
	}

	return int64(len(md)) + int64(len(html)), nil
}

// reportExists reports whether dir/name.md has already been written,
// the check backfill uses to skip dates that already have a report.
func (a *App) reportExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(a.OutputRoot, dir, name+".md"))
	return err == nil
}
