package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/render/index"
	"github.com/devpulse/devpulse/render/markdown"
)

// NewHTMLCommand builds the `html` verb (spec §6): convert every existing
// Markdown report to HTML and regenerate index.html. Running it twice in a
// row must produce a byte-identical index.html (spec §8 R2); Build/Render
// take no state but the files on disk and the current date (the index's
// generated stamp carries no time of day), so idempotence holds as long as
// no report is added and the date does not change between runs.
func NewHTMLCommand(rootFlags *RootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "html",
		Short: "Convert all existing Markdown reports to HTML and regenerate the index",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHTML(rootFlags.Output)
		},
	}
}

func runHTML(outputRoot string) error {
	for _, dir := range []string{reportDirs.Daily, reportDirs.Weekly, reportDirs.Monthly} {
		if err := convertDir(filepath.Join(outputRoot, dir)); err != nil {
			return err
		}
	}

	return regenerateIndex(outputRoot, time.Now())
}

func convertDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}

		mdPath := filepath.Join(dir, e.Name())

		raw, err := os.ReadFile(mdPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", mdPath, err)
		}

		title := strings.TrimSuffix(e.Name(), ".md")

		html, err := markdown.ToHTML(title, string(raw))
		if err != nil {
			return fmt.Errorf("render html for %s: %w", mdPath, err)
		}

		htmlPath := strings.TrimSuffix(mdPath, ".md") + ".html"
		if err := os.WriteFile(htmlPath, []byte(html), filePerm); err != nil {
			return fmt.Errorf("write %s: %w", htmlPath, err)
		}
	}

	return nil
}

// regenerateIndex rebuilds reports/index.html from whatever daily, weekly,
// and monthly reports now exist on disk (spec §4.4.b).
func regenerateIndex(outputRoot string, now time.Time) error {
	root := filepath.Join(outputRoot, "reports")

	dailies, weeklies, monthly, err := index.Build(root, index.Dirs{
		Daily: "daily", Weekly: "weekly", Monthly: "monthly",
	}, now)
	if err != nil {
		return fmt.Errorf("scan reports for index: %w", err)
	}

	html, err := index.Render(index.PageData{
		ProjectName: "devpulse",
		GeneratedAt: now.Format("2006-01-02"),
		Dailies:     dailies,
		Weeklies:    weeklies,
		Monthly:     monthly,
	})
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	if err := os.MkdirAll(root, dirPerm); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(root, "index.html")
	if err := os.WriteFile(path, []byte(html), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
