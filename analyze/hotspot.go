package analyze

import (
	"path"
	"sort"
	"strings"

	"github.com/devpulse/devpulse/pkg/model"
)

// HotspotThresholds configures the Hotspot analyzer's tag and exclusion
// rules. Zero values fall back to the defaults noted per field.
type HotspotThresholds struct {
	ModifyCount      int // "high-churn" tag threshold; default 10.
	LargeFile        int // "large-file" tag threshold (lines); default 1000.
	MultiAuthorCount int // "multi-author" tag threshold; default 3.

	ExcludePatterns []string // glob-like: "*.ext" or a path substring.
	ExcludeDirs     []string // path substrings.
}

// complexFileCeilings maps a file extension to the line count above which a
// file of that language is tagged "complex-file".
var complexFileCeilings = map[string]int{
	".java": 800,
	".py":   500,
	".ts":   600,
	".tsx":  600,
	".js":   600,
	".jsx":  600,
	".vue":  500,
}

// FileHotspot is one file scored by the Hotspot analyzer.
type FileHotspot struct {
	Path        string
	RiskScore   float64
	ModifyCount int
	LineCount   int
	AuthorCount int
	Authors     []string
	Tags        []string
	Suggestion  string
}

// hotspotFloor is the risk score below or at which a file is dropped from
// Hotspot's output.
const hotspotFloor = 40.0

// Hotspot scores every file touched in the already window-filtered commit
// set, excluding paths matched by thresholds.ExcludePatterns/ExcludeDirs.
// fileSizes supplies the current line count for each path (from the
// provider's getFileLineCount); a missing entry is treated as size 0. Files
// scoring at or below 40 are dropped; the remainder is sorted descending by
// score.
func Hotspot(commits []model.Commit, fileSizes map[string]int, th HotspotThresholds) []FileHotspot {
	type fileStat struct {
		count   int
		authors map[string]struct{}
	}

	stats := make(map[string]*fileStat)
	order := make([]string, 0)

	for _, c := range commits {
		for _, f := range c.Files {
			if shouldExclude(f.Path, th) {
				continue
			}

			st, ok := stats[f.Path]
			if !ok {
				st = &fileStat{authors: make(map[string]struct{})}
				stats[f.Path] = st
				order = append(order, f.Path)
			}

			st.count++
			st.authors[c.AuthorName] = struct{}{}
		}
	}

	modifyThreshold := th.ModifyCount
	if modifyThreshold == 0 {
		modifyThreshold = 10
	}

	largeFile := th.LargeFile
	if largeFile == 0 {
		largeFile = 1000
	}

	multiAuthor := th.MultiAuthorCount
	if multiAuthor == 0 {
		multiAuthor = 3
	}

	var result []FileHotspot

	for _, p := range order {
		st := stats[p]
		size := fileSizes[p]

		score := riskScore(st.count, size, len(st.authors))
		if score <= hotspotFloor {
			continue
		}

		authors := make([]string, 0, len(st.authors))
		for a := range st.authors {
			authors = append(authors, a)
		}

		sort.Strings(authors)

		tags := riskTags(p, st.count, size, len(st.authors), modifyThreshold, largeFile, multiAuthor)

		result = append(result, FileHotspot{
			Path:        p,
			RiskScore:   score,
			ModifyCount: st.count,
			LineCount:   size,
			AuthorCount: len(st.authors),
			Authors:     authors,
			Tags:        tags,
			Suggestion:  suggestion(tags),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RiskScore > result[j].RiskScore
	})

	return result
}

func shouldExclude(filePath string, th HotspotThresholds) bool {
	for _, dir := range th.ExcludeDirs {
		if strings.Contains(filePath, dir) {
			return true
		}
	}

	for _, pattern := range th.ExcludePatterns {
		if ext, ok := strings.CutPrefix(pattern, "*"); ok {
			if strings.HasSuffix(filePath, ext) {
				return true
			}

			continue
		}

		if strings.Contains(filePath, pattern) {
			return true
		}
	}

	return false
}

func riskScore(modifyCount, lineCount, authorCount int) float64 {
	freqScore := minFloat(float64(modifyCount)/10*100, 100)
	sizeScore := minFloat(float64(lineCount)/1000*100, 100)
	authorScore := minFloat(float64(authorCount)/5*100, 100)

	risk := freqScore*0.30 + sizeScore*0.25 + authorScore*0.20

	return roundTo2(risk)
}

func riskTags(filePath string, modifyCount, lineCount, authorCount, modifyThreshold, largeFile, multiAuthor int) []string {
	var tags []string

	if modifyCount >= modifyThreshold {
		tags = append(tags, "high-churn")
	}

	if lineCount >= largeFile {
		tags = append(tags, "large-file")
	}

	if authorCount >= multiAuthor {
		tags = append(tags, "multi-author")
	}

	if ceiling, ok := complexFileCeilings[strings.ToLower(path.Ext(filePath))]; ok && lineCount > ceiling {
		tags = append(tags, "complex-file")
	}

	return tags
}

func suggestion(tags []string) string {
	has := func(tag string) bool {
		for _, t := range tags {
			if t == tag {
				return true
			}
		}

		return false
	}

	switch {
	case has("large-file") && has("complex-file"):
		return "split the file and extract shared logic"
	case has("high-churn"):
		return "stabilize the interface to reduce frequent changes"
	case has("multi-author"):
		return "clarify module ownership to reduce collaboration conflicts"
	default:
		return "keep monitoring"
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}

	return b
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
