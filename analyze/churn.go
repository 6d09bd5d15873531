// Package analyze holds the stateless metric analyzers (churn, rework,
// hotspot, health score, message quality, work-time classification) that
// operate purely over an already window-filtered commit set.
package analyze

import (
	"sort"

	"github.com/devpulse/devpulse/pkg/model"
)

// ChurnFile is one file whose modification count met the churn threshold.
type ChurnFile struct {
	Path        string
	ModifyCount int
	Authors     []string
}

// ChurnResult is the output of Churn: the files that churned plus the
// overall churn rate.
type ChurnResult struct {
	Files []ChurnFile
	Rate  float64
}

// Churn computes the churn analysis over an already window-filtered commit
// set: files touched at least threshold times, sorted descending by
// modification count, plus the churn rate (churned files / total modified
// files * 100). An empty modified-files set yields rate 0 and an empty list.
func Churn(commits []model.Commit, threshold int) ChurnResult {
	type fileStat struct {
		count   int
		authors map[string]struct{}
	}

	stats := make(map[string]*fileStat)
	order := make([]string, 0)

	for _, c := range commits {
		for _, f := range c.Files {
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

	totalModified := len(stats)
	if totalModified == 0 {
		return ChurnResult{Files: nil, Rate: 0}
	}

	var churned []ChurnFile

	for _, path := range order {
		st := stats[path]
		if st.count < threshold {
			continue
		}

		authors := make([]string, 0, len(st.authors))
		for a := range st.authors {
			authors = append(authors, a)
		}

		sort.Strings(authors)

		churned = append(churned, ChurnFile{Path: path, ModifyCount: st.count, Authors: authors})
	}

	sort.SliceStable(churned, func(i, j int) bool {
		return churned[i].ModifyCount > churned[j].ModifyCount
	})

	rate := float64(len(churned)) / float64(totalModified) * 100

	return ChurnResult{Files: churned, Rate: rate}
}
