package provider

import (
	"sort"

	"github.com/devpulse/devpulse/pkg/model"
)

// SortDescByTimestamp orders commits descending by timestamp, breaking ties
// by hash ascending for a stable, deterministic order (spec §3 "Commit
// ordering when presented is descending by timestamp; ordering within equal
// timestamps is stable by hash"). Every provider dialect funnels its
// GetCommits result through this helper before returning.
func SortDescByTimestamp(commits []model.Commit) []model.Commit {
	sort.SliceStable(commits, func(i, j int) bool {
		ti, tj := commits[i].Timestamp, commits[j].Timestamp

		if ti.Equal(tj) {
			return commits[i].Hash < commits[j].Hash
		}

		return ti.After(tj)
	})

	return commits
}

// DedupeByHash removes commits whose hash has already been seen, preserving
// the first occurrence's position. Used by providers that fuse multiple
// branches (EnterpriseApi, LocalClone "all" mode) to satisfy P1
// hash-uniqueness.
func DedupeByHash(commits []model.Commit) []model.Commit {
	seen := make(map[string]struct{}, len(commits))
	out := make([]model.Commit, 0, len(commits))

	for _, c := range commits {
		if _, ok := seen[c.Hash]; ok {
			continue
		}

		seen[c.Hash] = struct{}{}
		out = append(out, c)
	}

	return out
}

// FilterWindow keeps only commits whose timestamp satisfies w.Contains,
// enforcing P2 window-closed at any provider boundary that cannot push the
// predicate upstream.
func FilterWindow(commits []model.Commit, w model.TimeWindow) []model.Commit {
	out := make([]model.Commit, 0, len(commits))

	for _, c := range commits {
		if w.Contains(c.Timestamp) {
			out = append(out, c)
		}
	}

	return out
}
