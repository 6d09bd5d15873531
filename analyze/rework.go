package analyze

import (
	"sort"

	"github.com/devpulse/devpulse/pkg/model"
)

// ReworkResult is the output of Rework.
type ReworkResult struct {
	ReworkLines int
	TotalAdded  int
	Rate        float64 // raw estimate, may exceed 100; DisplayRate clamps it.
}

// DisplayRate clamps Rate to 100 for display while the raw Rate (and
// ReworkLines/TotalAdded) preserve the unclamped estimate, per the
// min(added_i, deleted_j) estimator's documented tendency to overcount in
// pathological cases.
func (r ReworkResult) DisplayRate() float64 {
	if r.Rate > 100 {
		return 100
	}

	return r.Rate
}

type fileEvent struct {
	timestamp int64 // unix seconds, for stable sort
	added     int
	deleted   int
}

// Rework estimates rework lines: code added then deleted within
// deleteWindowDays of having been added. The caller is expected to have
// already filtered commits to the add-window (A days); deleteWindowDays is
// the D parameter. For each file, changes are ordered by timestamp; for
// change i, every later change j within D days contributes
// min(added_i, deleted_j) to the rework total. total_added == 0 yields rate 0.
func Rework(commits []model.Commit, deleteWindowDays int) ReworkResult {
	deleteWindow := int64(deleteWindowDays) * 24 * 3600

	byFile := make(map[string][]fileEvent)

	for _, c := range commits {
		ts := c.Timestamp.Unix()

		for _, f := range c.Files {
			byFile[f.Path] = append(byFile[f.Path], fileEvent{timestamp: ts, added: f.Added, deleted: f.Deleted})
		}
	}

	var reworkLines, totalAdded int

	for _, events := range byFile {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].timestamp < events[j].timestamp
		})

		for i, ev := range events {
			totalAdded += ev.added

			for j := i + 1; j < len(events); j++ {
				if events[j].timestamp-ev.timestamp > deleteWindow {
					continue
				}

				reworkLines += min(ev.added, events[j].deleted)
			}
		}
	}

	rate := 0.0
	if totalAdded > 0 {
		rate = float64(reworkLines) / float64(totalAdded) * 100
	}

	return ReworkResult{ReworkLines: reworkLines, TotalAdded: totalAdded, Rate: rate}
}
