package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Diff wraps a libgit2 diff.
type Diff struct {
	diff *git2go.Diff
}

// NumDeltas returns the number of deltas in the diff.
func (d *Diff) NumDeltas() (int, error) {
	numDeltas, err := d.diff.NumDeltas()
	if err != nil {
		return 0, fmt.Errorf("get num deltas: %w", err)
	}

	return numDeltas, nil
}

// Delta returns the delta at the given index.
func (d *Diff) Delta(index int) (DiffDelta, error) {
	delta, err := d.diff.Delta(index)
	if err != nil {
		return DiffDelta{}, fmt.Errorf("get delta: %w", err)
	}

	return DiffDelta{
		Status:  delta.Status,
		OldFile: DiffFile{Path: delta.OldFile.Path, Hash: HashFromOid(delta.OldFile.Oid), Size: int64(delta.OldFile.Size)},
		NewFile: DiffFile{Path: delta.NewFile.Path, Hash: HashFromOid(delta.NewFile.Oid), Size: int64(delta.NewFile.Size)},
		Flags:   delta.Flags,
	}, nil
}

// Patch returns the patch for the delta at the given index. The caller must
// call Free on the returned Patch.
func (d *Diff) Patch(index int) (*Patch, error) {
	patch, err := d.diff.Patch(index)
	if err != nil {
		return nil, fmt.Errorf("get patch: %w", err)
	}

	return &Patch{patch: patch}, nil
}

// Stats returns the aggregate diff stats across every delta.
func (d *Diff) Stats() (*DiffStats, error) {
	stats, err := d.diff.Stats()
	if err != nil {
		return nil, fmt.Errorf("get diff stats: %w", err)
	}

	return &DiffStats{stats: stats}, nil
}

// Free releases the diff resources.
func (d *Diff) Free() {
	if d.diff == nil {
		return
	}

	err := d.diff.Free()
	d.diff = nil
	// Consume error - Free() errors are non-actionable in cleanup.
	if err != nil {
		return
	}
}

// DiffDelta represents a file change in a diff.
type DiffDelta struct {
	Status  git2go.Delta
	OldFile DiffFile
	NewFile DiffFile
	Flags   git2go.DiffFlag
}

// DiffFile represents a file in a diff delta.
type DiffFile struct {
	Path string
	Hash Hash
	Size int64
}

// Patch wraps a single libgit2 file patch, used to read per-file numstat-equivalent counts.
type Patch struct {
	patch *git2go.Patch
}

// LineStats reports the added/deleted line counts for a single file in a diff.
// Binary files report IsBinary=true and zero counts; callers must fall back to
// a synthetic total in that case.
type LineStats struct {
	Added    int
	Deleted  int
	IsBinary bool
}

// Stats returns the per-file added/deleted line counts for this patch.
func (p *Patch) Stats() (LineStats, error) {
	_, additions, deletions, err := p.patch.Stats()
	if err != nil {
		return LineStats{}, fmt.Errorf("get patch stats: %w", err)
	}

	delta, deltaErr := p.patch.Delta()
	if deltaErr == nil && delta.Flags&git2go.DiffFlagBinary != 0 {
		return LineStats{IsBinary: true}, nil
	}

	return LineStats{Added: additions, Deleted: deletions}, nil
}

// Free releases the patch resources.
func (p *Patch) Free() {
	if p.patch == nil {
		return
	}

	err := p.patch.Free()
	p.patch = nil
	if err != nil {
		return
	}
}

// DiffStats wraps libgit2 diff stats.
type DiffStats struct {
	stats *git2go.DiffStats
}

// Insertions returns the number of insertions.
func (s *DiffStats) Insertions() int {
	return s.stats.Insertions()
}

// Deletions returns the number of deletions.
func (s *DiffStats) Deletions() int {
	return s.stats.Deletions()
}

// FilesChanged returns the number of files changed.
func (s *DiffStats) FilesChanged() int {
	return s.stats.FilesChanged()
}

// Free releases the stats resources.
func (s *DiffStats) Free() {
	if s.stats == nil {
		return
	}

	err := s.stats.Free()
	s.stats = nil
	// Consume error - Free() errors are non-actionable in cleanup.
	if err != nil {
		return
	}
}
