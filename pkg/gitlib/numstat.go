package gitlib

import "fmt"

// FileNumstat is the libgit2 equivalent of a `git log --numstat` line: a path
// plus its added/deleted line counts for one commit.
type FileNumstat struct {
	Path     string
	Added    int
	Deleted  int
	IsBinary bool
}

// CommitNumstat computes the per-file added/deleted counts between a commit's
// tree and its first parent's tree (or an empty tree for a root commit).
func CommitNumstat(repo *Repository, commit *Commit) ([]FileNumstat, error) {
	newTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("commit tree: %w", err)
	}

	var oldTree *Tree

	if commit.NumParents() > 0 {
		parent, parentErr := commit.Parent(0)
		if parentErr != nil {
			return nil, fmt.Errorf("parent commit: %w", parentErr)
		}
		defer parent.Free()

		oldTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("parent tree: %w", err)
		}
	}

	diff, err := repo.DiffTreeToTree(oldTree, newTree)
	if err != nil {
		return nil, fmt.Errorf("diff tree to tree: %w", err)
	}
	defer diff.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, err
	}

	stats := make([]FileNumstat, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		path := delta.NewFile.Path
		if path == "" {
			path = delta.OldFile.Path
		}

		patch, patchErr := diff.Patch(i)
		if patchErr != nil {
			continue
		}

		lineStats, statsErr := patch.Stats()
		patch.Free()

		if statsErr != nil {
			continue
		}

		stats = append(stats, FileNumstat{
			Path:     path,
			Added:    lineStats.Added,
			Deleted:  lineStats.Deleted,
			IsBinary: lineStats.IsBinary,
		})
	}

	return stats, nil
}
