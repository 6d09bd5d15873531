package gitlib

import (
	"context"
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the HEAD reference target.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(_ context.Context, hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit: %w", err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// LookupBlob returns the blob with the given hash.
func (r *Repository) LookupBlob(_ context.Context, hash Hash) (*Blob, error) {
	blob, err := r.repo.LookupBlob(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup blob: %w", err)
	}

	return &Blob{blob: blob}, nil
}

// LookupTree returns the tree with the given hash.
func (r *Repository) LookupTree(hash Hash) (*Tree, error) {
	tree, err := r.repo.LookupTree(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup tree: %w", err)
	}

	return &Tree{tree: tree, repo: r}, nil
}

// Walk creates a new revision walker starting from HEAD.
func (r *Repository) Walk() (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	return &RevWalk{walk: walk, repo: r}, nil
}

// LogOptions configures the commit log iteration.
type LogOptions struct {
	Since       *time.Time // Only include commits after this time.
	FirstParent bool       // Follow only first parent (git log --first-parent).
	AllBranches bool       // Push every local+remote branch tip instead of just HEAD.
}

// Log returns a commit iterator. With AllBranches set, every branch tip is
// pushed onto the walker so the iteration covers commits reachable from any
// branch, not only HEAD; the caller is responsible for deduplicating by hash.
func (r *Repository) Log(opts *LogOptions) (*CommitIter, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	if opts != nil && opts.AllBranches {
		if pushErr := pushAllBranches(r, walk); pushErr != nil {
			walk.Free()

			return nil, pushErr
		}
	} else {
		headRef, headErr := r.repo.Head()
		if headErr != nil {
			walk.Free()

			return nil, fmt.Errorf("get HEAD: %w", headErr)
		}

		pushErr := walk.Push(headRef.Target())
		headRef.Free()

		if pushErr != nil {
			walk.Free()

			return nil, fmt.Errorf("push HEAD to revwalk: %w", pushErr)
		}
	}

	// Topological order ensures we never diff against a descendant; prevents
	// negative churn values when branches have different timestamps.
	walk.Sorting(git2go.SortTime | git2go.SortTopological)

	var since *time.Time
	if opts != nil {
		since = opts.Since

		if opts.FirstParent {
			walk.SimplifyFirstParent()
		}
	}

	return &CommitIter{walk: walk, repo: r, since: since}, nil
}

// pushAllBranches pushes the tip of every local and remote-tracking branch
// onto the walker.
func pushAllBranches(r *Repository, walk *git2go.RevWalk) error {
	iter, err := r.repo.NewBranchIterator(git2go.BranchAll)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}
	defer iter.Free()

	pushed := 0

	iterErr := iter.ForEach(func(branch *git2go.Branch, _ git2go.BranchType) error {
		target := branch.Target()
		if target == nil {
			return nil
		}

		if pushErr := walk.Push(target); pushErr == nil {
			pushed++
		}

		return nil
	})
	if iterErr != nil {
		return fmt.Errorf("iterate branches: %w", iterErr)
	}

	if pushed == 0 {
		headRef, headErr := r.repo.Head()
		if headErr != nil {
			return fmt.Errorf("get HEAD: %w", headErr)
		}
		defer headRef.Free()

		if pushErr := walk.Push(headRef.Target()); pushErr != nil {
			return fmt.Errorf("push HEAD to revwalk: %w", pushErr)
		}
	}

	return nil
}

// ListBranches returns the names of every local branch.
func (r *Repository) ListBranches() ([]string, error) {
	iter, err := r.repo.NewBranchIterator(git2go.BranchLocal)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer iter.Free()

	var names []string

	iterErr := iter.ForEach(func(branch *git2go.Branch, _ git2go.BranchType) error {
		name, nameErr := branch.Name()
		if nameErr != nil || name == "" {
			return nil
		}

		names = append(names, name)

		return nil
	})
	if iterErr != nil {
		return nil, fmt.Errorf("iterate branches: %w", iterErr)
	}

	return names, nil
}

// DiffTreeToTree computes the diff between two trees.
func (r *Repository) DiffTreeToTree(oldTree, newTree *Tree) (*Diff, error) {
	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	var oldT, newT *git2go.Tree
	if oldTree != nil {
		oldT = oldTree.tree
	}

	if newTree != nil {
		newT = newTree.tree
	}

	diff, err := r.repo.DiffTreeToTree(oldT, newT, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	return &Diff{diff: diff}, nil
}

// Native returns the underlying libgit2 repository for advanced operations.
func (r *Repository) Native() *git2go.Repository {
	return r.repo
}
