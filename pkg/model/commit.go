// Package model defines the uniform value types shared by every provider,
// analyzer, and reporter: commits, repositories, time windows, and the
// aggregates and scores derived from them.
package model

import "time"

// FileChange describes the lines added and deleted to a single file by a
// commit. Providers that cannot report per-file counts emit a single
// synthetic FileChange with Path "(unknown)" carrying the commit total.
type FileChange struct {
	Path    string
	Added   int
	Deleted int
}

// Net returns the line delta contributed by this file (Added - Deleted).
func (f FileChange) Net() int {
	return f.Added - f.Deleted
}

// UnknownFilePath is the synthetic path used when a provider can report only
// a commit-level total, not a per-file breakdown.
const UnknownFilePath = "(unknown)"

// Commit is a single immutable revision, uniform across all four provider
// dialects. Equality between commits is by Hash alone.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	Timestamp   time.Time
	Message     string
	Files       []FileChange
}

// Added returns the sum of FileChange.Added across every file in the commit.
func (c Commit) Added() int {
	total := 0
	for _, f := range c.Files {
		total += f.Added
	}

	return total
}

// Deleted returns the sum of FileChange.Deleted across every file in the commit.
func (c Commit) Deleted() int {
	total := 0
	for _, f := range c.Files {
		total += f.Deleted
	}

	return total
}

// Net returns Added() - Deleted() for the whole commit.
func (c Commit) Net() int {
	return c.Added() - c.Deleted()
}

// Lines returns Added()+Deleted(), the "size" of a commit as used by the
// large-commit threshold.
func (c Commit) Lines() int {
	return c.Added() + c.Deleted()
}
