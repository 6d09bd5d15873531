// Package provider presents a uniform stream of commits for a repository and
// time window, regardless of upstream API differences. Four dialects
// (hostedapi_a, hostedapi_b, enterprise, localclone) implement Provider.
package provider

import (
	"context"
	"time"

	"github.com/devpulse/devpulse/pkg/model"
)

// Provider is stateless across calls except for cached state it owns
// internally (clones, paged fetches). Per-repository failure is isolated by
// the caller, not the provider: a Provider call returning an error for one
// repo MUST NOT prevent the caller from trying the next.
type Provider interface {
	// ListRepositories enumerates accessible repositories, applying any
	// configured Filter.
	ListRepositories(ctx context.Context) ([]model.Repository, error)

	// GetCommits returns all commits in [since, until) on branch,
	// descending by timestamp, deduplicated by hash. until of the zero
	// Time means "now". branch "all" fuses every branch.
	GetCommits(ctx context.Context, repoID string, since, until time.Time, branch string) ([]model.Commit, error)

	// GetFileContent returns file text at ref, or ok=false if absent.
	GetFileContent(ctx context.Context, repoID, path, ref string) (content string, ok bool, err error)

	// GetFileLineCount returns the line count of path at ref. The default
	// behavior (splitting GetFileContent on newlines) is available via
	// DefaultFileLineCount for providers that have no cheaper path.
	GetFileLineCount(ctx context.Context, repoID, path, ref string) (int, error)

	// GetFileHistory returns the commits in [since, until) that touched
	// path. DefaultFileHistory implements the filter-by-path fallback.
	GetFileHistory(ctx context.Context, repoID, path string, since, until time.Time) ([]model.Commit, error)

	// Cleanup releases any resources scoped to this provider instance
	// (temp clones, long-lived HTTP connections). Called once per run.
	Cleanup() error
}

// DefaultFileLineCount implements Provider.GetFileLineCount in terms of
// GetFileContent, splitting on newlines. A missing file yields 0.
func DefaultFileLineCount(ctx context.Context, p Provider, repoID, path, ref string) (int, error) {
	content, ok, err := p.GetFileContent(ctx, repoID, path, ref)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, nil
	}

	return countLines(content), nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}

	n := 1

	for _, r := range s {
		if r == '\n' {
			n++
		}
	}

	return n
}

// DefaultFileHistory implements Provider.GetFileHistory by filtering
// GetCommits to commits touching path. Providers with cheaper native
// history should override this behavior rather than call it.
func DefaultFileHistory(ctx context.Context, p Provider, repoID, path string, since, until time.Time) ([]model.Commit, error) {
	commits, err := p.GetCommits(ctx, repoID, since, until, "all")
	if err != nil {
		return nil, err
	}

	var filtered []model.Commit

	for _, c := range commits {
		for _, f := range c.Files {
			if f.Path == path {
				filtered = append(filtered, c)

				break
			}
		}
	}

	return filtered, nil
}
