package enterprise

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/pkg/model"
)

func TestDiffsToFiles(t *testing.T) {
	t.Parallel()

	files := diffsToFiles([]epDiff{
		{NewPath: "a.go", AddedLines: 3, DeletedLines: 1},
		{OldPath: "deleted.go", DeletedLines: 9},
	})

	assert.Equal(t, []model.FileChange{
		{Path: "a.go", Added: 3, Deleted: 1},
		{Path: "deleted.go", Added: 0, Deleted: 9},
	}, files)
}

func TestResolveFiles_PrefersInlineDiffsOverFallback(t *testing.T) {
	t.Parallel()

	p := &Provider{}

	rc := epCommit{
		Diffs: []epDiff{{NewPath: "x.go", AddedLines: 2}},
		Stats: &epStats{Additions: 99, Deletions: 99},
	}

	files, fallback := p.resolveFiles(context.Background(), "repo", rc)

	assert.Equal(t, "diffs", fallback)
	assert.Equal(t, []model.FileChange{{Path: "x.go", Added: 2}}, files)
}

func TestResolveFiles_FallsBackToStatsOnly(t *testing.T) {
	t.Parallel()

	p := &Provider{baseURL: "http://127.0.0.1:0", client: &http.Client{}}

	rc := epCommit{Stats: &epStats{Additions: 5, Deletions: 2}}

	files, fallback := p.resolveFiles(context.Background(), "repo", rc)

	assert.Equal(t, "stats_only", fallback)
	assert.Equal(t, []model.FileChange{{Path: model.UnknownFilePath, Added: 5, Deleted: 2}}, files)
}

func TestParseCodeupDate_BothFormats(t *testing.T) {
	t.Parallel()

	rfc3339 := parseCodeupDate("2026-07-30T12:00:00Z")
	assert.False(t, rfc3339.IsZero())

	spaced := parseCodeupDate("2026-07-30 12:00:00")
	assert.Equal(t, time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC), spaced)

	assert.True(t, parseCodeupDate("garbage").IsZero())
}

func TestRepoCandidate(t *testing.T) {
	t.Parallel()

	r := model.Repository{ID: "1", DisplayName: "svc", CloneURL: "https://example.com/svc.git"}

	c := repoCandidate(r)

	assert.Equal(t, "1", c.ID)
	assert.Equal(t, "svc", c.Name)
}
