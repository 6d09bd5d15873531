package hostedapi_b

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/pkg/model"
)

func TestDistributeStats_EvenSplit(t *testing.T) {
	t.Parallel()

	files := distributeStats([]string{"a.go", "b.go"}, 10, 4)

	assert.Len(t, files, 2)
	assert.Equal(t, model.FileChange{Path: "a.go", Added: 5, Deleted: 2}, files[0])
	assert.Equal(t, model.FileChange{Path: "b.go", Added: 5, Deleted: 2}, files[1])
}

func TestDistributeStats_NoFilesYieldsSyntheticEntry(t *testing.T) {
	t.Parallel()

	files := distributeStats(nil, 7, 3)

	assert.Equal(t, []model.FileChange{{Path: model.UnknownFilePath, Added: 7, Deleted: 3}}, files)
}

func TestInferRepoType_MatchesByNameOrPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.RepoTypeJava, inferRepoType("payments-backend", "payments-backend"))
	assert.Equal(t, model.RepoTypeWebFrontend, inferRepoType("checkout-web", "checkout-web"))
	assert.Equal(t, model.RepoTypeMobile, inferRepoType("ios-app", "ios-app"))
	assert.Equal(t, model.RepoTypeInfra, inferRepoType("terraform-modules", "terraform-modules"))
	assert.Equal(t, model.RepoTypeUnknown, inferRepoType("misc-tools", "misc-tools"))
}

func TestParseGitLabDate_BothFormats(t *testing.T) {
	t.Parallel()

	t1 := parseGitLabDate("2026-07-30T12:00:00Z")
	assert.False(t, t1.IsZero())

	t2 := parseGitLabDate("2026-07-30T12:00:00.000+00:00")
	assert.False(t, t2.IsZero())

	assert.True(t, t1.Equal(t2))

	assert.True(t, parseGitLabDate("not-a-date").IsZero())
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "summary", firstLine("summary\nbody"))
}

func TestParseGitLabDate_PreservesInstant(t *testing.T) {
	t.Parallel()

	parsed := parseGitLabDate("2026-01-02T03:04:05Z")
	expected := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.True(t, parsed.Equal(expected))
}
