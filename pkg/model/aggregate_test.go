package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/pkg/model"
)

func TestAuthorAggregate_AddCommit(t *testing.T) {
	t.Parallel()

	agg := model.NewAuthorAggregate("alice")

	c1 := model.Commit{
		Hash:      "h1",
		Timestamp: time.Now(),
		Files:     []model.FileChange{{Path: "a.go", Added: 10, Deleted: 2}},
	}
	c2 := model.Commit{
		Hash:      "h2",
		Timestamp: time.Now(),
		Files:     []model.FileChange{{Path: "b.go", Added: 5, Deleted: 0}},
	}

	agg.AddCommit(c1, "repo1", model.RepoTypeJava)
	agg.AddCommit(c2, "repo2", model.RepoTypePython)

	assert.Equal(t, 2, agg.CommitCount)
	assert.Equal(t, 15, agg.Added)
	assert.Equal(t, 2, agg.Deleted)
	assert.Equal(t, 13, agg.Net())
	assert.Len(t, agg.RepoSet, 2)
	assert.Equal(t, 1, agg.LanguageFreq[model.RepoTypeJava])
	assert.Equal(t, 1, agg.LanguageFreq[model.RepoTypePython])
}

func TestAuthorAggregate_Empty(t *testing.T) {
	t.Parallel()

	agg := model.NewAuthorAggregate("bob")

	assert.Equal(t, 0, agg.CommitCount)
	assert.Equal(t, 0, agg.Net())
	assert.Empty(t, agg.RepoSet)
}

func TestRepoAggregate_AddCommit(t *testing.T) {
	t.Parallel()

	agg := model.NewRepoAggregate("repo1")

	agg.AddCommit(model.Commit{
		Hash:       "h1",
		AuthorName: "alice",
		Files:      []model.FileChange{{Added: 10, Deleted: 3}},
	})
	agg.AddCommit(model.Commit{
		Hash:       "h2",
		AuthorName: "bob",
		Files:      []model.FileChange{{Added: 4, Deleted: 1}},
	})

	assert.Equal(t, 2, agg.CommitCount)
	assert.Equal(t, 14, agg.Added)
	assert.Equal(t, 4, agg.Deleted)
	assert.Equal(t, 10, agg.Net())
	assert.Len(t, agg.AuthorSet, 2)
}
