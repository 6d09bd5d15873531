package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/pkg/model"
)

func TestCommit_AddedDeletedNet(t *testing.T) {
	t.Parallel()

	c := model.Commit{
		Hash:      "abc123",
		Timestamp: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
		Files: []model.FileChange{
			{Path: "a.go", Added: 10, Deleted: 2},
			{Path: "b.go", Added: 5, Deleted: 5},
		},
	}

	assert.Equal(t, 15, c.Added())
	assert.Equal(t, 7, c.Deleted())
	assert.Equal(t, 8, c.Net())
	assert.Equal(t, 22, c.Lines())
}

func TestCommit_EmptyFiles(t *testing.T) {
	t.Parallel()

	c := model.Commit{Hash: "empty"}

	assert.Equal(t, 0, c.Added())
	assert.Equal(t, 0, c.Deleted())
	assert.Equal(t, 0, c.Net())
}

func TestFileChange_Net(t *testing.T) {
	t.Parallel()

	fc := model.FileChange{Path: "x.py", Added: 100, Deleted: 80}
	assert.Equal(t, 20, fc.Net())
}
