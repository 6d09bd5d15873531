package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/pkg/model"
)

func TestError_FatalAndTransient(t *testing.T) {
	t.Parallel()

	cfgErr := model.NewError(model.KindConfiguration, "load", errors.New("missing token"))
	assert.True(t, cfgErr.Fatal())
	assert.False(t, cfgErr.Transient())

	transportErr := model.NewRepoError(model.KindTransport, "repo1", "fetch", errors.New("timeout"))
	assert.False(t, transportErr.Fatal())
	assert.True(t, transportErr.Transient())

	fsErr := model.NewError(model.KindFilesystem, "write", errors.New("permission denied"))
	assert.True(t, fsErr.Fatal())
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := model.NewError(model.KindData, "parse", inner)

	assert.ErrorIs(t, err, inner)
}

func TestError_MessageIncludesRepo(t *testing.T) {
	t.Parallel()

	err := model.NewRepoError(model.KindTransport, "acme/widgets", "getCommits", errors.New("HTTP 503"))

	assert.Contains(t, err.Error(), "acme/widgets")
	assert.Contains(t, err.Error(), "transport")
}
