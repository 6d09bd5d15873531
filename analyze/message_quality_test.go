package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/analyze"
	"github.com/devpulse/devpulse/pkg/model"
)

func TestMessageQuality_EmptySetYields100(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, analyze.MessageQuality(nil))
}

func TestMessageQuality_ConventionalPrefix(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{
		{Message: "feat(parser): add support"},
		{Message: "fix: null pointer"},
		{Message: "wip"},
	}

	assert.InDelta(t, 200.0/3, analyze.MessageQuality(commits), 0.001)
}

func TestMessageQuality_LongMessageWithoutPrefixIsGood(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{
		{Message: "this message has no conventional prefix but is long enough"},
	}

	assert.Equal(t, 100.0, analyze.MessageQuality(commits))
}

func TestMessageQuality_ShortUnprefixedIsBad(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{
		{Message: "oops"},
	}

	assert.Equal(t, 0.0, analyze.MessageQuality(commits))
}
