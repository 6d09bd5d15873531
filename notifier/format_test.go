package notifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/notifier"
)

func TestTitle_PerKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Engineering health — daily report", notifier.Title(notifier.KindDaily))
	assert.Equal(t, "Engineering health — weekly report", notifier.Title(notifier.KindWeekly))
	assert.Equal(t, "Engineering health — monthly report", notifier.Title(notifier.KindMonthly))
}

func TestFormatMessage_IncludesCoreFieldsAndContributors(t *testing.T) {
	t.Parallel()

	d := notifier.Digest{
		HealthScore:   82,
		HealthLevel:   "Good",
		Commits:       42,
		ActiveAuthors: 5,
		Repositories:  3,
		NetLines:      -120,
		TopContributors: []notifier.Contributor{
			{Name: "alice", Commits: 10, NetLines: 50},
		},
		AtMentions: []string{"alice"},
	}

	msg := notifier.FormatMessage(notifier.KindDaily, "2026-07-30", d)

	assert.Contains(t, msg, "Engineering health — daily report")
	assert.Contains(t, msg, "2026-07-30")
	assert.Contains(t, msg, "Health score: **82/100** (Good)")
	assert.Contains(t, msg, "Repositories:")
	assert.Contains(t, msg, "Top contributors:")
	assert.Contains(t, msg, "alice")
	assert.Contains(t, msg, "@alice")
}

func TestFormatMessage_OmitsOptionalSectionsWhenEmpty(t *testing.T) {
	t.Parallel()

	msg := notifier.FormatMessage(notifier.KindWeekly, "this week", notifier.Digest{})

	assert.NotContains(t, msg, "Repositories:")
	assert.NotContains(t, msg, "Top contributors:")
	assert.Contains(t, msg, "Health score: **0/100** (-)")
}
