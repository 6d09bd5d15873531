package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/provider"
)

func TestFilter_EmptyAllowsEverythingNonArchived(t *testing.T) {
	t.Parallel()

	f := provider.Filter{}

	assert.True(t, f.Allows(provider.Candidate{Name: "any"}))
	assert.False(t, f.Allows(provider.Candidate{Name: "any", Archived: true}))
}

func TestFilter_IncludeArchivedOverride(t *testing.T) {
	t.Parallel()

	f := provider.Filter{IncludeArchived: true}

	assert.True(t, f.Allows(provider.Candidate{Name: "any", Archived: true}))
}

func TestFilter_MatchesByNameURLOrID(t *testing.T) {
	t.Parallel()

	byName := provider.Filter{Names: []string{"api"}}
	assert.True(t, byName.Allows(provider.Candidate{Name: "api"}))
	assert.False(t, byName.Allows(provider.Candidate{Name: "web"}))

	byURL := provider.Filter{URLs: []string{"https://example.com/org/api.git"}}
	assert.True(t, byURL.Allows(provider.Candidate{URL: "https://example.com/org/api"}))

	byID := provider.Filter{IDs: []string{"42"}}
	assert.True(t, byID.Allows(provider.Candidate{ID: "42"}))
	assert.False(t, byID.Allows(provider.Candidate{ID: "7"}))
}

func TestFilter_NamespacePrefixCaseInsensitive(t *testing.T) {
	t.Parallel()

	f := provider.Filter{NamespacePrefix: "Platform"}

	assert.True(t, f.Allows(provider.Candidate{Path: "org/platform/api"}))
	assert.False(t, f.Allows(provider.Candidate{Path: "org/mobile/app"}))
}

func TestApplyFilter_PreservesOrder(t *testing.T) {
	t.Parallel()

	items := []string{"api", "web", "infra"}
	f := provider.Filter{Names: []string{"api", "infra"}}

	kept := provider.ApplyFilter(items, f, func(s string) provider.Candidate {
		return provider.Candidate{Name: s}
	})

	assert.Equal(t, []string{"api", "infra"}, kept)
}
