package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/internal/config"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.PlatformLocalClone, cfg.Git.Platform)
	assert.Equal(t, config.DefaultLargeCommit, cfg.Thresholds.LargeCommit)
	assert.Equal(t, config.DefaultLateNightStart, cfg.WorkingHours.LateNightStart)
	assert.Equal(t, config.DefaultWebBaseURL, cfg.Web.BaseURL)
	assert.NotEmpty(t, cfg.Analysis.ExcludeDirs)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "devpulse.yaml")

	contents := "project:\n  name: Acme Corp\ngit:\n  platform: hostedA\n  token: tok-123\nthresholds:\n  large_commit: 750\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", cfg.Project.Name)
	assert.Equal(t, config.PlatformHostedA, cfg.Git.Platform)
	assert.Equal(t, "tok-123", cfg.Git.Token)
	assert.Equal(t, 750, cfg.Thresholds.LargeCommit)
}

func TestLoad_EnvVarOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devpulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("git:\n  platform: hostedA\n  token: from-file\n"), 0o600))

	t.Setenv("DEVPULSE_GIT_TOKEN", "from-env")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Git.Token)
}

func TestLoad_ExpandsEnvVarsInFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devpulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"git:\n  platform: hostedA\n  token: ${MY_TOKEN}\n  org: ${MY_ORG:-default-org}\n",
	), 0o600))

	t.Setenv("MY_TOKEN", "secret-value")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-value", cfg.Git.Token)
	assert.Equal(t, "default-org", cfg.Git.Org)
}

func TestValidate_MissingCredentials(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Git: config.GitConfig{Platform: config.PlatformHostedB}}
	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestValidate_UnknownPlatform(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Git: config.GitConfig{Platform: "bogus"}}
	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrUnknownPlatform)
}

func TestValidate_EnterpriseRequiresOrgID(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Git: config.GitConfig{Platform: config.PlatformEnterprise, Token: "tok"}}
	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestValidate_LocalCloneNeedsNoToken(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Git: config.GitConfig{Platform: config.PlatformLocalClone}}
	assert.NoError(t, cfg.Validate())
}
