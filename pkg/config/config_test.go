package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears the env so each test
// starts from the same place.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvToken, "")
	t.Setenv(EnvPersonalToken, "")
	t.Setenv(EnvRepository, "")
	t.Setenv(EnvDefaultBranch, "")
	t.Setenv(EnvRunID, "")
	os.Unsetenv(EnvToken)
	os.Unsetenv(EnvPersonalToken)
	os.Unsetenv(EnvRepository)
	os.Unsetenv(EnvDefaultBranch)
	os.Unsetenv(EnvRunID)
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(EnvToken, "bot-token-1234567890")
	t.Setenv(EnvPersonalToken, "user-token-1234567890")
	t.Setenv(EnvRepository, "owner/repo")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "owner/repo", cfg.Repository)
	assert.Empty(t, cfg.DefaultBranch, "default branch comes from the repository unless overridden")
	assert.NotEmpty(t, cfg.RunID)
	assert.Equal(t, "has-pr", cfg.Labels.IssueLinked)
	assert.Equal(t, "has-issue", cfg.Labels.PRLinked)
	assert.Equal(t, 4, cfg.Counts.MaxIssues)
	assert.Equal(t, 4, cfg.Counts.MaxBotPRs)
	assert.Equal(t, 2, cfg.Counts.MaxUserPRs)
	assert.Equal(t, 2, cfg.Counts.MaxApprove)
	assert.Equal(t, "bot-token-1234567890", cfg.BotToken.Value())
	assert.Equal(t, "user-token-1234567890", cfg.UserToken.Value())
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv(EnvDefaultBranch, "trunk")
	t.Setenv(EnvRunID, "run-42")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "trunk", cfg.DefaultBranch)
	assert.Equal(t, "run-42", cfg.RunID)
}

func TestLoadMissingToken(t *testing.T) {
	isolate(t)
	t.Setenv(EnvPersonalToken, "user-token-1234567890")
	t.Setenv(EnvRepository, "owner/repo")

	_, err := Load()
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestLoadMissingPersonalToken(t *testing.T) {
	isolate(t)
	t.Setenv(EnvToken, "bot-token-1234567890")
	t.Setenv(EnvRepository, "owner/repo")

	_, err := Load()
	assert.ErrorIs(t, err, ErrPersonalTokenMissing)
}

func TestLoadMissingRepository(t *testing.T) {
	isolate(t)
	t.Setenv(EnvToken, "bot-token-1234567890")
	t.Setenv(EnvPersonalToken, "user-token-1234567890")

	_, err := Load()
	assert.ErrorIs(t, err, ErrRepositoryMissing)
}

func TestLoadYAMLOverlay(t *testing.T) {
	isolate(t)
	setRequired(t)

	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "auto-ops")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := []byte(`
platform: github
labels:
  issue_linked: with-pr
  pr_linked: with-issue
counts:
  max_issues: 6
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "github", cfg.Platform)
	assert.Equal(t, "with-pr", cfg.Labels.IssueLinked)
	assert.Equal(t, "with-issue", cfg.Labels.PRLinked)
	assert.Equal(t, 6, cfg.Counts.MaxIssues)
	// Untouched sections keep their defaults.
	assert.Equal(t, 2, cfg.Counts.MaxUserPRs)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	isolate(t)
	setRequired(t)

	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "auto-ops")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("labels: ["), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateEqualLabels(t *testing.T) {
	isolate(t)
	setRequired(t)

	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "auto-ops")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := []byte("labels:\n  issue_linked: same\n  pr_linked: same\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o600))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "labels must differ")
}

func TestIdentity(t *testing.T) {
	cfg := &Config{
		Identities: IdentitiesConfig{
			Bot:  IdentityConfig{Name: "bot", Email: "bot@example.com"},
			User: IdentityConfig{Name: "user", Email: "user@example.com"},
		},
	}

	assert.Equal(t, "user", cfg.Identity("user").Name)
	assert.Equal(t, "bot", cfg.Identity("bot").Name)
	// Unknown identities fall back to the bot signature.
	assert.Equal(t, "bot", cfg.Identity("other").Name)
}
