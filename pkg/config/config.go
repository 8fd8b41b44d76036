// Package config handles loading and validation of auto-ops configuration.
//
// Credentials and the target repository come from the environment (a .env
// file is honored when present); cosmetic settings such as label names,
// commit identities and count ranges can be overridden by an optional YAML
// file at ~/.config/auto-ops/config.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sgaunet/auto-ops/internal/security"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvToken         = "AUTO_OPS_TOKEN"          //nolint:gosec // Variable name, not a credential.
	EnvPersonalToken = "AUTO_OPS_PERSONAL_TOKEN" //nolint:gosec // Variable name, not a credential.
	EnvRepository    = "AUTO_OPS_REPOSITORY"
	EnvDefaultBranch = "DEFAULT_BRANCH"
	EnvRunID         = "RUN_ID"
)

var (
	errTokenMissing         = errors.New(EnvToken + " environment variable is required")
	errPersonalTokenMissing = errors.New(EnvPersonalToken + " environment variable is required")
	errRepositoryMissing    = errors.New(EnvRepository + " environment variable is required")
	errLabelsEqual          = errors.New("issue and pull request linking labels must differ")

	// ErrTokenMissing is returned when the automation token is not set.
	ErrTokenMissing = errTokenMissing
	// ErrPersonalTokenMissing is returned when the personal token is not set.
	ErrPersonalTokenMissing = errPersonalTokenMissing
	// ErrRepositoryMissing is returned when the target repository is not set.
	ErrRepositoryMissing = errRepositoryMissing
)

// Config is the complete configuration for auto-ops.
type Config struct {
	// Repository is the target repository identifier: "owner/repo" on
	// GitHub, "group/project" on GitLab.
	Repository string `yaml:"-"`

	// DefaultBranch is the branch fabricated branches start from and pull
	// requests target. Empty means resolve it from the local repository.
	DefaultBranch string `yaml:"-"`

	// RunID identifies this run in log output. Taken from the environment
	// when the scheduler provides one, otherwise a generated UUID.
	RunID string `yaml:"-"`

	// BotToken is the default-scoped automation credential.
	BotToken security.SecureToken `yaml:"-"`

	// UserToken is the separately-scoped personal credential.
	UserToken security.SecureToken `yaml:"-"`

	// Platform forces the hosting platform ("github" or "gitlab") instead of
	// detecting it from the origin remote. Empty means detect.
	Platform string `yaml:"platform"`

	Labels     LabelsConfig     `yaml:"labels"`
	Identities IdentitiesConfig `yaml:"identities"`
	Counts     CountsConfig     `yaml:"counts"`
}

// LabelsConfig names the linking labels.
type LabelsConfig struct {
	// IssueLinked marks an issue that has an attached pull request.
	IssueLinked string `yaml:"issue_linked"`
	// PRLinked marks a pull request that is attached to an issue.
	PRLinked string `yaml:"pr_linked"`
}

// IdentityConfig is a commit author signature.
type IdentityConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// IdentitiesConfig holds the bot and user commit identities.
type IdentitiesConfig struct {
	Bot  IdentityConfig `yaml:"bot"`
	User IdentityConfig `yaml:"user"`
}

// CountsConfig bounds the randomized fabrication counts. Each value is the
// inclusive upper bound of a 1..N draw.
type CountsConfig struct {
	MaxIssues  int `yaml:"max_issues"`
	MaxBotPRs  int `yaml:"max_bot_prs"`
	MaxUserPRs int `yaml:"max_user_prs"`
	MaxApprove int `yaml:"max_approve"`
}

// Load reads configuration from the environment and the optional YAML
// override file.
func Load() (*Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := defaults()

	if path, err := overridePath(); err == nil {
		if data, err := os.ReadFile(path); err == nil { // #nosec G304 - config from user's home directory
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.Repository = strings.TrimSpace(os.Getenv(EnvRepository))
	cfg.BotToken = security.NewSecureToken(os.Getenv(EnvToken))
	cfg.UserToken = security.NewSecureToken(os.Getenv(EnvPersonalToken))

	if branch := strings.TrimSpace(os.Getenv(EnvDefaultBranch)); branch != "" {
		cfg.DefaultBranch = branch
	}
	if runID := strings.TrimSpace(os.Getenv(EnvRunID)); runID != "" {
		cfg.RunID = runID
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config populated with built-in defaults.
func defaults() *Config {
	return &Config{
		RunID: uuid.NewString(),
		Labels: LabelsConfig{
			IssueLinked: "has-pr",
			PRLinked:    "has-issue",
		},
		Identities: IdentitiesConfig{
			Bot: IdentityConfig{
				Name:  "auto-ops[bot]",
				Email: "auto-ops-bot@users.noreply.github.com",
			},
			User: IdentityConfig{
				Name:  "Auto Ops",
				Email: "auto-ops@example.com",
			},
		},
		Counts: CountsConfig{
			MaxIssues:  4,
			MaxBotPRs:  4,
			MaxUserPRs: 2,
			MaxApprove: 2,
		},
	}
}

// overridePath returns the location of the optional YAML override file.
func overridePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "auto-ops", "config.yml"), nil
}

// Validate checks that all required configuration values are set.
func (c *Config) Validate() error {
	if c.BotToken.IsEmpty() {
		return errTokenMissing
	}
	if c.UserToken.IsEmpty() {
		return errPersonalTokenMissing
	}
	if c.Repository == "" {
		return errRepositoryMissing
	}
	if c.Labels.IssueLinked == c.Labels.PRLinked {
		return errLabelsEqual
	}
	return nil
}

// Identity returns the commit identity for the given identity tag
// ("bot" or "user").
func (c *Config) Identity(id string) IdentityConfig {
	if id == "user" {
		return c.Identities.User
	}
	return c.Identities.Bot
}
