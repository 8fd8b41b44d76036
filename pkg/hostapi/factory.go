package hostapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgaunet/auto-ops/internal/logger"
	"github.com/sgaunet/auto-ops/internal/security"
	"github.com/sgaunet/auto-ops/pkg/git"
	ghclient "github.com/sgaunet/auto-ops/pkg/github"
	glclient "github.com/sgaunet/auto-ops/pkg/gitlab"
)

// errUnsupportedPlatform is returned when the detected platform is not supported.
var errUnsupportedPlatform = errors.New("unsupported platform")

// NewProvider creates the appropriate Provider implementation for the
// detected platform, authenticated with the given token and bound to the
// given repository ("owner/repo" on GitHub, "group/project" on GitLab).
//
//nolint:ireturn // Factory function must return interface to enable platform abstraction.
func NewProvider(
	ctx context.Context,
	p git.Platform,
	repository string,
	token security.SecureToken,
	log logger.Logger,
) (Provider, error) {
	switch p {
	case git.PlatformGitLab:
		client, err := glclient.NewClient(token.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to create GitLab client: %w", err)
		}
		client.SetLogger(log)
		if err := client.SetProject(ctx, repository); err != nil {
			return nil, fmt.Errorf("failed to set GitLab project: %w", err)
		}
		return NewGitLabAdapter(client), nil

	case git.PlatformGitHub:
		client, err := ghclient.NewClient(token.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub client: %w", err)
		}
		client.SetLogger(log)
		if err := client.SetRepository(ctx, repository); err != nil {
			return nil, fmt.Errorf("failed to set GitHub repository: %w", err)
		}
		return NewGitHubAdapter(client), nil

	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedPlatform, p)
	}
}
