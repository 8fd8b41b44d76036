// Package github provides GitHub API client operations.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/auto-ops/internal/logger"
	"github.com/sgaunet/auto-ops/internal/urlutil"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client authenticated with the given token.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, errTokenRequired
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client:  github.NewClient(tc),
		limiter: newLimiter(),
		log:     logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger used by the client.
func (c *Client) SetLogger(log logger.Logger) {
	c.log = log
}

// SetRepository sets the target repository and validates that it exists.
// Accepts an "owner/repo" identifier or a full git remote URL.
func (c *Client) SetRepository(ctx context.Context, fullName string) error {
	if strings.Contains(fullName, "://") || strings.HasPrefix(fullName, "git@") {
		fullName = urlutil.ExtractPathComponents(strings.TrimSuffix(fullName, ".git"), minRepoParts)
	}

	parts := strings.Split(fullName, "/")
	if len(parts) != minRepoParts || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: %q", errInvalidRepoName, fullName)
	}

	c.owner = parts[0]
	c.repo = parts[1]

	c.log.Debug(fmt.Sprintf("Setting GitHub repository: %s/%s", c.owner, c.repo))
	if err := c.wait(ctx); err != nil {
		return err
	}
	// Validate repository exists
	_, _, err := c.client.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return fmt.Errorf("failed to get repository information: %w", err)
	}

	c.log.Debug("GitHub repository set successfully")
	return nil
}

// wait blocks until the client-side rate limiter admits another API call.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}
	return nil
}
