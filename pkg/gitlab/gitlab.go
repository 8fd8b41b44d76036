// Package gitlab provides GitLab API client operations.
package gitlab

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sgaunet/auto-ops/internal/logger"
	"github.com/sgaunet/auto-ops/internal/urlutil"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"
)

// Constants for GitLab API operations.
const (
	maxItemsPerPage = 100
	minPathParts    = 2
	requestsPerSec  = 2
)

// Client represents a GitLab API client wrapper.
type Client struct {
	client    *gitlab.Client
	projectID string
	limiter   *rate.Limiter
	log       logger.Logger
}

// Issue represents a GitLab issue.
type Issue struct {
	IID    int
	Title  string
	Labels []string
	State  string
}

// MergeRequest represents a GitLab merge request.
type MergeRequest struct {
	IID          int
	Title        string
	Description  string
	Labels       []string
	SourceBranch string
	Approved     bool
	State        string
}

// NewClient creates a new GitLab client authenticated with the given token.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, errTokenRequired
	}

	client, err := gitlab.NewClient(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second/requestsPerSec), 1),
		log:     logger.NoLogger(),
	}, nil
}

// SetLogger sets the logger used by the client.
func (c *Client) SetLogger(log logger.Logger) {
	c.log = log
}

// SetProject sets the target project and validates that it exists. Accepts
// a "group/project" path or a full git remote URL.
func (c *Client) SetProject(ctx context.Context, path string) error {
	if strings.Contains(path, "://") || strings.HasPrefix(path, "git@") {
		path = urlutil.ExtractPathComponents(strings.TrimSuffix(path, ".git"), minPathParts)
	}

	if err := c.wait(ctx); err != nil {
		return err
	}

	project, _, err := c.client.Projects.GetProject(path, nil, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to get project information: %w", err)
	}

	c.projectID = strconv.Itoa(project.ID)
	c.log.Debug(fmt.Sprintf("GitLab project set: %s (ID %s)", path, c.projectID))
	return nil
}

// wait blocks until the client-side rate limiter admits another API call.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}
	return nil
}
