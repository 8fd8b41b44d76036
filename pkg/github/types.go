package github

import (
	"time"

	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/auto-ops/internal/logger"
	"golang.org/x/time/rate"
)

// Constants for GitHub API operations.
const (
	minRepoParts     = 2
	maxItemsPerPage  = 100
	requestsPerSec   = 2
	reviewApproved   = "APPROVED"
	reviewChangesReq = "CHANGES_REQUESTED"
	reviewCommented  = "COMMENTED"
)

// Client represents a GitHub API client wrapper.
type Client struct {
	client  *github.Client
	owner   string
	repo    string
	limiter *rate.Limiter
	log     logger.Logger
}

// Issue represents a GitHub issue.
type Issue struct {
	Number int
	Title  string
	Labels []string
	State  string
}

// PullRequest represents a GitHub pull request.
type PullRequest struct {
	Number         int
	Title          string
	Body           string
	Labels         []string
	HeadBranch     string
	ReviewDecision string // "", "APPROVED" or "CHANGES_REQUESTED"
	State          string
}

// newLimiter returns the client-side rate limiter shared by all API calls.
func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Second/requestsPerSec), 1)
}
