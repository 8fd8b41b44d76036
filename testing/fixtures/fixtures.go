// Package fixtures provides shared test data builders.
package fixtures

import (
	"fmt"

	"github.com/sgaunet/auto-ops/internal/security"
	"github.com/sgaunet/auto-ops/pkg/config"
	"github.com/sgaunet/auto-ops/pkg/hostapi"
)

// TestConfig returns a fully populated configuration suitable for tests.
func TestConfig() *config.Config {
	return &config.Config{
		Repository:    "owner/repo",
		DefaultBranch: "main",
		RunID:         "test-run",
		BotToken:      security.NewSecureToken("bot-token-1234567890"),
		UserToken:     security.NewSecureToken("user-token-1234567890"),
		Labels: config.LabelsConfig{
			IssueLinked: "has-pr",
			PRLinked:    "has-issue",
		},
		Identities: config.IdentitiesConfig{
			Bot:  config.IdentityConfig{Name: "bot", Email: "bot@example.com"},
			User: config.IdentityConfig{Name: "user", Email: "user@example.com"},
		},
		Counts: config.CountsConfig{
			MaxIssues:  4,
			MaxBotPRs:  4,
			MaxUserPRs: 2,
			MaxApprove: 2,
		},
	}
}

// OpenIssue returns an open issue without linking labels.
func OpenIssue(number int) hostapi.Issue {
	return hostapi.Issue{
		Number: number,
		Title:  "Random Issue fixture",
		State:  "open",
	}
}

// LinkedIssue returns an open issue already carrying the linking label.
func LinkedIssue(number int) hostapi.Issue {
	issue := OpenIssue(number)
	issue.Labels = []string{"has-pr"}
	return issue
}

// BotPullRequest returns an open bot pull request without linking labels.
func BotPullRequest(number, day, index int) hostapi.PullRequest {
	return hostapi.PullRequest{
		Number:     number,
		Title:      "Random PR fixture",
		HeadBranch: branchName(hostapi.IdentityBot, day, index),
		State:      "open",
	}
}

// UserPullRequest returns an open user pull request without linking labels.
func UserPullRequest(number, day, index int) hostapi.PullRequest {
	return hostapi.PullRequest{
		Number:     number,
		Title:      "Random PR fixture",
		HeadBranch: branchName(hostapi.IdentityUser, day, index),
		State:      "open",
	}
}

func branchName(id hostapi.Identity, day, index int) string {
	return fmt.Sprintf("auto/%s-%d-%d-4242", id.BranchTag(), day, index)
}
