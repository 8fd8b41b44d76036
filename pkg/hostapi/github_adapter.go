package hostapi

import (
	"context"

	ghclient "github.com/sgaunet/auto-ops/pkg/github"
)

// githubAdapter adapts the GitHub client to the Provider interface.
type githubAdapter struct {
	client *ghclient.Client
}

// NewGitHubAdapter wraps a GitHub client as a Provider.
//
//nolint:ireturn // Adapter constructor returns the interface by design.
func NewGitHubAdapter(client *ghclient.Client) Provider {
	return &githubAdapter{client: client}
}

func (a *githubAdapter) CreateIssue(ctx context.Context, title, body string) (int, error) {
	return a.client.CreateIssue(ctx, title, body)
}

func (a *githubAdapter) CreatePullRequest(ctx context.Context, params CreatePullRequestParams) (int, error) {
	return a.client.CreatePullRequest(ctx, params.HeadBranch, params.BaseBranch, params.Title, params.Body)
}

func (a *githubAdapter) ListOpenIssues(ctx context.Context) ([]Issue, error) {
	issues, err := a.client.ListOpenIssues(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Issue, len(issues))
	for i, issue := range issues {
		result[i] = Issue{
			Number: issue.Number,
			Title:  issue.Title,
			Labels: issue.Labels,
			State:  issue.State,
		}
	}
	return result, nil
}

func (a *githubAdapter) ListOpenPullRequests(ctx context.Context) ([]PullRequest, error) {
	prs, err := a.client.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]PullRequest, len(prs))
	for i, pr := range prs {
		result[i] = convertGitHubPR(pr)
	}
	return result, nil
}

func (a *githubAdapter) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	pr, err := a.client.GetPullRequest(ctx, number)
	if err != nil {
		return nil, err
	}
	converted := convertGitHubPR(*pr)
	return &converted, nil
}

func (a *githubAdapter) AddIssueLabels(ctx context.Context, number int, labels ...string) error {
	return a.client.AddLabels(ctx, number, labels)
}

func (a *githubAdapter) AddPullRequestLabels(ctx context.Context, number int, labels ...string) error {
	// Pull requests share the issue numbering on GitHub.
	return a.client.AddLabels(ctx, number, labels)
}

func (a *githubAdapter) UpdatePullRequestBody(ctx context.Context, number int, body string) error {
	return a.client.EditPullRequestBody(ctx, number, body)
}

func (a *githubAdapter) CommentIssue(ctx context.Context, number int, body string) error {
	return a.client.Comment(ctx, number, body)
}

func (a *githubAdapter) CommentPullRequest(ctx context.Context, number int, body string) error {
	return a.client.Comment(ctx, number, body)
}

func (a *githubAdapter) ApprovePullRequest(ctx context.Context, number int, message string) error {
	return a.client.ApprovePullRequest(ctx, number, message)
}

func (a *githubAdapter) MergePullRequest(ctx context.Context, number int) error {
	return a.client.MergePullRequest(ctx, number)
}

func (a *githubAdapter) CloseIssue(ctx context.Context, number int) error {
	return a.client.CloseIssue(ctx, number)
}

func (a *githubAdapter) EnsureLabel(ctx context.Context, name, color, description string) error {
	return a.client.EnsureLabel(ctx, name, color, description)
}

func (a *githubAdapter) DeleteBranch(ctx context.Context, branch string) error {
	return a.client.DeleteBranch(ctx, branch)
}

func (a *githubAdapter) CloseKeyword() string {
	return "Fixes"
}

func (a *githubAdapter) PlatformName() string {
	return "GitHub"
}

func convertGitHubPR(pr ghclient.PullRequest) PullRequest {
	decision := ReviewNone
	switch pr.ReviewDecision {
	case "APPROVED":
		decision = ReviewApproved
	case "CHANGES_REQUESTED":
		decision = ReviewChangesRequested
	}

	return PullRequest{
		Number:         pr.Number,
		Title:          pr.Title,
		Body:           pr.Body,
		Labels:         pr.Labels,
		HeadBranch:     pr.HeadBranch,
		ReviewDecision: decision,
		State:          pr.State,
	}
}
