package hostapi

import (
	"context"

	glclient "github.com/sgaunet/auto-ops/pkg/gitlab"
)

// gitlabAdapter adapts the GitLab client to the Provider interface. Merge
// requests are surfaced as pull requests; IIDs are surfaced as numbers.
type gitlabAdapter struct {
	client *glclient.Client
}

// NewGitLabAdapter wraps a GitLab client as a Provider.
//
//nolint:ireturn // Adapter constructor returns the interface by design.
func NewGitLabAdapter(client *glclient.Client) Provider {
	return &gitlabAdapter{client: client}
}

func (a *gitlabAdapter) CreateIssue(ctx context.Context, title, body string) (int, error) {
	return a.client.CreateIssue(ctx, title, body)
}

func (a *gitlabAdapter) CreatePullRequest(ctx context.Context, params CreatePullRequestParams) (int, error) {
	return a.client.CreateMergeRequest(ctx, params.HeadBranch, params.BaseBranch, params.Title, params.Body)
}

func (a *gitlabAdapter) ListOpenIssues(ctx context.Context) ([]Issue, error) {
	issues, err := a.client.ListOpenIssues(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Issue, len(issues))
	for i, issue := range issues {
		result[i] = Issue{
			Number: issue.IID,
			Title:  issue.Title,
			Labels: issue.Labels,
			State:  issue.State,
		}
	}
	return result, nil
}

func (a *gitlabAdapter) ListOpenPullRequests(ctx context.Context) ([]PullRequest, error) {
	mrs, err := a.client.ListOpenMergeRequests(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]PullRequest, len(mrs))
	for i, mr := range mrs {
		result[i] = convertMergeRequest(mr)
	}
	return result, nil
}

func (a *gitlabAdapter) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	mr, err := a.client.GetMergeRequest(ctx, number)
	if err != nil {
		return nil, err
	}
	converted := convertMergeRequest(*mr)
	return &converted, nil
}

func (a *gitlabAdapter) AddIssueLabels(ctx context.Context, number int, labels ...string) error {
	return a.client.AddIssueLabels(ctx, number, labels)
}

func (a *gitlabAdapter) AddPullRequestLabels(ctx context.Context, number int, labels ...string) error {
	return a.client.AddMergeRequestLabels(ctx, number, labels)
}

func (a *gitlabAdapter) UpdatePullRequestBody(ctx context.Context, number int, body string) error {
	return a.client.UpdateMergeRequestDescription(ctx, number, body)
}

func (a *gitlabAdapter) CommentIssue(ctx context.Context, number int, body string) error {
	return a.client.CommentIssue(ctx, number, body)
}

func (a *gitlabAdapter) CommentPullRequest(ctx context.Context, number int, body string) error {
	return a.client.CommentMergeRequest(ctx, number, body)
}

func (a *gitlabAdapter) ApprovePullRequest(ctx context.Context, number int, message string) error {
	return a.client.ApproveMergeRequest(ctx, number, message)
}

func (a *gitlabAdapter) MergePullRequest(ctx context.Context, number int) error {
	// GitLab removes the source branch as part of the accept call.
	return a.client.AcceptMergeRequest(ctx, number)
}

func (a *gitlabAdapter) CloseIssue(ctx context.Context, number int) error {
	return a.client.CloseIssue(ctx, number)
}

func (a *gitlabAdapter) EnsureLabel(ctx context.Context, name, color, description string) error {
	// GitLab expects colors with a leading '#'.
	if color != "" && color[0] != '#' {
		color = "#" + color
	}
	return a.client.EnsureLabel(ctx, name, color, description)
}

func (a *gitlabAdapter) DeleteBranch(ctx context.Context, branch string) error {
	return a.client.DeleteBranch(ctx, branch)
}

func (a *gitlabAdapter) CloseKeyword() string {
	return "Closes"
}

func (a *gitlabAdapter) PlatformName() string {
	return "GitLab"
}

func convertMergeRequest(mr glclient.MergeRequest) PullRequest {
	decision := ReviewNone
	if mr.Approved {
		decision = ReviewApproved
	}

	return PullRequest{
		Number:         mr.IID,
		Title:          mr.Title,
		Body:           mr.Description,
		Labels:         mr.Labels,
		HeadBranch:     mr.SourceBranch,
		ReviewDecision: decision,
		State:          mr.State,
	}
}
