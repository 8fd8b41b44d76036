package hostapi

import "context"

// Provider defines the unified interface for GitHub and GitLab operations.
//
// All write operations act with the credential the provider was constructed
// with; the orchestrator holds one provider per identity when the automation
// and personal tokens differ.
type Provider interface {
	// CreateIssue opens a new issue and returns its number.
	CreateIssue(ctx context.Context, title, body string) (int, error)

	// CreatePullRequest opens a new pull/merge request and returns its number.
	CreatePullRequest(ctx context.Context, params CreatePullRequestParams) (int, error)

	// ListOpenIssues returns all open issues, ascending by number.
	ListOpenIssues(ctx context.Context) ([]Issue, error)

	// ListOpenPullRequests returns all open pull/merge requests, ascending by
	// number. The ReviewDecision field may be left at ReviewNone by
	// implementations for which it requires an extra call per request; use
	// GetPullRequest for an authoritative decision.
	ListOpenPullRequests(ctx context.Context) ([]PullRequest, error)

	// GetPullRequest fetches a single pull/merge request including its body
	// and current review decision.
	GetPullRequest(ctx context.Context, number int) (*PullRequest, error)

	// AddIssueLabels adds labels to an issue, keeping existing ones.
	AddIssueLabels(ctx context.Context, number int, labels ...string) error

	// AddPullRequestLabels adds labels to a pull/merge request, keeping
	// existing ones.
	AddPullRequestLabels(ctx context.Context, number int, labels ...string) error

	// UpdatePullRequestBody replaces the description of a pull/merge request.
	UpdatePullRequestBody(ctx context.Context, number int, body string) error

	// CommentIssue posts a comment on an issue.
	CommentIssue(ctx context.Context, number int, body string) error

	// CommentPullRequest posts a comment on a pull/merge request.
	CommentPullRequest(ctx context.Context, number int, body string) error

	// ApprovePullRequest records an approving review with the given message.
	ApprovePullRequest(ctx context.Context, number int, message string) error

	// MergePullRequest merges a pull/merge request with a merge commit and
	// deletes the source branch.
	MergePullRequest(ctx context.Context, number int) error

	// CloseIssue closes an issue.
	CloseIssue(ctx context.Context, number int) error

	// EnsureLabel creates the label if it does not exist yet.
	EnsureLabel(ctx context.Context, name, color, description string) error

	// DeleteBranch deletes a branch from the remote repository.
	DeleteBranch(ctx context.Context, branch string) error

	// CloseKeyword returns the platform keyword that, embedded in a request
	// body as "<keyword> #N", closes issue N when the request merges.
	CloseKeyword() string

	// PlatformName returns "GitHub" or "GitLab".
	PlatformName() string
}
