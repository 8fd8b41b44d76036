// Package hostapi provides a unified abstraction layer for GitHub and GitLab
// repository activity operations.
//
// The [Provider] interface defines a common API for issue and pull/merge
// request lifecycle operations that both platforms implement. This allows the
// orchestration logic to be platform-agnostic and testable against an
// in-memory fake.
//
// Use [NewProvider] to create the appropriate adapter based on the detected
// platform:
//
//	provider, err := hostapi.NewProvider(git.PlatformGitHub, cfg.Repository, token, logger)
//	number, _ := provider.CreateIssue(ctx, "title", "body")
//	provider.AddIssueLabels(ctx, number, "has-pr")
package hostapi

// ReviewDecision is the aggregate approval status of a pull request as
// reported by the platform.
type ReviewDecision string

// Review decisions.
const (
	ReviewNone             ReviewDecision = ""
	ReviewApproved         ReviewDecision = "approved"
	ReviewChangesRequested ReviewDecision = "changes_requested"
)

// Identity selects which credential performs write operations and which tag
// is embedded in fabricated branch names.
type Identity string

// Identities.
const (
	IdentityBot  Identity = "bot"
	IdentityUser Identity = "user"
)

// BranchTag returns the identity marker embedded in fabricated branch names.
// Bot-authored pull requests are later recognized by this substring, not by
// the platform's author field.
func (i Identity) BranchTag() string {
	if i == IdentityUser {
		return "user-pr"
	}
	return "bot-pr"
}

// Issue represents a platform-agnostic issue.
type Issue struct {
	Number int
	Title  string
	Labels []string
	State  string
}

// PullRequest represents a platform-agnostic pull/merge request.
type PullRequest struct {
	Number         int // GitHub: PR number; GitLab: MR IID
	Title          string
	Body           string
	Labels         []string
	HeadBranch     string
	ReviewDecision ReviewDecision
	State          string
}

// HasLabel reports whether the issue carries the given label.
func (i Issue) HasLabel(name string) bool {
	return hasLabel(i.Labels, name)
}

// HasLabel reports whether the pull request carries the given label.
func (pr PullRequest) HasLabel(name string) bool {
	return hasLabel(pr.Labels, name)
}

func hasLabel(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

// Link is a pairing between one issue and one pull request. It is never
// stored by the platform as a first-class record: the relation is encoded as
// linking labels on both sides, a closing-reference token in the pull request
// body, and cross-reference comments. A Link value is how the orchestrator
// reports which pairs it acted upon.
type Link struct {
	IssueNumber int
	PRNumber    int
}

// CreatePullRequestParams holds parameters for opening a pull/merge request.
type CreatePullRequestParams struct {
	Title      string
	Body       string
	HeadBranch string
	BaseBranch string
}
