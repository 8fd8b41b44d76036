package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-github/v69/github"
)

// CreateIssue opens a new issue and returns its number.
func (c *Client) CreateIssue(ctx context.Context, title, body string) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	issue, _, err := c.client.Issues.Create(ctx, c.owner, c.repo, &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create issue: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Issue #%d created", issue.GetNumber()))
	return issue.GetNumber(), nil
}

// CreatePullRequest opens a new pull request and returns its number.
func (c *Client) CreatePullRequest(ctx context.Context, head, base, title, body string) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	pr, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create pull request: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Pull request #%d created", pr.GetNumber()))
	return pr.GetNumber(), nil
}

// ListOpenIssues returns all open issues, ascending by number. Pull requests,
// which the GitHub issues API also returns, are filtered out.
func (c *Client) ListOpenIssues(ctx context.Context) ([]Issue, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	issues, _, err := c.client.Issues.ListByRepo(ctx, c.owner, c.repo, &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: maxItemsPerPage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	result := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		result = append(result, Issue{
			Number: issue.GetNumber(),
			Title:  issue.GetTitle(),
			Labels: labelNames(issue.Labels),
			State:  issue.GetState(),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// ListOpenPullRequests returns all open pull requests, ascending by number.
// The ReviewDecision field is left empty; use GetPullRequest for it.
func (c *Client) ListOpenPullRequests(ctx context.Context) ([]PullRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: maxItemsPerPage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	result := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, PullRequest{
			Number:     pr.GetNumber(),
			Title:      pr.GetTitle(),
			Body:       pr.GetBody(),
			Labels:     labelNames(pr.Labels),
			HeadBranch: pr.GetHead().GetRef(),
			State:      pr.GetState(),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// GetPullRequest fetches a single pull request including its current review
// decision, computed from the latest review of each reviewer.
func (c *Client) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}

	decision, err := c.reviewDecision(ctx, number)
	if err != nil {
		return nil, err
	}

	return &PullRequest{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
		Labels:         labelNames(pr.Labels),
		HeadBranch:     pr.GetHead().GetRef(),
		ReviewDecision: decision,
		State:          pr.GetState(),
	}, nil
}

// reviewDecision derives the aggregate review decision from the latest
// non-comment review of each reviewer. A request for changes by any reviewer
// outweighs approvals.
func (c *Client) reviewDecision(ctx context.Context, number int) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	reviews, _, err := c.client.PullRequests.ListReviews(ctx, c.owner, c.repo, number,
		&github.ListOptions{PerPage: maxItemsPerPage})
	if err != nil {
		return "", fmt.Errorf("failed to list reviews for #%d: %w", number, err)
	}

	latest := make(map[string]string)
	for _, review := range reviews {
		state := review.GetState()
		if state == reviewCommented {
			continue
		}
		latest[review.GetUser().GetLogin()] = state
	}

	decision := ""
	for _, state := range latest {
		if state == reviewChangesReq {
			return reviewChangesReq, nil
		}
		if state == reviewApproved {
			decision = reviewApproved
		}
	}
	return decision, nil
}

// AddLabels adds labels to an issue or pull request, keeping existing ones.
// Pull requests share the issue numbering on GitHub.
func (c *Client) AddLabels(ctx context.Context, number int, labels []string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels to #%d: %w", number, err)
	}
	return nil
}

// EditPullRequestBody replaces the description of a pull request.
func (c *Client) EditPullRequestBody(ctx context.Context, number int, body string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, &github.PullRequest{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("failed to edit pull request #%d body: %w", number, err)
	}
	return nil
}

// Comment posts a comment on an issue or pull request.
func (c *Client) Comment(ctx context.Context, number int, body string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("failed to comment on #%d: %w", number, err)
	}
	return nil
}

// ApprovePullRequest records an approving review with the given message.
func (c *Client) ApprovePullRequest(ctx context.Context, number int, message string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.PullRequests.CreateReview(ctx, c.owner, c.repo, number,
		&github.PullRequestReviewRequest{
			Event: github.Ptr("APPROVE"),
			Body:  github.Ptr(message),
		})
	if err != nil {
		return fmt.Errorf("failed to approve pull request #%d: %w", number, err)
	}
	return nil
}

// MergePullRequest merges a pull request with a merge commit and deletes the
// source branch afterwards.
func (c *Client) MergePullRequest(ctx context.Context, number int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	head := pr.GetHead().GetRef()

	if err := c.wait(ctx); err != nil {
		return err
	}
	_, _, err = c.client.PullRequests.Merge(ctx, c.owner, c.repo, number, "",
		&github.PullRequestOptions{MergeMethod: "merge"})
	if err != nil {
		return fmt.Errorf("failed to merge pull request #%d: %w", number, err)
	}

	if err := c.DeleteBranch(ctx, head); err != nil {
		return err
	}
	return nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, number, &github.IssueRequest{
		State: github.Ptr("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close issue #%d: %w", number, err)
	}
	return nil
}

// EnsureLabel creates the label if it does not exist yet.
func (c *Client) EnsureLabel(ctx context.Context, name, color, description string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Issues.GetLabel(ctx, c.owner, c.repo, name)
	if err == nil {
		return nil
	}

	c.log.Debug(fmt.Sprintf("Creating label %q", name))
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, _, err = c.client.Issues.CreateLabel(ctx, c.owner, c.repo, &github.Label{
		Name:        github.Ptr(name),
		Color:       github.Ptr(strings.TrimPrefix(color, "#")),
		Description: github.Ptr(description),
	})
	if err != nil {
		return fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return nil
}

// DeleteBranch deletes a branch from the remote repository.
func (c *Client) DeleteBranch(ctx context.Context, branch string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, err := c.client.Git.DeleteRef(ctx, c.owner, c.repo, "heads/"+branch)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}

// labelNames extracts the names from a list of GitHub labels.
func labelNames(labels []*github.Label) []string {
	names := make([]string, len(labels))
	for i, label := range labels {
		names[i] = label.GetName()
	}
	return names
}
