package gitlab

import (
	"context"
	"fmt"
	"sort"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// CreateIssue opens a new issue and returns its IID.
func (c *Client) CreateIssue(ctx context.Context, title, description string) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	issue, _, err := c.client.Issues.CreateIssue(c.projectID, &gitlab.CreateIssueOptions{
		Title:       gitlab.Ptr(title),
		Description: gitlab.Ptr(description),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to create issue: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Issue #%d created", issue.IID))
	return issue.IID, nil
}

// CreateMergeRequest opens a new merge request and returns its IID.
func (c *Client) CreateMergeRequest(ctx context.Context, sourceBranch, targetBranch, title, description string) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	mr, _, err := c.client.MergeRequests.CreateMergeRequest(c.projectID, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(title),
		Description:  gitlab.Ptr(description),
		SourceBranch: gitlab.Ptr(sourceBranch),
		TargetBranch: gitlab.Ptr(targetBranch),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to create merge request: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Merge request !%d created", mr.IID))
	return mr.IID, nil
}

// ListOpenIssues returns all open issues, ascending by IID.
func (c *Client) ListOpenIssues(ctx context.Context) ([]Issue, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	issues, _, err := c.client.Issues.ListProjectIssues(c.projectID, &gitlab.ListProjectIssuesOptions{
		State:       gitlab.Ptr("opened"),
		ListOptions: gitlab.ListOptions{PerPage: maxItemsPerPage},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	result := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, Issue{
			IID:    issue.IID,
			Title:  issue.Title,
			Labels: issue.Labels,
			State:  issue.State,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].IID < result[j].IID })
	return result, nil
}

// ListOpenMergeRequests returns all open merge requests, ascending by IID.
// The Approved field is left false; use GetMergeRequest for it.
func (c *Client) ListOpenMergeRequests(ctx context.Context) ([]MergeRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	mrs, _, err := c.client.MergeRequests.ListProjectMergeRequests(c.projectID, &gitlab.ListProjectMergeRequestsOptions{
		State:       gitlab.Ptr("opened"),
		ListOptions: gitlab.ListOptions{PerPage: maxItemsPerPage},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list merge requests: %w", err)
	}

	result := make([]MergeRequest, 0, len(mrs))
	for _, mr := range mrs {
		result = append(result, MergeRequest{
			IID:          mr.IID,
			Title:        mr.Title,
			Description:  mr.Description,
			Labels:       mr.Labels,
			SourceBranch: mr.SourceBranch,
			State:        mr.State,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].IID < result[j].IID })
	return result, nil
}

// GetMergeRequest fetches a single merge request including its approval state.
func (c *Client) GetMergeRequest(ctx context.Context, mrIID int) (*MergeRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	mr, _, err := c.client.MergeRequests.GetMergeRequest(c.projectID, mrIID, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get merge request !%d: %w", mrIID, err)
	}

	approvals, _, err := c.client.MergeRequestApprovals.GetConfiguration(c.projectID, mrIID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get approvals for !%d: %w", mrIID, err)
	}

	return &MergeRequest{
		IID:          mr.IID,
		Title:        mr.Title,
		Description:  mr.Description,
		Labels:       mr.Labels,
		SourceBranch: mr.SourceBranch,
		Approved:     len(approvals.ApprovedBy) > 0,
		State:        mr.State,
	}, nil
}

// AddIssueLabels adds labels to an issue, keeping existing ones.
func (c *Client) AddIssueLabels(ctx context.Context, issueIID int, labels []string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	addLabels := gitlab.LabelOptions(labels)
	_, _, err := c.client.Issues.UpdateIssue(c.projectID, issueIID, &gitlab.UpdateIssueOptions{
		AddLabels: &addLabels,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to add labels to issue #%d: %w", issueIID, err)
	}
	return nil
}

// AddMergeRequestLabels adds labels to a merge request, keeping existing ones.
func (c *Client) AddMergeRequestLabels(ctx context.Context, mrIID int, labels []string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	addLabels := gitlab.LabelOptions(labels)
	_, _, err := c.client.MergeRequests.UpdateMergeRequest(c.projectID, mrIID, &gitlab.UpdateMergeRequestOptions{
		AddLabels: &addLabels,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to add labels to merge request !%d: %w", mrIID, err)
	}
	return nil
}

// UpdateMergeRequestDescription replaces the description of a merge request.
func (c *Client) UpdateMergeRequestDescription(ctx context.Context, mrIID int, description string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.MergeRequests.UpdateMergeRequest(c.projectID, mrIID, &gitlab.UpdateMergeRequestOptions{
		Description: gitlab.Ptr(description),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to update merge request !%d description: %w", mrIID, err)
	}
	return nil
}

// CommentIssue posts a note on an issue.
func (c *Client) CommentIssue(ctx context.Context, issueIID int, body string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Notes.CreateIssueNote(c.projectID, issueIID, &gitlab.CreateIssueNoteOptions{
		Body: gitlab.Ptr(body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to comment on issue #%d: %w", issueIID, err)
	}
	return nil
}

// CommentMergeRequest posts a note on a merge request.
func (c *Client) CommentMergeRequest(ctx context.Context, mrIID int, body string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Notes.CreateMergeRequestNote(c.projectID, mrIID, &gitlab.CreateMergeRequestNoteOptions{
		Body: gitlab.Ptr(body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to comment on merge request !%d: %w", mrIID, err)
	}
	return nil
}

// ApproveMergeRequest approves a merge request and posts the review message
// as a note.
func (c *Client) ApproveMergeRequest(ctx context.Context, mrIID int, message string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.MergeRequestApprovals.ApproveMergeRequest(c.projectID, mrIID, nil, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to approve merge request !%d: %w", mrIID, err)
	}

	if message == "" {
		return nil
	}
	return c.CommentMergeRequest(ctx, mrIID, message)
}

// AcceptMergeRequest merges a merge request with a merge commit and removes
// the source branch.
func (c *Client) AcceptMergeRequest(ctx context.Context, mrIID int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.MergeRequests.AcceptMergeRequest(c.projectID, mrIID, &gitlab.AcceptMergeRequestOptions{
		ShouldRemoveSourceBranch: gitlab.Ptr(true),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to merge merge request !%d: %w", mrIID, err)
	}
	return nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, issueIID int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Issues.UpdateIssue(c.projectID, issueIID, &gitlab.UpdateIssueOptions{
		StateEvent: gitlab.Ptr("close"),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to close issue #%d: %w", issueIID, err)
	}
	return nil
}

// EnsureLabel creates the label if it does not exist yet.
func (c *Client) EnsureLabel(ctx context.Context, name, color, description string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Labels.GetLabel(c.projectID, name, gitlab.WithContext(ctx))
	if err == nil {
		return nil
	}

	c.log.Debug(fmt.Sprintf("Creating label %q", name))
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, _, err = c.client.Labels.CreateLabel(c.projectID, &gitlab.CreateLabelOptions{
		Name:        gitlab.Ptr(name),
		Color:       gitlab.Ptr(color),
		Description: gitlab.Ptr(description),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return nil
}

// DeleteBranch deletes a branch from the project.
func (c *Client) DeleteBranch(ctx context.Context, branch string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	_, err := c.client.Branches.DeleteBranch(c.projectID, branch, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}
