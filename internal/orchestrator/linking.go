package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sgaunet/auto-ops/pkg/hostapi"
)

// LinkPairs pairs open unlinked issues with open unlinked pull requests and
// returns the links acted upon. Both queues are ordered ascending by number,
// so the oldest items pair first. Pairing stops when either queue is empty
// or max pairs were formed (max <= 0 means no cap). Empty queues are not an
// error.
//
// Items already carrying a linking label are excluded by the input queries,
// which is what makes re-running after a crash safe: a half-completed link
// (label applied, later step failed) stays out of future pairings.
func (o *Orchestrator) LinkPairs(ctx context.Context, max int) ([]hostapi.Link, error) {
	o.log.Info("Processing link queue")

	issues, err := o.unlinkedIssues(ctx)
	if err != nil {
		return nil, err
	}
	prs, err := o.unlinkedPullRequests(ctx)
	if err != nil {
		return nil, err
	}

	var links []hostapi.Link
	for len(issues) > 0 && len(prs) > 0 {
		if max > 0 && len(links) >= max {
			break
		}

		issue := issues[0]
		issues = issues[1:]
		pr := prs[0]
		prs = prs[1:]

		if err := o.linkPair(ctx, issue, pr); err != nil {
			return links, err
		}
		links = append(links, hostapi.Link{IssueNumber: issue.Number, PRNumber: pr.Number})
	}

	o.log.Info("Link queue processed", "pairs", len(links))
	return links, nil
}

// unlinkedIssues returns open issues lacking the issue-side linking label,
// ascending by number.
func (o *Orchestrator) unlinkedIssues(ctx context.Context) ([]hostapi.Issue, error) {
	issues, err := o.bot.ListOpenIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open issues: %w", err)
	}

	result := make([]hostapi.Issue, 0, len(issues))
	for _, issue := range issues {
		if !issue.HasLabel(o.cfg.Labels.IssueLinked) {
			result = append(result, issue)
		}
	}
	return result, nil
}

// unlinkedPullRequests returns open pull requests lacking the PR-side
// linking label, ascending by number.
func (o *Orchestrator) unlinkedPullRequests(ctx context.Context) ([]hostapi.PullRequest, error) {
	prs, err := o.bot.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests: %w", err)
	}

	result := make([]hostapi.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if !pr.HasLabel(o.cfg.Labels.PRLinked) {
			result = append(result, pr)
		}
	}
	return result, nil
}

// linkPair encodes the link between one issue and one pull request: linking
// labels on both sides, a cross-reference comment on each, and a closing
// reference token appended to the pull request body. The label goes on
// first on each side so a crash mid-link leaves the item excluded from
// future pairings rather than double-linked.
func (o *Orchestrator) linkPair(ctx context.Context, issue hostapi.Issue, pr hostapi.PullRequest) error {
	o.log.Info("Linking pull request to issue", "pr", pr.Number, "issue", issue.Number)

	if err := o.bot.AddIssueLabels(ctx, issue.Number, o.cfg.Labels.IssueLinked); err != nil {
		return fmt.Errorf("failed to label issue #%d: %w", issue.Number, err)
	}
	if err := o.bot.CommentIssue(ctx, issue.Number, fmt.Sprintf("Linked to PR #%d", pr.Number)); err != nil {
		return fmt.Errorf("failed to comment on issue #%d: %w", issue.Number, err)
	}

	if err := o.bot.AddPullRequestLabels(ctx, pr.Number, o.cfg.Labels.PRLinked); err != nil {
		return fmt.Errorf("failed to label pull request #%d: %w", pr.Number, err)
	}
	if err := o.appendCloseReference(ctx, pr.Number, issue.Number); err != nil {
		return err
	}
	if err := o.bot.CommentPullRequest(ctx, pr.Number, fmt.Sprintf("Linked to Issue #%d", issue.Number)); err != nil {
		return fmt.Errorf("failed to comment on pull request #%d: %w", pr.Number, err)
	}

	return nil
}

// appendCloseReference appends the platform's closing-reference token for
// the issue to the pull request body, preserving existing content. The token
// is what makes the platform close the issue when the pull request merges.
func (o *Orchestrator) appendCloseReference(ctx context.Context, prNumber, issueNumber int) error {
	// Re-fetch for the current body; the listing may be stale.
	pr, err := o.bot.GetPullRequest(ctx, prNumber)
	if err != nil {
		return fmt.Errorf("failed to fetch pull request #%d: %w", prNumber, err)
	}

	reference := fmt.Sprintf("%s #%d", o.bot.CloseKeyword(), issueNumber)
	newBody := strings.TrimSpace(pr.Body + "\n\n" + reference)

	if err := o.bot.UpdatePullRequestBody(ctx, prNumber, newBody); err != nil {
		return fmt.Errorf("failed to update pull request #%d body: %w", prNumber, err)
	}
	return nil
}
