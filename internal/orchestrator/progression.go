package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sgaunet/auto-ops/pkg/hostapi"
)

// ApproveBotPRs approves up to k linked bot pull requests that exist on the
// platform, using the personal credential, and returns how many were
// approved. Bot authorship is recognized by the branch-name tag, not by the
// platform's author field. Selection follows the platform's listing order.
func (o *Orchestrator) ApproveBotPRs(ctx context.Context, k int) (int, error) {
	o.log.Info("Approving bot pull requests", "max", k)

	prs, err := o.linkedPullRequests(ctx, hostapi.IdentityBot)
	if err != nil {
		return 0, err
	}

	approved := 0
	for _, pr := range prs {
		if approved >= k {
			break
		}
		if ok, err := o.confirmed(fmt.Sprintf("Approve pull request #%d?", pr.Number)); err != nil {
			return approved, err
		} else if !ok {
			continue
		}

		o.log.Info("Approving pull request", "number", pr.Number)
		if err := o.user.ApprovePullRequest(ctx, pr.Number, approveMessage); err != nil {
			return approved, fmt.Errorf("failed to approve pull request #%d: %w", pr.Number, err)
		}
		approved++
	}

	o.log.Info("Bot pull requests approved", "count", approved)
	return approved, nil
}

// MergeLinked merges linked pull requests of the given identity class and
// returns the numbers merged. User pull requests merge unconditionally once
// linked; bot pull requests merge only when their freshly queried review
// decision is approved, and are otherwise skipped for this run.
func (o *Orchestrator) MergeLinked(ctx context.Context, id hostapi.Identity) ([]int, error) {
	o.log.Info("Merging linked pull requests", "identity", string(id))

	prs, err := o.linkedPullRequests(ctx, id)
	if err != nil {
		return nil, err
	}

	var merged []int
	for _, pr := range prs {
		if id == hostapi.IdentityBot {
			// The listing does not carry a reliable review decision;
			// re-fetch before gating.
			fresh, err := o.bot.GetPullRequest(ctx, pr.Number)
			if err != nil {
				return merged, fmt.Errorf("failed to fetch pull request #%d: %w", pr.Number, err)
			}
			if fresh.ReviewDecision != hostapi.ReviewApproved {
				o.log.Debug("Skipping unapproved bot pull request", "number", pr.Number)
				continue
			}
		}

		if ok, err := o.confirmed(fmt.Sprintf("Merge pull request #%d?", pr.Number)); err != nil {
			return merged, err
		} else if !ok {
			continue
		}

		o.log.Info("Merging pull request", "number", pr.Number)
		if err := o.user.MergePullRequest(ctx, pr.Number); err != nil {
			return merged, fmt.Errorf("failed to merge pull request #%d: %w", pr.Number, err)
		}
		merged = append(merged, pr.Number)
	}

	o.log.Info("Linked pull requests merged", "count", len(merged))
	return merged, nil
}

// CloseLinkedIssues closes open linked issues whose paired pull request is
// no longer open. The pairing is reconstructed from the closing-reference
// tokens in open pull request bodies: a linked issue referenced by no open
// pull request had its pair merged or closed.
//
// The daily recipe does not call this; the platform is expected to close
// issues itself when a pull request carrying the reference token merges.
// This exists as a manual reconciliation path.
func (o *Orchestrator) CloseLinkedIssues(ctx context.Context) ([]int, error) {
	o.log.Info("Closing issues whose paired pull request is gone")

	issues, err := o.bot.ListOpenIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open issues: %w", err)
	}
	prs, err := o.bot.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests: %w", err)
	}

	referenced := make(map[int]bool)
	keyword := o.bot.CloseKeyword()
	for _, pr := range prs {
		for _, n := range referencedIssues(pr.Body, keyword) {
			referenced[n] = true
		}
	}

	var closed []int
	for _, issue := range issues {
		if !issue.HasLabel(o.cfg.Labels.IssueLinked) || referenced[issue.Number] {
			continue
		}
		if ok, err := o.confirmed(fmt.Sprintf("Close issue #%d?", issue.Number)); err != nil {
			return closed, err
		} else if !ok {
			continue
		}

		o.log.Info("Closing issue", "number", issue.Number)
		if err := o.bot.CloseIssue(ctx, issue.Number); err != nil {
			return closed, fmt.Errorf("failed to close issue #%d: %w", issue.Number, err)
		}
		closed = append(closed, issue.Number)
	}

	o.log.Info("Issues closed", "count", len(closed))
	return closed, nil
}

// linkedPullRequests returns open pull requests carrying the linking label
// whose branch name carries the identity tag, in platform listing order.
func (o *Orchestrator) linkedPullRequests(ctx context.Context, id hostapi.Identity) ([]hostapi.PullRequest, error) {
	prs, err := o.bot.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests: %w", err)
	}

	tag := id.BranchTag()
	result := make([]hostapi.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr.HasLabel(o.cfg.Labels.PRLinked) && strings.Contains(pr.HeadBranch, tag) {
			result = append(result, pr)
		}
	}
	return result, nil
}

// confirmed consults the interactive confirmation hook when one is set.
func (o *Orchestrator) confirmed(message string) (bool, error) {
	if o.confirm == nil {
		return true, nil
	}
	ok, err := o.confirm(message)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		o.log.Info("Skipped by operator", "action", message)
	}
	return ok, nil
}

// referencedIssues extracts issue numbers from closing-reference tokens
// ("<keyword> #N") in a pull request body.
func referencedIssues(body, keyword string) []int {
	var numbers []int
	prefix := keyword + " #"

	rest := body
	for {
		idx := strings.Index(rest, prefix)
		if idx < 0 {
			return numbers
		}
		rest = rest[idx+len(prefix):]

		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 {
			continue
		}

		n := 0
		for _, c := range rest[:end] {
			n = n*10 + int(c-'0')
		}
		numbers = append(numbers, n)
		rest = rest[end:]
	}
}
