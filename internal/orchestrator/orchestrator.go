// Package orchestrator drives the daily activity recipe: fabricating issues
// and pull requests, pairing unlinked issues with unlinked pull requests,
// and advancing linked pull requests through approval and merge.
//
// All platform access goes through [hostapi.Provider], so the logic runs
// unchanged against GitHub, GitLab, or an in-memory fake in tests. Execution
// is strictly sequential: the first failing call aborts the run.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/sgaunet/auto-ops/internal/logger"
	"github.com/sgaunet/auto-ops/internal/schedule"
	"github.com/sgaunet/auto-ops/pkg/config"
	"github.com/sgaunet/auto-ops/pkg/git"
	"github.com/sgaunet/auto-ops/pkg/hostapi"
)

// Label colors and descriptions for the linking labels.
const (
	issueLinkedColor = "0E8A16"
	issueLinkedDesc  = "Indicates this issue has an attached PR"
	prLinkedColor    = "1D76DB"
	prLinkedDesc     = "Indicates this PR is attached to an issue"

	approveMessage = "LGTM"

	branchSuffixMin  = 1000
	branchSuffixSpan = 9000
)

// BranchCreator is the subset of local git operations fabrication needs.
// *git.Repository satisfies it.
type BranchCreator interface {
	CreateBranch(branchName, fromBranch string) error
	CommitEmpty(message string, ident git.Identity) error
	PushBranch(branchName string) error
	SwitchBranch(branchName string) error
	DeleteLocalBranch(branchName string) error
}

// Orchestrator coordinates a run against the hosting platform.
type Orchestrator struct {
	bot      hostapi.Provider
	user     hostapi.Provider
	branches BranchCreator
	cfg      *config.Config
	rng      schedule.Rand
	now      func() time.Time
	confirm  func(message string) (bool, error)
	log      logger.Logger
}

// New creates an Orchestrator. The bot provider acts with the automation
// token, the user provider with the personal token; they may be the same
// instance when the credentials coincide.
func New(
	bot, user hostapi.Provider,
	branches BranchCreator,
	cfg *config.Config,
	rng schedule.Rand,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		bot:      bot,
		user:     user,
		branches: branches,
		cfg:      cfg,
		rng:      rng,
		now:      time.Now,
		log:      log,
	}
}

// SetClock overrides the time source. Used by tests.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// SetConfirm installs an interactive confirmation hook invoked before merge
// and close operations. A nil hook (the default) means no prompting.
func (o *Orchestrator) SetConfirm(confirm func(message string) (bool, error)) {
	o.confirm = confirm
}

// provider returns the Provider acting under the given identity.
//
//nolint:ireturn // Selector over injected interfaces.
func (o *Orchestrator) provider(id hostapi.Identity) hostapi.Provider {
	if id == hostapi.IdentityUser {
		return o.user
	}
	return o.bot
}

// Run executes the full daily recipe for the current date.
func (o *Orchestrator) Run(ctx context.Context) error {
	day := schedule.DayOfYear(o.now())
	plan := schedule.Decide(day, o.rng, o.ranges())
	return o.RunPlan(ctx, plan)
}

// RunPlan executes a precomputed plan.
func (o *Orchestrator) RunPlan(ctx context.Context, plan schedule.Plan) error {
	if plan.Skip {
		o.log.Info("Random skip day triggered, nothing to do", "day", plan.Day)
		return nil
	}

	o.log.Info("Starting daily run", "day", plan.Day, "run_id", o.cfg.RunID)

	if err := o.EnsureLabels(ctx); err != nil {
		return err
	}

	if plan.Issues > 0 {
		if _, err := o.CreateIssues(ctx, plan.Issues, plan.IssueIdentity, plan.Day); err != nil {
			return err
		}
	}
	if plan.BotPRs > 0 {
		if _, err := o.CreatePullRequests(ctx, plan.BotPRs, hostapi.IdentityBot, plan.Day); err != nil {
			return err
		}
	}
	if plan.UserPRs > 0 {
		if _, err := o.CreatePullRequests(ctx, plan.UserPRs, hostapi.IdentityUser, plan.Day); err != nil {
			return err
		}
	}

	if _, err := o.LinkPairs(ctx, 0); err != nil {
		return err
	}

	if plan.MergeUserPRs {
		if _, err := o.MergeLinked(ctx, hostapi.IdentityUser); err != nil {
			return err
		}
	}
	if plan.ApproveBotPRs > 0 {
		if _, err := o.ApproveBotPRs(ctx, plan.ApproveBotPRs); err != nil {
			return err
		}
	}
	if plan.MergeBotPRs {
		if _, err := o.MergeLinked(ctx, hostapi.IdentityBot); err != nil {
			return err
		}
	}

	o.log.Info("Daily run completed")
	return nil
}

// ranges returns the configured count ranges.
func (o *Orchestrator) ranges() schedule.Ranges {
	return schedule.Ranges{
		MaxIssues:  o.cfg.Counts.MaxIssues,
		MaxBotPRs:  o.cfg.Counts.MaxBotPRs,
		MaxUserPRs: o.cfg.Counts.MaxUserPRs,
		MaxApprove: o.cfg.Counts.MaxApprove,
	}
}

// EnsureLabels makes sure both linking labels exist on the platform.
func (o *Orchestrator) EnsureLabels(ctx context.Context) error {
	if err := o.bot.EnsureLabel(ctx, o.cfg.Labels.IssueLinked, issueLinkedColor, issueLinkedDesc); err != nil {
		return fmt.Errorf("failed to ensure label %q: %w", o.cfg.Labels.IssueLinked, err)
	}
	if err := o.bot.EnsureLabel(ctx, o.cfg.Labels.PRLinked, prLinkedColor, prLinkedDesc); err != nil {
		return fmt.Errorf("failed to ensure label %q: %w", o.cfg.Labels.PRLinked, err)
	}
	return nil
}

// CreateIssues fabricates n issues under the given identity and returns
// their numbers. The first failing creation aborts.
func (o *Orchestrator) CreateIssues(
	ctx context.Context,
	n int,
	id hostapi.Identity,
	day int,
) ([]int, error) {
	o.log.Info("Creating issues", "count", n, "identity", string(id))
	provider := o.provider(id)

	numbers := make([]int, 0, n)
	for i := 0; i < n; i++ {
		ts := o.now().UTC().Format(time.RFC3339)
		title := fmt.Sprintf("Random Issue %s #%d", ts, i+1)
		body := fmt.Sprintf("Auto-generated issue on day %d.", day)

		number, err := provider.CreateIssue(ctx, title, body)
		if err != nil {
			return numbers, fmt.Errorf("failed to create issue %d of %d: %w", i+1, n, err)
		}
		o.log.Info("Issue created", "number", number)
		numbers = append(numbers, number)
	}
	return numbers, nil
}

// CreatePullRequests fabricates n pull requests under the given identity and
// returns their numbers. Each pull request gets a fresh branch from the
// default branch carrying one empty marker commit. The branch name encodes
// the identity tag, day of year, sequence index, and a random suffix to
// avoid collisions with concurrent runs.
func (o *Orchestrator) CreatePullRequests(
	ctx context.Context,
	n int,
	id hostapi.Identity,
	day int,
) ([]int, error) {
	o.log.Info("Creating pull requests", "count", n, "identity", string(id))
	provider := o.provider(id)
	ident := o.cfg.Identity(string(id))

	numbers := make([]int, 0, n)
	for i := 0; i < n; i++ {
		suffix := branchSuffixMin + o.rng.Intn(branchSuffixSpan)
		branch := fmt.Sprintf("auto/%s-%d-%d-%d", id.BranchTag(), day, i, suffix)

		if err := o.fabricateBranch(branch, ident); err != nil {
			return numbers, err
		}

		ts := o.now().UTC().Format(time.RFC3339)
		title := fmt.Sprintf("Random %s PR %s #%d", identityWord(id), ts, i+1)
		body := fmt.Sprintf("Auto-generated %s PR on day %d.", string(id), day)

		number, err := provider.CreatePullRequest(ctx, hostapi.CreatePullRequestParams{
			Title:      title,
			Body:       body,
			HeadBranch: branch,
			BaseBranch: o.cfg.DefaultBranch,
		})
		if err != nil {
			return numbers, fmt.Errorf("failed to create pull request %d of %d: %w", i+1, n, err)
		}
		o.log.Info("Pull request created", "number", number, "branch", branch)
		numbers = append(numbers, number)
	}
	return numbers, nil
}

// fabricateBranch creates a branch from the default branch with an empty
// marker commit and pushes it, leaving the worktree back on the default
// branch.
func (o *Orchestrator) fabricateBranch(branch string, ident config.IdentityConfig) error {
	if err := o.branches.CreateBranch(branch, o.cfg.DefaultBranch); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}

	msg := fmt.Sprintf("Empty commit for %s", branch)
	if err := o.branches.CommitEmpty(msg, git.Identity{Name: ident.Name, Email: ident.Email}); err != nil {
		return fmt.Errorf("failed to commit on %s: %w", branch, err)
	}

	if err := o.branches.PushBranch(branch); err != nil {
		return fmt.Errorf("failed to push branch %s: %w", branch, err)
	}

	if err := o.branches.SwitchBranch(o.cfg.DefaultBranch); err != nil {
		return fmt.Errorf("failed to switch back to %s: %w", o.cfg.DefaultBranch, err)
	}

	// The branch lives on the remote now; the local ref is just clutter.
	if err := o.branches.DeleteLocalBranch(branch); err != nil {
		o.log.Warn("Failed to delete local branch", "branch", branch, "error", err.Error())
	}
	return nil
}

func identityWord(id hostapi.Identity) string {
	if id == hostapi.IdentityUser {
		return "User"
	}
	return "Bot"
}
