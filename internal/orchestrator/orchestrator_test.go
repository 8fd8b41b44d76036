package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sgaunet/auto-ops/internal/logger"
	"github.com/sgaunet/auto-ops/internal/schedule"
	"github.com/sgaunet/auto-ops/pkg/hostapi"
	"github.com/sgaunet/auto-ops/testing/fixtures"
	"github.com/sgaunet/auto-ops/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same value.
type fixedRand struct{ value int }

func (f fixedRand) Intn(_ int) int { return f.value }

func newTestOrchestrator(host *mocks.FakeHost) (*Orchestrator, *mocks.BranchRecorder) {
	branches := mocks.NewBranchRecorder()
	o := New(host, host, branches, fixtures.TestConfig(), fixedRand{value: 1}, logger.NoLogger())
	o.SetClock(func() time.Time {
		return time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC) // day 100
	})
	return o, branches
}

func TestRunPlanSkipDoesNothing(t *testing.T) {
	host := mocks.NewFakeHost()
	o, branches := newTestOrchestrator(host)

	err := o.RunPlan(context.Background(), schedule.Plan{Skip: true, Day: 42})

	require.NoError(t, err)
	assert.Empty(t, host.Issues)
	assert.Empty(t, host.PullRequests)
	assert.Empty(t, host.LabelsEnsured)
	assert.Empty(t, branches.Calls)
}

func TestRunPlanEvenDay(t *testing.T) {
	host := mocks.NewFakeHost()
	o, branches := newTestOrchestrator(host)

	plan := schedule.Plan{
		Day:           100,
		Issues:        2,
		IssueIdentity: hostapi.IdentityBot,
		BotPRs:        3,
	}
	err := o.RunPlan(context.Background(), plan)

	require.NoError(t, err)
	assert.Equal(t, []string{"has-pr", "has-issue"}, host.LabelsEnsured)
	assert.Len(t, host.Issues, 2)
	assert.Len(t, host.PullRequests, 3)
	assert.Len(t, branches.Branches(), 3)

	// Both issues got paired with the two oldest pull requests.
	linked := 0
	for _, issue := range host.Issues {
		if issue.HasLabel("has-pr") {
			linked++
		}
	}
	assert.Equal(t, 2, linked)
	assert.Empty(t, host.Merged)
}

func TestRunPlanOddDayMergesAndApproves(t *testing.T) {
	host := mocks.NewFakeHost()

	host.SeedIssue("Random Issue old #1", "has-pr")
	host.SeedIssue("Random Issue old #2", "has-pr")
	botPR := host.SeedPullRequest("Random Bot PR old #1", "auto/bot-pr-98-0-1234", "has-issue")

	o, _ := newTestOrchestrator(host)

	plan := schedule.Plan{
		Day:           101,
		UserPRs:       1,
		MergeUserPRs:  true,
		ApproveBotPRs: 1,
		MergeBotPRs:   true,
	}
	err := o.RunPlan(context.Background(), plan)

	require.NoError(t, err)

	// The fresh user PR linked against nothing (no unlinked issues), so it
	// stays open; the pre-linked bot PR was approved then merged.
	assert.Equal(t, []string{"LGTM"}, host.Approvals[botPR])
	assert.Equal(t, []int{botPR}, host.Merged)
}

func TestCreateIssuesTitlesAndCount(t *testing.T) {
	host := mocks.NewFakeHost()
	o, _ := newTestOrchestrator(host)

	numbers, err := o.CreateIssues(context.Background(), 3, hostapi.IdentityUser, 100)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, numbers)
	assert.Equal(t, "Random Issue 2025-04-10T12:00:00Z #1", host.Issues[1].Title)
	assert.Equal(t, "Random Issue 2025-04-10T12:00:00Z #3", host.Issues[3].Title)
}

func TestCreatePullRequestsBranchEncoding(t *testing.T) {
	host := mocks.NewFakeHost()
	o, branches := newTestOrchestrator(host)

	numbers, err := o.CreatePullRequests(context.Background(), 2, hostapi.IdentityBot, 100)

	require.NoError(t, err)
	require.Len(t, numbers, 2)

	// fixedRand{1} makes the suffix 1001.
	assert.Equal(t, []string{"auto/bot-pr-100-0-1001", "auto/bot-pr-100-1-1001"}, branches.Branches())
	assert.Equal(t, "auto/bot-pr-100-0-1001", host.PullRequests[numbers[0]].HeadBranch)

	// Every branch was created, committed, pushed, then the worktree
	// returned to the default branch.
	var methods []string
	for _, call := range branches.Calls {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{
		"CreateBranch", "CommitEmpty", "PushBranch", "SwitchBranch", "DeleteLocalBranch",
		"CreateBranch", "CommitEmpty", "PushBranch", "SwitchBranch", "DeleteLocalBranch",
	}, methods)
	assert.Equal(t, "SwitchBranch", branches.Calls[3].Method)
	assert.Equal(t, "main", branches.Calls[3].Branch)
}

func TestCreatePullRequestsUserBranchTag(t *testing.T) {
	host := mocks.NewFakeHost()
	o, branches := newTestOrchestrator(host)

	_, err := o.CreatePullRequests(context.Background(), 1, hostapi.IdentityUser, 55)

	require.NoError(t, err)
	require.Len(t, branches.Branches(), 1)
	assert.True(t, strings.Contains(branches.Branches()[0], "user-pr"))
	assert.False(t, strings.Contains(branches.Branches()[0], "bot-pr"))
}

func TestCreatePullRequestsAbortsOnBranchFailure(t *testing.T) {
	host := mocks.NewFakeHost()
	o, branches := newTestOrchestrator(host)
	branches.PushBranchError = assert.AnError

	numbers, err := o.CreatePullRequests(context.Background(), 2, hostapi.IdentityBot, 100)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, numbers)
	assert.Empty(t, host.PullRequests)
}

func TestEnsureLabels(t *testing.T) {
	host := mocks.NewFakeHost()
	o, _ := newTestOrchestrator(host)

	require.NoError(t, o.EnsureLabels(context.Background()))
	assert.Equal(t, []string{"has-pr", "has-issue"}, host.LabelsEnsured)
}

func TestCredentialSelection(t *testing.T) {
	bot := mocks.NewProvider()
	user := mocks.NewProvider()
	bot.ListOpenPRsResponse = []hostapi.PullRequest{
		{Number: 1, Labels: []string{"has-issue"}, HeadBranch: "auto/bot-pr-4-0-1111", State: "open"},
	}
	bot.GetPullRequestResponse = &hostapi.PullRequest{
		Number:         1,
		HeadBranch:     "auto/bot-pr-4-0-1111",
		ReviewDecision: hostapi.ReviewApproved,
		State:          "open",
	}

	o := New(bot, user, mocks.NewBranchRecorder(), fixtures.TestConfig(), fixedRand{value: 1}, logger.NoLogger())
	ctx := context.Background()

	// Issues under the user identity go through the user credential.
	_, err := o.CreateIssues(ctx, 1, hostapi.IdentityUser, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, user.GetCallCount("CreateIssue"))
	assert.Equal(t, 0, bot.GetCallCount("CreateIssue"))

	// Approvals always come from the user credential.
	_, err = o.ApproveBotPRs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, user.GetCallCount("ApprovePullRequest"))
	assert.Equal(t, 0, bot.GetCallCount("ApprovePullRequest"))

	call := user.GetLastCall("ApprovePullRequest")
	require.NotNil(t, call)
	assert.Equal(t, "LGTM", call.Args["message"])

	// Merges too, while the listing and gating queries use the bot.
	_, err = o.MergeLinked(ctx, hostapi.IdentityBot)
	require.NoError(t, err)
	assert.Equal(t, 1, user.GetCallCount("MergePullRequest"))
	assert.Equal(t, 0, bot.GetCallCount("MergePullRequest"))
	assert.Equal(t, 1, bot.GetCallCount("GetPullRequest"))
}

func TestEnsureLabelsPropagatesError(t *testing.T) {
	host := mocks.NewFakeHost()
	host.ForcedErrors["EnsureLabel"] = assert.AnError
	o, _ := newTestOrchestrator(host)

	err := o.EnsureLabels(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
