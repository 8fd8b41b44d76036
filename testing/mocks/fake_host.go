package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/sgaunet/auto-ops/pkg/hostapi"
)

// FakeHost is an in-memory implementation of hostapi.Provider that keeps
// real issue and pull request state across calls. Unlike Provider, which
// returns canned responses, FakeHost behaves like a tiny hosting platform:
// labels accumulate, comments are recorded, merges close pull requests.
type FakeHost struct {
	mu         sync.Mutex
	nextNumber int

	Issues       map[int]*hostapi.Issue
	PullRequests map[int]*hostapi.PullRequest

	IssueComments map[int][]string
	PRComments    map[int][]string
	Approvals     map[int][]string
	Merged        []int
	ClosedIssues  []int

	LabelsEnsured   []string
	DeletedBranches []string

	// ForcedErrors maps a method name to an error returned by that method.
	ForcedErrors map[string]error

	Keyword string
	Name    string
}

var _ hostapi.Provider = (*FakeHost)(nil)

// NewFakeHost creates an empty fake host numbering items from 1.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		nextNumber:    1,
		Issues:        make(map[int]*hostapi.Issue),
		PullRequests:  make(map[int]*hostapi.PullRequest),
		IssueComments: make(map[int][]string),
		PRComments:    make(map[int][]string),
		Approvals:     make(map[int][]string),
		ForcedErrors:  make(map[string]error),
		Keyword:       "Fixes",
		Name:          "GitHub",
	}
}

func (f *FakeHost) forced(method string) error {
	return f.ForcedErrors[method]
}

func (f *FakeHost) allocate() int {
	n := f.nextNumber
	f.nextNumber++
	return n
}

// SeedIssue inserts an open issue with the given labels and returns its number.
func (f *FakeHost) SeedIssue(title string, labels ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.allocate()
	f.Issues[n] = &hostapi.Issue{Number: n, Title: title, Labels: labels, State: "open"}
	return n
}

// SeedPullRequest inserts an open pull request and returns its number.
func (f *FakeHost) SeedPullRequest(title, headBranch string, labels ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.allocate()
	f.PullRequests[n] = &hostapi.PullRequest{
		Number:     n,
		Title:      title,
		HeadBranch: headBranch,
		Labels:     labels,
		State:      "open",
	}
	return n
}

// SetReviewDecision overrides the review decision of a pull request.
func (f *FakeHost) SetReviewDecision(number int, decision hostapi.ReviewDecision) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pr, ok := f.PullRequests[number]; ok {
		pr.ReviewDecision = decision
	}
}

// CreateIssue implements hostapi.Provider. Issue bodies are not retained;
// nothing reads them back.
func (f *FakeHost) CreateIssue(_ context.Context, title, _ string) (int, error) {
	if err := f.forced("CreateIssue"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.allocate()
	f.Issues[n] = &hostapi.Issue{Number: n, Title: title, State: "open"}
	return n, nil
}

// CreatePullRequest implements hostapi.Provider.
func (f *FakeHost) CreatePullRequest(_ context.Context, params hostapi.CreatePullRequestParams) (int, error) {
	if err := f.forced("CreatePullRequest"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.allocate()
	f.PullRequests[n] = &hostapi.PullRequest{
		Number:     n,
		Title:      params.Title,
		Body:       params.Body,
		HeadBranch: params.HeadBranch,
		State:      "open",
	}
	return n, nil
}

// ListOpenIssues implements hostapi.Provider. Issues come back ordered by
// number ascending, oldest first.
func (f *FakeHost) ListOpenIssues(_ context.Context) ([]hostapi.Issue, error) {
	if err := f.forced("ListOpenIssues"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]hostapi.Issue, 0, len(f.Issues))
	for _, issue := range f.Issues {
		if issue.State == "open" {
			out = append(out, *issue)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// ListOpenPullRequests implements hostapi.Provider, ordered by number ascending.
func (f *FakeHost) ListOpenPullRequests(_ context.Context) ([]hostapi.PullRequest, error) {
	if err := f.forced("ListOpenPullRequests"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]hostapi.PullRequest, 0, len(f.PullRequests))
	for _, pr := range f.PullRequests {
		if pr.State == "open" {
			out = append(out, *pr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// GetPullRequest implements hostapi.Provider.
func (f *FakeHost) GetPullRequest(_ context.Context, number int) (*hostapi.PullRequest, error) {
	if err := f.forced("GetPullRequest"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.PullRequests[number]
	if !ok {
		return nil, errNotFound
	}
	clone := *pr
	return &clone, nil
}

// AddIssueLabels implements hostapi.Provider.
func (f *FakeHost) AddIssueLabels(_ context.Context, number int, labels ...string) error {
	if err := f.forced("AddIssueLabels"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.Issues[number]
	if !ok {
		return errNotFound
	}
	issue.Labels = appendMissing(issue.Labels, labels)
	return nil
}

// AddPullRequestLabels implements hostapi.Provider.
func (f *FakeHost) AddPullRequestLabels(_ context.Context, number int, labels ...string) error {
	if err := f.forced("AddPullRequestLabels"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.PullRequests[number]
	if !ok {
		return errNotFound
	}
	pr.Labels = appendMissing(pr.Labels, labels)
	return nil
}

// UpdatePullRequestBody implements hostapi.Provider.
func (f *FakeHost) UpdatePullRequestBody(_ context.Context, number int, body string) error {
	if err := f.forced("UpdatePullRequestBody"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.PullRequests[number]
	if !ok {
		return errNotFound
	}
	pr.Body = body
	return nil
}

// CommentIssue implements hostapi.Provider.
func (f *FakeHost) CommentIssue(_ context.Context, number int, body string) error {
	if err := f.forced("CommentIssue"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IssueComments[number] = append(f.IssueComments[number], body)
	return nil
}

// CommentPullRequest implements hostapi.Provider.
func (f *FakeHost) CommentPullRequest(_ context.Context, number int, body string) error {
	if err := f.forced("CommentPullRequest"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PRComments[number] = append(f.PRComments[number], body)
	return nil
}

// ApprovePullRequest implements hostapi.Provider and flips the review
// decision to approved.
func (f *FakeHost) ApprovePullRequest(_ context.Context, number int, message string) error {
	if err := f.forced("ApprovePullRequest"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Approvals[number] = append(f.Approvals[number], message)
	if pr, ok := f.PullRequests[number]; ok {
		pr.ReviewDecision = hostapi.ReviewApproved
	}
	return nil
}

// MergePullRequest implements hostapi.Provider. The pull request is marked
// merged and its head branch deleted, the way the real clients merge.
func (f *FakeHost) MergePullRequest(_ context.Context, number int) error {
	if err := f.forced("MergePullRequest"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.PullRequests[number]
	if !ok {
		return errNotFound
	}
	pr.State = "merged"
	f.Merged = append(f.Merged, number)
	f.DeletedBranches = append(f.DeletedBranches, pr.HeadBranch)
	return nil
}

// CloseIssue implements hostapi.Provider.
func (f *FakeHost) CloseIssue(_ context.Context, number int) error {
	if err := f.forced("CloseIssue"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.Issues[number]
	if !ok {
		return errNotFound
	}
	issue.State = "closed"
	f.ClosedIssues = append(f.ClosedIssues, number)
	return nil
}

// EnsureLabel implements hostapi.Provider.
func (f *FakeHost) EnsureLabel(_ context.Context, name, _, _ string) error {
	if err := f.forced("EnsureLabel"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LabelsEnsured = append(f.LabelsEnsured, name)
	return nil
}

// DeleteBranch implements hostapi.Provider.
func (f *FakeHost) DeleteBranch(_ context.Context, branch string) error {
	if err := f.forced("DeleteBranch"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeletedBranches = append(f.DeletedBranches, branch)
	return nil
}

// CloseKeyword implements hostapi.Provider.
func (f *FakeHost) CloseKeyword() string {
	return f.Keyword
}

// PlatformName implements hostapi.Provider.
func (f *FakeHost) PlatformName() string {
	return f.Name
}

func appendMissing(existing []string, labels []string) []string {
	for _, label := range labels {
		found := false
		for _, have := range existing {
			if have == label {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, label)
		}
	}
	return existing
}
