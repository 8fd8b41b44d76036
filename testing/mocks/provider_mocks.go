// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/sgaunet/auto-ops/pkg/hostapi"
)

// MethodCall represents a tracked method call with its parameters.
type MethodCall struct {
	Method string
	Args   map[string]any
}

// Provider is a mock implementation of hostapi.Provider with call tracking
// and configurable responses. Zero values return success; set the *Error
// fields to force failures.
type Provider struct {
	mu    sync.Mutex
	calls []MethodCall

	// Configurable responses
	CreateIssueNumber        int
	CreateIssueError         error
	CreatePullRequestNumber  int
	CreatePullRequestError   error
	ListOpenIssuesResponse   []hostapi.Issue
	ListOpenIssuesError      error
	ListOpenPRsResponse      []hostapi.PullRequest
	ListOpenPRsError         error
	GetPullRequestResponse   *hostapi.PullRequest
	GetPullRequestError      error
	AddIssueLabelsError      error
	AddPRLabelsError         error
	UpdatePRBodyError        error
	CommentIssueError        error
	CommentPRError           error
	ApprovePullRequestError  error
	MergePullRequestError    error
	CloseIssueError          error
	EnsureLabelError         error
	DeleteBranchError        error
	CloseKeywordResponse     string
	PlatformNameResponse     string
}

// Ensure Provider implements hostapi.Provider at compile time.
var _ hostapi.Provider = (*Provider)(nil)

// NewProvider creates a new mock provider.
func NewProvider() *Provider {
	return &Provider{
		calls:                make([]MethodCall, 0),
		CloseKeywordResponse: "Fixes",
		PlatformNameResponse: "GitHub",
	}
}

func (m *Provider) trackCall(method string, args map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MethodCall{Method: method, Args: args})
}

// GetCallCount returns how many times the named method was called.
func (m *Provider) GetCallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// GetLastCall returns the most recent call to the named method, or nil.
func (m *Provider) GetLastCall(method string) *MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Method == method {
			return &m.calls[i]
		}
	}
	return nil
}

// CreateIssue implements hostapi.Provider.
func (m *Provider) CreateIssue(_ context.Context, title, body string) (int, error) {
	m.trackCall("CreateIssue", map[string]any{"title": title, "body": body})
	return m.CreateIssueNumber, m.CreateIssueError
}

// CreatePullRequest implements hostapi.Provider.
func (m *Provider) CreatePullRequest(_ context.Context, params hostapi.CreatePullRequestParams) (int, error) {
	m.trackCall("CreatePullRequest", map[string]any{
		"title":      params.Title,
		"body":       params.Body,
		"headBranch": params.HeadBranch,
		"baseBranch": params.BaseBranch,
	})
	return m.CreatePullRequestNumber, m.CreatePullRequestError
}

// ListOpenIssues implements hostapi.Provider.
func (m *Provider) ListOpenIssues(_ context.Context) ([]hostapi.Issue, error) {
	m.trackCall("ListOpenIssues", map[string]any{})
	return m.ListOpenIssuesResponse, m.ListOpenIssuesError
}

// ListOpenPullRequests implements hostapi.Provider.
func (m *Provider) ListOpenPullRequests(_ context.Context) ([]hostapi.PullRequest, error) {
	m.trackCall("ListOpenPullRequests", map[string]any{})
	return m.ListOpenPRsResponse, m.ListOpenPRsError
}

// GetPullRequest implements hostapi.Provider.
func (m *Provider) GetPullRequest(_ context.Context, number int) (*hostapi.PullRequest, error) {
	m.trackCall("GetPullRequest", map[string]any{"number": number})
	return m.GetPullRequestResponse, m.GetPullRequestError
}

// AddIssueLabels implements hostapi.Provider.
func (m *Provider) AddIssueLabels(_ context.Context, number int, labels ...string) error {
	m.trackCall("AddIssueLabels", map[string]any{"number": number, "labels": labels})
	return m.AddIssueLabelsError
}

// AddPullRequestLabels implements hostapi.Provider.
func (m *Provider) AddPullRequestLabels(_ context.Context, number int, labels ...string) error {
	m.trackCall("AddPullRequestLabels", map[string]any{"number": number, "labels": labels})
	return m.AddPRLabelsError
}

// UpdatePullRequestBody implements hostapi.Provider.
func (m *Provider) UpdatePullRequestBody(_ context.Context, number int, body string) error {
	m.trackCall("UpdatePullRequestBody", map[string]any{"number": number, "body": body})
	return m.UpdatePRBodyError
}

// CommentIssue implements hostapi.Provider.
func (m *Provider) CommentIssue(_ context.Context, number int, body string) error {
	m.trackCall("CommentIssue", map[string]any{"number": number, "body": body})
	return m.CommentIssueError
}

// CommentPullRequest implements hostapi.Provider.
func (m *Provider) CommentPullRequest(_ context.Context, number int, body string) error {
	m.trackCall("CommentPullRequest", map[string]any{"number": number, "body": body})
	return m.CommentPRError
}

// ApprovePullRequest implements hostapi.Provider.
func (m *Provider) ApprovePullRequest(_ context.Context, number int, message string) error {
	m.trackCall("ApprovePullRequest", map[string]any{"number": number, "message": message})
	return m.ApprovePullRequestError
}

// MergePullRequest implements hostapi.Provider.
func (m *Provider) MergePullRequest(_ context.Context, number int) error {
	m.trackCall("MergePullRequest", map[string]any{"number": number})
	return m.MergePullRequestError
}

// CloseIssue implements hostapi.Provider.
func (m *Provider) CloseIssue(_ context.Context, number int) error {
	m.trackCall("CloseIssue", map[string]any{"number": number})
	return m.CloseIssueError
}

// EnsureLabel implements hostapi.Provider.
func (m *Provider) EnsureLabel(_ context.Context, name, color, description string) error {
	m.trackCall("EnsureLabel", map[string]any{"name": name, "color": color, "description": description})
	return m.EnsureLabelError
}

// DeleteBranch implements hostapi.Provider.
func (m *Provider) DeleteBranch(_ context.Context, branch string) error {
	m.trackCall("DeleteBranch", map[string]any{"branch": branch})
	return m.DeleteBranchError
}

// CloseKeyword implements hostapi.Provider.
func (m *Provider) CloseKeyword() string {
	return m.CloseKeywordResponse
}

// PlatformName implements hostapi.Provider.
func (m *Provider) PlatformName() string {
	return m.PlatformNameResponse
}
