package mocks

import (
	"errors"

	"github.com/sgaunet/auto-ops/pkg/git"
)

// errNotFound is returned by FakeHost when an issue or pull request number
// does not exist.
var errNotFound = errors.New("not found")

// BranchCall records one method call on BranchRecorder.
type BranchCall struct {
	Method string
	Branch string
}

// BranchRecorder is a mock branch creator that records branch operations
// without touching a real repository.
type BranchRecorder struct {
	Calls []BranchCall

	CreateBranchError      error
	CommitEmptyError       error
	PushBranchError        error
	SwitchBranchError      error
	DeleteLocalBranchError error
}

// NewBranchRecorder creates an empty recorder.
func NewBranchRecorder() *BranchRecorder {
	return &BranchRecorder{Calls: make([]BranchCall, 0)}
}

// CreateBranch records the call.
func (b *BranchRecorder) CreateBranch(name, _ string) error {
	b.Calls = append(b.Calls, BranchCall{Method: "CreateBranch", Branch: name})
	return b.CreateBranchError
}

// CommitEmpty records the call.
func (b *BranchRecorder) CommitEmpty(message string, _ git.Identity) error {
	b.Calls = append(b.Calls, BranchCall{Method: "CommitEmpty", Branch: message})
	return b.CommitEmptyError
}

// PushBranch records the call.
func (b *BranchRecorder) PushBranch(name string) error {
	b.Calls = append(b.Calls, BranchCall{Method: "PushBranch", Branch: name})
	return b.PushBranchError
}

// SwitchBranch records the call.
func (b *BranchRecorder) SwitchBranch(name string) error {
	b.Calls = append(b.Calls, BranchCall{Method: "SwitchBranch", Branch: name})
	return b.SwitchBranchError
}

// DeleteLocalBranch records the call.
func (b *BranchRecorder) DeleteLocalBranch(name string) error {
	b.Calls = append(b.Calls, BranchCall{Method: "DeleteLocalBranch", Branch: name})
	return b.DeleteLocalBranchError
}

// Branches returns the branch names passed to CreateBranch, in order.
func (b *BranchRecorder) Branches() []string {
	out := make([]string, 0)
	for _, call := range b.Calls {
		if call.Method == "CreateBranch" {
			out = append(out, call.Branch)
		}
	}
	return out
}
