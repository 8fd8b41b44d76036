// Package git provides local git repository operations for branch fabrication.
package git

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	errNoOriginURL     = errors.New("no URLs found for origin remote")
	errUnknownHost     = errors.New("repository is not hosted on GitLab or GitHub")
	errHeadNotBranch   = errors.New("HEAD is not pointing to a branch")
	errNoDefaultBranch = errors.New("could not determine default branch")
)

// Repository wraps a local git repository.
type Repository struct {
	repo *git.Repository
}

// Platform identifies the hosting platform of a repository.
type Platform string

// Supported platforms.
const (
	PlatformGitLab Platform = "gitlab"
	PlatformGitHub Platform = "github"
)

// Identity is the author signature used for fabricated commits.
type Identity struct {
	Name  string
	Email string
}

// OpenRepository opens the git repository at path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	return &Repository{repo: repo}, nil
}

// GetDefaultBranch resolves the default branch from the origin HEAD symbolic
// reference, falling back to common default branch names.
func (r *Repository) GetDefaultBranch() (string, error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin remote: %w", err)
	}

	refs, err := remote.List(&git.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to list remote references: %w", err)
	}

	for _, ref := range refs {
		if ref.Name() == plumbing.HEAD {
			target := ref.Target()
			if target.IsBranch() {
				return target.Short(), nil
			}
		}
	}

	for _, defaultBranch := range []string{"main", "master"} {
		if r.branchExists(defaultBranch) {
			return defaultBranch, nil
		}
	}

	return "", errNoDefaultBranch
}

func (r *Repository) branchExists(branchName string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(branchName), true)
	return err == nil
}

// GetCurrentBranch returns the branch HEAD points to.
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", errHeadNotBranch
	}

	return head.Name().Short(), nil
}

// DetectPlatform inspects the origin remote URL to determine the hosting
// platform.
func (r *Repository) DetectPlatform() (Platform, error) {
	url, err := r.GetRemoteURL("origin")
	if err != nil {
		return "", err
	}

	if strings.Contains(url, "gitlab.com") {
		return PlatformGitLab, nil
	}
	if strings.Contains(url, "github.com") {
		return PlatformGitHub, nil
	}

	return "", errUnknownHost
}

// GetRemoteURL returns the first URL of the named remote.
func (r *Repository) GetRemoteURL(remoteName string) (string, error) {
	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errNoOriginURL
	}

	return urls[0], nil
}

// CreateBranch creates branchName at the tip of fromBranch and checks it out.
func (r *Repository) CreateBranch(branchName, fromBranch string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(fromBranch),
	}); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", fromBranch, err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branchName),
		Create: true,
	}); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branchName, err)
	}

	return nil
}

// CommitEmpty records an empty marker commit on the current branch, signed
// with the given identity.
func (r *Repository) CommitEmpty(message string, ident Identity) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  ident.Name,
			Email: ident.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create empty commit: %w", err)
	}

	return nil
}

// PushBranch pushes branchName to origin.
func (r *Repository) PushBranch(branchName string) error {
	err := r.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs: []config.RefSpec{
			config.RefSpec("refs/heads/" + branchName + ":refs/heads/" + branchName),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}
	return nil
}

// SwitchBranch checks out an existing branch.
func (r *Repository) SwitchBranch(branchName string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branchName),
	})
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branchName, err)
	}
	return nil
}

// DeleteLocalBranch removes the local branch reference.
func (r *Repository) DeleteLocalBranch(branchName string) error {
	err := r.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(branchName))
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// FetchAndPrune fetches from origin and prunes deleted remote branches.
func (r *Repository) FetchAndPrune() error {
	err := r.repo.Fetch(&git.FetchOptions{
		RemoteName: "origin",
		Prune:      true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch and prune: %w", err)
	}
	return nil
}
