package github

import "errors"

// Error definitions for GitHub API operations.
var (
	errTokenRequired   = errors.New("a GitHub token is required")
	errInvalidRepoName = errors.New("invalid repository name, expected owner/repo")

	// ErrTokenRequired is returned when the client is constructed without a token.
	ErrTokenRequired = errTokenRequired
	// ErrInvalidRepoName is returned when the repository identifier is not owner/repo.
	ErrInvalidRepoName = errInvalidRepoName
)
