package gitlab

import "errors"

// Error definitions for GitLab API operations.
var (
	errTokenRequired = errors.New("a GitLab token is required")

	// ErrTokenRequired is returned when the client is constructed without a token.
	ErrTokenRequired = errTokenRequired
)
