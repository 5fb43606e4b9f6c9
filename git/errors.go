package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Common sentinel errors that can be checked with errors.Is().
// These wrap underlying go-git errors while providing a stable API for consumers.

// ErrInvalidOptions is returned when Options or arguments are missing or malformed.
var ErrInvalidOptions = errors.New("invalid options")

// ErrRepositoryNotFound is returned when the remote does not host the requested repository.
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrEmptyRepository is returned when the remote repository has no commits.
var ErrEmptyRepository = errors.New("remote repository is empty")

// ErrAuthRequired is returned when an operation requires authentication
// but no credentials were provided or available.
var ErrAuthRequired = errors.New("authentication required")

// ErrAuthFailed is returned when authentication was attempted but failed
// (invalid credentials, expired tokens, etc.).
var ErrAuthFailed = errors.New("authentication failed")

// classifyTransportError maps go-git transport errors onto the package sentinels.
// Both the sentinel and the original error remain reachable through errors.Is.
func classifyTransportError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return fmt.Errorf("%w: %w", ErrRepositoryNotFound, err)
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return fmt.Errorf("%w: %w", ErrEmptyRepository, err)
	case errors.Is(err, transport.ErrAuthenticationRequired):
		return fmt.Errorf("%w: %w", ErrAuthRequired, err)
	case errors.Is(err, transport.ErrAuthorizationFailed):
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	default:
		return err
	}
}

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
