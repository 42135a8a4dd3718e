package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

// Typed git errors let callers classify failures without string parsing.
type AuthError struct {
	Op, URL string
	Err     error
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s auth error for %s: %v", e.Op, e.URL, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Op, URL string
	Err     error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found %s: %v", e.Op, e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }

type UnsupportedProtocolError struct {
	Op, URL string
	Err     error
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("%s unsupported protocol %s: %v", e.Op, e.URL, e.Err)
}
func (e *UnsupportedProtocolError) Unwrap() error { return e.Err }

// classify wraps a go-git failure into a typed error when the cause is
// recognizable.
func classify(op, url string, err error) error {
	if err == nil {
		return nil
	}
	var noRef git.NoMatchingRefSpecError
	switch {
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return &AuthError{Op: op, URL: url, Err: err}
	case errors.Is(err, transport.ErrRepositoryNotFound),
		errors.As(err, &noRef):
		return &NotFoundError{Op: op, URL: url, Err: err}
	}

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password"):
		return &AuthError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "does not exist") ||
		strings.Contains(l, "does not appear to be a git repository") || strings.Contains(l, "couldn't find remote ref"):
		return &NotFoundError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported") || strings.Contains(l, "unsupported scheme"):
		return &UnsupportedProtocolError{Op: op, URL: url, Err: err}
	}
	return fmt.Errorf("%s %s: %w", op, url, err)
}

// toClassified turns the result of classify into a ClassifiedError whose
// category drives the CLI exit code.
func toClassified(err error, branch string) error {
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	var (
		authErr  *AuthError
		notFound *NotFoundError
		protoErr *UnsupportedProtocolError
	)
	category := ferrors.CategoryGit
	message := "repository sync failed"
	switch {
	case errors.As(err, &authErr):
		category, message = ferrors.CategoryAuth, "repository authentication failed"
	case errors.As(err, &notFound):
		category, message = ferrors.CategoryNotFound, "repository or branch not found"
	case errors.As(err, &protoErr):
		category, message = ferrors.CategoryConfig, "unsupported repository URL"
	}
	return ferrors.WrapError(err, category, message).
		WithContext("branch", branch).
		Build()
}
