package errors

import (
	"errors"
	"fmt"
)

// Common error types for the dashboard backend
var (
	// Authorization flow errors
	ErrMissingCode         = errors.New("missing authorization code")
	ErrInvalidState        = errors.New("invalid or expired state")
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrProfileFetchFailed  = errors.New("profile fetch failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamStatus      = errors.New("upstream returned a non-success status")

	// Authorization errors
	ErrGuildForbidden = errors.New("session cannot manage guild")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
