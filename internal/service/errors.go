package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrStoreUnavailable is returned when both the remote store and the
	// local mirror failed. It is joined with both causes.
	ErrStoreUnavailable = errors.New("remote store and local mirror are unavailable")

	ErrUserNotFound   = errors.New("user not found")
	ErrNotSignedIn    = errors.New("not signed in")
	ErrEmptyUserPatch = errors.New("user patch changes nothing")
)

// AuthError is a failed auth operation. Op names the operation ("login",
// "register", ...), Cause is the underlying remote error.
type AuthError struct {
	Op    string
	Cause error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s failed: %v", e.Op, e.Cause)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
