package socialcontent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrContentNotFound indicates a content was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrAccountNotFound indicates an account was not found
	ErrAccountNotFound = errors.New("account not found")

	// ErrUserNotFound indicates a user or page was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrRevisionConflict indicates an update carried a stale revision
	ErrRevisionConflict = errors.New("content revision conflict")

	// ErrInvalidCredential indicates the bearer credential could not be
	// resolved to an account
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrEmailTaken indicates the email is already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates the username is already in use
	ErrUsernameTaken = errors.New("username already in use")

	// ErrAccountNotActivated indicates the account has not completed
	// email verification
	ErrAccountNotActivated = errors.New("account not activated")
)

// ValidationError reports a payload shape mismatch. It carries the
// offending field so handlers can surface it to clients.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthorizationError reports that the acting credential is not entitled
// to perform the operation (author-as or update someone else's content).
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized: %s", e.Reason)
}

// IsAuthorizationError reports whether err is (or wraps) an AuthorizationError.
func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}
