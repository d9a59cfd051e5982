// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
//
// The four base errors form the failure taxonomy every service operation
// resolves to: ErrNotFound (missing referent), ErrInvalidInput (malformed or
// inconsistent request data), ErrInvalidState (structurally valid request that
// violates a domain invariant), ErrStoreFailure (the database could not
// complete an atomic unit). The specific errors below wrap a base error, so
// callers can match either level with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input provided")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrStoreFailure = errors.New("store failure")

	ErrUserNotFound        = wrap("user not found", ErrNotFound)
	ErrGroupNotFound       = wrap("group not found", ErrNotFound)
	ErrTransactionNotFound = wrap("transaction not found", ErrNotFound)
	ErrMembershipNotFound  = wrap("user is not a member of this group", ErrNotFound)

	ErrShareSumMismatch = wrap("participant shares do not match total amount", ErrInvalidInput)

	ErrNotAMember         = wrap("user is not a member of this group", ErrInvalidState)
	ErrAlreadyMember      = wrap("user is already a member of this group", ErrInvalidState)
	ErrOutstandingBalance = wrap("cannot remove member with outstanding balance", ErrInvalidState)
	ErrDuplicateEmail     = wrap("user with this email already exists", ErrInvalidState)
)

// wrap builds a sentinel that carries its own message but still matches base
// via errors.Is.
func wrap(msg string, base error) error {
	return &wrappedError{msg: msg, base: base}
}

type wrappedError struct {
	msg  string
	base error
}

func (e *wrappedError) Error() string { return e.msg }

func (e *wrappedError) Unwrap() error { return e.base }

// IsError reports whether err matches target in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
