// Package common defines shared constants and sentinel errors used across the
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTimeout            = errors.New("operation timed out")
	ErrStorageDisabled    = errors.New("storage not configured")

	// Authorization gate errors.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")

	// Token verification errors. Both are reported to clients as ErrInvalidToken.
	ErrBadSignature = errors.New("bad token signature")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError carries a client-facing message for rejected input.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Msg string
}

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
