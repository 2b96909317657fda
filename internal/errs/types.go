// Package errs defines the error taxonomy returned by the service layer.
// Handlers branch on these types; anything else is treated as unexpected
// and surfaced as a generic internal error.
package errs

import "github.com/shopspring/decimal"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// UnauthorizedError means the caller presented no resolved identity.
type UnauthorizedError struct {
	ErrorMessage
}

// ValidationError covers shape and constraint violations detected before
// any write happens.
type ValidationError struct {
	ErrorMessage
}

// NotFoundError covers both genuine absence and ownership misses; the two
// are deliberately indistinguishable so the API never reveals whether a
// resource exists under another account.
type NotFoundError struct {
	ErrorMessage
}

// OverLimitError rejects a goal contribution that would exceed the target.
// Overflow carries the exact amount by which the contribution overshoots.
type OverLimitError struct {
	ErrorMessage
	Overflow decimal.Decimal
}

// StorageError wraps any lower-level failure. It is logged server-side and
// never detailed to the caller.
type StorageError struct {
	ErrorMessage
	Cause error
}

func (e *StorageError) Unwrap() error { return e.Cause }

func NewUnauthorizedError() *UnauthorizedError {
	return &UnauthorizedError{ErrorMessage{Message: "not signed in"}}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{ErrorMessage{Message: message}}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{ErrorMessage{Message: message}}
}

func NewOverLimitError(message string, overflow decimal.Decimal) *OverLimitError {
	return &OverLimitError{
		ErrorMessage: ErrorMessage{Message: message},
		Overflow:     overflow,
	}
}

func NewStorageError(cause error) *StorageError {
	return &StorageError{
		ErrorMessage: ErrorMessage{Message: "an unexpected error occurred"},
		Cause:        cause,
	}
}
