package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state")
	ErrIdempotency       = errors.New("transaction already processed")

	// ErrConflict marks a unit of work that lost a race and may be retried.
	ErrConflict = errors.New("conflicting update")
)
