package core

import "errors"

// ErrNotFound signals a lookup for an id that does not exist (or belongs to
// another user). Callers translate it into an absent result, never a crash.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input with a human-readable message. The
// caller is expected to re-prompt; nothing is persisted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError from a message.
func Invalid(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// ReferentialError rejects a mutation that would break a reference, such as
// deleting a category still used by transactions. Nothing is cascaded.
type ReferentialError struct {
	Msg string
}

func (e *ReferentialError) Error() string { return e.Msg }

// Shared field-validation sentinels.
var (
	ErrInvalidAmount    = Invalid("amount must be greater than zero")
	ErrInvalidDate      = Invalid("invalid date")
	ErrInvalidPeriod    = Invalid("period must be weekly or monthly")
	ErrEmptyDescription = Invalid("description is required")
	ErrEmptyName        = Invalid("name is required")
	ErrEmptyCategory    = Invalid("category is required")
	ErrEndBeforeStart   = Invalid("end date must be after the start date")
)
