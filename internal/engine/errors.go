package engine

import (
	"errors"
	"fmt"
)

// Code categorizes engine errors.
type Code string

const (
	// CodeInvalidInput marks malformed caller input: a non-string _id, an
	// invalid $type name, a malformed constraint spec.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeConflict marks a duplicate _id on insert or a contradictory $type
	// constraint. Conflicts are surfaced, never silently resolved.
	CodeConflict Code = "CONFLICT"

	// CodeConstraintViolation marks a write rejected by an active constraint.
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"

	// CodeStoreFailure marks an underlying store failure, propagated
	// opaquely and fatal to the operation. The engine never retries.
	CodeStoreFailure Code = "STORE_FAILURE"
)

// Error is the structured error every engine operation returns on failure.
type Error struct {
	Code       Code
	Message    string
	Collection string
	Field      string
	Constraint string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Collection != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (collection=%s, field=%s)", e.Code, e.Message, e.Collection, e.Field)
	case e.Collection != "":
		return fmt.Sprintf("%s: %s (collection=%s)", e.Code, e.Message, e.Collection)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the engine error code, or "" for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalidInput reports whether err is an input type error.
func IsInvalidInput(err error) bool { return CodeOf(err) == CodeInvalidInput }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }

// IsConstraintViolation reports whether err is a constraint violation.
func IsConstraintViolation(err error) bool { return CodeOf(err) == CodeConstraintViolation }

// IsStoreFailure reports whether err wraps a store failure.
func IsStoreFailure(err error) bool { return CodeOf(err) == CodeStoreFailure }

func invalidInput(collection, field, format string, args ...any) *Error {
	return &Error{
		Code:       CodeInvalidInput,
		Message:    fmt.Sprintf(format, args...),
		Collection: collection,
		Field:      field,
	}
}

func conflict(collection, field, format string, args ...any) *Error {
	return &Error{
		Code:       CodeConflict,
		Message:    fmt.Sprintf(format, args...),
		Collection: collection,
		Field:      field,
	}
}

func storeFailure(collection string, err error) *Error {
	return &Error{
		Code:       CodeStoreFailure,
		Message:    err.Error(),
		Collection: collection,
		Err:        err,
	}
}
