package bedquilt

import "github.com/clix-dev-llc/bedquilt-core/internal/engine"

// Error is the structured error returned by every failing operation,
// carrying a Code plus collection/field context.
type Error = engine.Error

// Error codes.
const (
	CodeInvalidInput        = engine.CodeInvalidInput
	CodeConflict            = engine.CodeConflict
	CodeConstraintViolation = engine.CodeConstraintViolation
	CodeStoreFailure        = engine.CodeStoreFailure
)

// IsInvalidInput reports whether err is an input type error, such as a
// non-string _id or an invalid $type name.
func IsInvalidInput(err error) bool { return engine.IsInvalidInput(err) }

// IsConflict reports whether err is a conflict: a duplicate _id on insert or
// a contradictory $type constraint.
func IsConflict(err error) bool { return engine.IsConflict(err) }

// IsConstraintViolation reports whether err is a write rejected by an active
// constraint.
func IsConstraintViolation(err error) bool { return engine.IsConstraintViolation(err) }

// IsStoreFailure reports whether err wraps an underlying store failure.
func IsStoreFailure(err error) bool { return engine.IsStoreFailure(err) }
