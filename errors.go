package relsync

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for structural misuse of the engine.
// Per-record validation and persistence failures are never reported as
// Go errors; they surface through boolean results and record error maps.
var (
	// ErrUnknownRelation is returned when a relation name was never
	// registered on the parent instance.
	ErrUnknownRelation = errors.New("relsync: unknown relation")

	// ErrInvalidRelation is returned when a kept-updated operation
	// names a relation that is not declared as kept updated.
	ErrInvalidRelation = errors.New("relsync: relation not kept updated")

	// ErrUnknownType is returned when a declarative descriptor
	// references a child type label with no bound RecordType.
	ErrUnknownType = errors.New("relsync: unknown record type")

	// ErrEmptyPayload is returned when a payload-driven operation
	// receives no usable input at all.
	ErrEmptyPayload = errors.New("relsync: empty payload")
)

// UnknownRelationError reports the relation name that was never
// registered.
type UnknownRelationError struct {
	Name string
}

// Error returns the error string.
func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("relsync: unknown relation %q", e.Name)
}

// Is reports whether the target error matches UnknownRelationError.
// This allows errors.Is(err, ErrUnknownRelation) to return true.
func (e *UnknownRelationError) Is(err error) bool {
	return err == ErrUnknownRelation
}

// IsUnknownRelation returns true if the error is an UnknownRelationError.
func IsUnknownRelation(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownRelationError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownRelation)
}

// InvalidRelationError reports a relation that is registered but not
// declared as kept updated, named in a kept-updated operation.
type InvalidRelationError struct {
	Name string
}

// Error returns the error string.
func (e *InvalidRelationError) Error() string {
	return fmt.Sprintf("relsync: relation %q is not kept updated", e.Name)
}

// Is reports whether the target error matches InvalidRelationError.
func (e *InvalidRelationError) Is(err error) bool {
	return err == ErrInvalidRelation
}

// IsInvalidRelation returns true if the error is an InvalidRelationError.
func IsInvalidRelation(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidRelationError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidRelation)
}

// UnknownTypeError reports a child type label with no bound RecordType.
type UnknownTypeError struct {
	Label string
}

// Error returns the error string.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("relsync: unknown record type %q", e.Label)
}

// Is reports whether the target error matches UnknownTypeError.
func (e *UnknownTypeError) Is(err error) bool {
	return err == ErrUnknownType
}

// IsUnknownType returns true if the error is an UnknownTypeError.
func IsUnknownType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownType)
}
