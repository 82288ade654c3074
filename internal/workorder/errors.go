package workorder

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a submission was refused.
type ErrorKind string

const (
	// KindMissingField: a required field for the attempted transition is empty.
	KindMissingField ErrorKind = "missing_field"
	// KindNoMethod: a close was attempted before choosing a processing method.
	KindNoMethod ErrorKind = "no_processing_method"
	// KindClosed: the record is already closed and immutable.
	KindClosed ErrorKind = "closed"
	// KindBackward: the requested status would move the lifecycle backwards.
	KindBackward ErrorKind = "backward_transition"
	// KindUnknownStatus: the record carries a status outside the lifecycle.
	KindUnknownStatus ErrorKind = "unknown_status"
)

// TransitionError is the typed refusal returned by the state machine, the
// replacement for the form's disabled submit button.
type TransitionError struct {
	Kind  ErrorKind
	Field string // set for KindMissingField
}

func (e *TransitionError) Error() string {
	if e.Kind == KindMissingField {
		return fmt.Sprintf("transition refused: missing required field %q", e.Field)
	}
	return "transition refused: " + string(e.Kind)
}

func missingField(name string) *TransitionError {
	return &TransitionError{Kind: KindMissingField, Field: name}
}

// ErrNoEligible is returned when a submission targets no records that can
// still be updated (all closed, or the id list is empty).
var ErrNoEligible = errors.New("no eligible work orders")

// ErrNotRoutine is returned when a recurrence operation targets a record
// that is not scheduled maintenance.
var ErrNotRoutine = errors.New("not a routine work order")

// ErrInvalidValue wraps enum values outside their closed sets.
var ErrInvalidValue = errors.New("invalid value")
