package workorder

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAssignment means the technician is inactive or holds a role
	// that may not be assigned maintenance work.
	ErrInvalidAssignment = errors.New("technician is inactive or not qualified for assignment")

	// ErrTerminalState means the order is completed or cancelled and admits no
	// further transitions.
	ErrTerminalState = errors.New("work order is in a terminal state")

	// ErrDeletionBlocked means the order carries evidence of work performed
	// and must not disappear.
	ErrDeletionBlocked = errors.New("work order cannot be removed in its current state")
)

// ValidationError reports a missing or invalid required field on create.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}
