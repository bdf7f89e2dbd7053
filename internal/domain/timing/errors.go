package timing

import (
	"errors"
	"fmt"
)

// ErrAssignment marks a representative that could not be timed.
var ErrAssignment = errors.New("duration assignment failed")

// AssignmentError describes a single failed assignment.
type AssignmentError struct {
	Group  string
	Reason string
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("%s: group %q: %s", ErrAssignment, e.Group, e.Reason)
}

func (e *AssignmentError) Unwrap() error { return ErrAssignment }
