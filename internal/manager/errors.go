package manager

import (
	"errors"
	"fmt"
)

// Domain failures. Callers match them with errors.Is; the returned errors
// carry extra context around these values.
var (
	// ErrNotFound is returned by updates aimed at an unknown id.
	ErrNotFound = errors.New("task not found")
	// ErrOverlap is returned when a schedule intersects a stored task or subtask.
	ErrOverlap = errors.New("task time window overlaps another task")
	// ErrReference is returned when a subtask names an epic that does not exist.
	ErrReference = errors.New("epic not found")
	// ErrInvalid is returned for payloads the store cannot hold, such as a
	// negative duration or an unknown status.
	ErrInvalid = errors.New("invalid task")
)

// PersistError reports that a mutation was applied in memory but the
// snapshot could not be saved.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save snapshot: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Committed reports whether the mutation that returned err took effect in
// memory, which is the case on success and on persistence failures.
func Committed(err error) bool {
	if err == nil {
		return true
	}
	var perr *PersistError
	return errors.As(err, &perr)
}
