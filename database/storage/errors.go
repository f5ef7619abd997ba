package storage

import (
	"errors"
	"fmt"
)

// Errors for storages.
var (
	ErrNotFound    = errors.New("storage entry not found")
	ErrClosed      = errors.New("storage is closed")
	ErrUnknownType = errors.New("unknown storage type")
	ErrIOFailure   = errors.New("storage i/o failure")
)

// IOError describes a failure of the backing medium. It matches
// ErrIOFailure with errors.Is.
type IOError struct {
	Op       string
	Location string
	Rows     int
	Err      error
}

// NewIOError wraps err with the operation, the location of the medium and
// the number of rows involved.
func NewIOError(op, location string, rows int, err error) *IOError {
	return &IOError{
		Op:       op,
		Location: location,
		Rows:     rows,
		Err:      err,
	}
}

func (e *IOError) Error() string {
	switch e.Op {
	case "write":
		return fmt.Sprintf("failed to write %d rows into %q: %s", e.Rows, e.Location, e.Err)
	case "read":
		return fmt.Sprintf("failed to read rows from %q: %s", e.Location, e.Err)
	default:
		return fmt.Sprintf("failed to %s %q: %s", e.Op, e.Location, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is makes IOError match ErrIOFailure.
func (e *IOError) Is(target error) bool {
	return target == ErrIOFailure
}
