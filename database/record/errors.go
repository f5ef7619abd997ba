package record

import "errors"

// Errors.
var (
	ErrInvalidRow = errors.New("invalid row")
)
