package varint

import "errors"

// Common errors.
var (
	ErrEmptyBuf = errors.New("varint: buffer empty")
	ErrTooSmall = errors.New("varint: buffer too small")
	ErrOverflow = errors.New("varint: encoded integer overflows")
)

type valueExceededError struct {
	max string
}

func (e *valueExceededError) Error() string {
	return "varint: encoded integer greater than " + e.max
}
