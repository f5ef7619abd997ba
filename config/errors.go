package config

import (
	"errors"
	"fmt"
)

// Common error definitions.
var (
	ErrInvalidData    = errors.New("invalid data")
	ErrUnknownStorage = errors.New("unknown storage type")
	ErrDuplicateName  = errors.New("collection already open")
	ErrNotOpen        = errors.New("collection not open")
)

// InvalidOptionError describes an option of a collection that can not be
// used.
type InvalidOptionError struct {
	Collection string
	Option     string
	Err        error
}

func (ioe *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %q of collection %q: %s", ioe.Option, ioe.Collection, ioe.Err)
}

func (ioe *InvalidOptionError) Unwrap() error {
	return ioe.Err
}

func newInvalidOptionError(collection, option string, err error) *InvalidOptionError {
	return &InvalidOptionError{
		Collection: collection,
		Option:     option,
		Err:        err,
	}
}
