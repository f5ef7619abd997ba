package database

import (
	"errors"
)

// Errors.
var (
	ErrNotFound        = errors.New("database entry not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
