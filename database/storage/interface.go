package storage

import (
	"github.com/yegor256/tojos/database/record"
)

// Interface defines the bulk storage API. A store always round-trips the
// whole row set, never a single row.
type Interface interface {
	// Read returns all rows. The returned set is a modifiable copy, not a
	// live view. If the backing medium does not exist yet, it returns an
	// empty set and no error.
	Read() (record.RowSet, error)

	// Write replaces all rows with the given ones, creating the backing
	// medium and its parents if necessary.
	Write(rows record.RowSet) error

	// Close releases all resources. It is safe to call it multiple times.
	Close() error
}

// Updater is implemented by stores that can run a read-modify-write cycle
// while holding their lock.
type Updater interface {
	Interface

	// Update reads the rows, passes them to fn and writes back what fn
	// returns, all while holding the store's lock. If fn returns nil rows
	// and no error, nothing is written.
	Update(fn func(rows record.RowSet) (record.RowSet, error)) error
}

// Named is implemented by stores that can name their backing medium, for
// use in logs and metrics.
type Named interface {
	Name() string
}

// NameOf returns the name of the store, if it has one, or its type.
func NameOf(s Interface) string {
	if named, ok := s.(Named); ok {
		return named.Name()
	}
	return typeName(s)
}
