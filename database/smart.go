package database

import (
	"fmt"

	"github.com/yegor256/tojos/database/record"
)

// Smart adds lookups by ID and counting to a collection.
type Smart struct {
	Collection
}

// NewSmart wraps origin.
func NewSmart(origin Collection) *Smart {
	return &Smart{Collection: origin}
}

// GetByID returns the entry with the given ID, or ErrNotFound.
func (s *Smart) GetByID(id string) (Entry, error) {
	entries, err := s.Select(func(e Entry) bool {
		return e.ID() == id
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no %s=%q", ErrNotFound, record.IDKey, id)
	}
	return entries[0], nil
}

// Size returns the number of entries.
func (s *Smart) Size() (int, error) {
	entries, err := s.Select(All)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
