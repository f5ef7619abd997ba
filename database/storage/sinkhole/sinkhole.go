// Package sinkhole provides a dummy store that forgets everything.
package sinkhole

import (
	"sync/atomic"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
)

// Sinkhole is a dummy storage.
type Sinkhole struct {
	name   string
	writes uint64
}

func init() {
	_ = storage.Register("sinkhole", func(location string) (storage.Interface, error) {
		return NewSinkhole(location), nil
	})
}

// NewSinkhole creates a dummy store.
func NewSinkhole(name string) *Sinkhole {
	return &Sinkhole{
		name: name,
	}
}

// Name returns the name of the store.
func (s *Sinkhole) Name() string {
	return "sinkhole:" + s.name
}

// Read always returns an empty set.
func (s *Sinkhole) Read() (record.RowSet, error) {
	return record.RowSet{}, nil
}

// Write discards the rows.
func (s *Sinkhole) Write(_ record.RowSet) error {
	atomic.AddUint64(&s.writes, 1)
	return nil
}

// Writes returns how many times Write was called.
func (s *Sinkhole) Writes() uint64 {
	return atomic.LoadUint64(&s.writes)
}

// Close does nothing.
func (s *Sinkhole) Close() error {
	return nil
}
