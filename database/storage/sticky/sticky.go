// Package sticky keeps the rows of its origin in memory after the first
// read. Writes go through to the origin synchronously.
//
// A Sticky store must be the only writer of its origin: rows written to
// the origin through another handle are never seen.
package sticky

import (
	"fmt"
	"sync"

	"github.com/tevino/abool"
	"golang.org/x/sync/singleflight"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/log"
)

// Mode selects how writes are applied to the cache.
type Mode uint8

// Sticky Modes.
const (
	// Strict replaces the cache with the written rows and passes them to
	// the origin unchanged.
	Strict Mode = iota
	// Merge merges the written rows into the cache by identifier and
	// passes the merged set to the origin. Rows can not be removed.
	Merge
)

// ParseMode returns the mode for the given name. An empty name selects
// Strict.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "strict":
		return Strict, nil
	case "merge":
		return Merge, nil
	default:
		return 0, fmt.Errorf("unknown sticky mode %q", name)
	}
}

func (m Mode) String() string {
	if m == Merge {
		return "merge"
	}
	return "strict"
}

// Sticky is a store with a read cache in front of its origin.
type Sticky struct {
	origin storage.Interface
	mode   Mode

	lock   sync.Mutex
	cache  record.RowSet
	loaded *abool.AtomicBool
	first  singleflight.Group
}

// New wraps origin with a read cache.
func New(origin storage.Interface, mode Mode) *Sticky {
	return &Sticky{
		origin: origin,
		mode:   mode,
		loaded: abool.New(),
	}
}

// Name returns the name of the origin.
func (s *Sticky) Name() string {
	return storage.NameOf(s.origin)
}

// Read returns a copy of the cached rows. Only the first call reaches the
// origin; concurrent first calls share one origin read.
func (s *Sticky) Read() (record.RowSet, error) {
	if !s.loaded.IsSet() {
		_, err, _ := s.first.Do("load", func() (interface{}, error) {
			return nil, s.load()
		})
		if err != nil {
			return nil, err
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	return s.cache.Clone(), nil
}

func (s *Sticky) load() error {
	if s.loaded.IsSet() {
		return nil
	}
	rows, err := s.origin.Read()
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	// a write may have filled the cache meanwhile
	if s.loaded.SetToIf(false, true) {
		s.cache = rows
		log.Tracef("sticky: cached %d rows of %s", len(rows), s.Name())
	}
	return nil
}

// Write forwards the rows to the origin and, if that succeeds, updates
// the cache.
func (s *Sticky) Write(rows record.RowSet) error {
	if s.mode == Merge && !s.loaded.IsSet() {
		// merging needs the current rows
		if _, err := s.Read(); err != nil {
			return err
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	next := rows.Clone()
	if s.mode == Merge {
		next = s.cache.Merge(rows)
	}
	if err := s.origin.Write(next); err != nil {
		return err
	}
	s.cache = next
	s.loaded.Set()
	return nil
}

// Close closes the origin. The cache stays readable.
func (s *Sticky) Close() error {
	return s.origin.Close()
}
