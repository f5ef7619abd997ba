package database

import (
	"sync"
)

// Synchronized guards a collection and all entries it returns with one
// mutex, so that no two calls run at the same time.
type Synchronized struct {
	origin Collection
	lock   sync.Mutex
}

// NewSynchronized wraps origin.
func NewSynchronized(origin Collection) *Synchronized {
	return &Synchronized{origin: origin}
}

// Add adds an entry while holding the lock.
func (s *Synchronized) Add(id string) (Entry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	e, err := s.origin.Add(id)
	if err != nil {
		return nil, err
	}
	return &syncEntry{origin: e, lock: &s.lock}, nil
}

// Select selects entries while holding the lock. The filter runs under
// the lock too and gets unguarded entries.
func (s *Synchronized) Select(filter func(Entry) bool) ([]Entry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entries, err := s.origin.Select(filter)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		entries[i] = &syncEntry{origin: e, lock: &s.lock}
	}
	return entries, nil
}

// Close closes the collection.
func (s *Synchronized) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.origin.Close()
}

type syncEntry struct {
	origin Entry
	lock   *sync.Mutex
}

func (e *syncEntry) ID() string {
	return e.origin.ID()
}

func (e *syncEntry) Exists(key string) (bool, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.origin.Exists(key)
}

func (e *syncEntry) Get(key string) (string, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.origin.Get(key)
}

func (e *syncEntry) Set(key, value string) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.origin.Set(key, value)
}

func (e *syncEntry) ToMap() (map[string]string, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.origin.ToMap()
}
