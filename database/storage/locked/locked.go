// Package locked guards a store with a single lock.
//
// Every Read and Write holds the lock for the duration of the call only.
// This serializes access to the origin, but two callers doing
// Read-then-Write may still interleave and lose an update. Use Update for
// read-modify-write cycles.
package locked

import (
	"fmt"
	"sync"

	"github.com/tevino/abool"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
)

// Mode selects the lock type.
type Mode uint8

// Lock Modes.
const (
	// Exclusive serializes all calls.
	Exclusive Mode = iota
	// Shared lets reads run concurrently, but never concurrently with a
	// write.
	Shared
)

// ParseMode returns the mode for the given name. An empty name selects
// Exclusive.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "exclusive":
		return Exclusive, nil
	case "shared":
		return Shared, nil
	default:
		return 0, fmt.Errorf("unknown lock mode %q", name)
	}
}

func (m Mode) String() string {
	if m == Shared {
		return "shared"
	}
	return "exclusive"
}

// Locked is a store that locks its origin on every call.
type Locked struct {
	origin storage.Interface
	mode   Mode
	lock   sync.RWMutex
	closed *abool.AtomicBool
}

// New wraps origin with a lock of the given mode.
func New(origin storage.Interface, mode Mode) *Locked {
	return &Locked{
		origin: origin,
		mode:   mode,
		closed: abool.New(),
	}
}

// Name returns the name of the origin.
func (l *Locked) Name() string {
	return storage.NameOf(l.origin)
}

// Mode returns the lock mode.
func (l *Locked) Mode() Mode {
	return l.mode
}

func (l *Locked) rlock() func() {
	if l.mode == Shared {
		l.lock.RLock()
		return l.lock.RUnlock
	}
	l.lock.Lock()
	return l.lock.Unlock
}

// Read reads from the origin while holding the lock.
func (l *Locked) Read() (record.RowSet, error) {
	defer l.rlock()()
	return l.origin.Read()
}

// Write writes to the origin while holding the lock.
func (l *Locked) Write(rows record.RowSet) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.origin.Write(rows)
}

// Update reads the rows, passes them to fn and writes the result, holding
// the exclusive lock across all three steps. If fn returns nil rows and
// no error, nothing is written.
func (l *Locked) Update(fn func(rows record.RowSet) (record.RowSet, error)) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	rows, err := l.origin.Read()
	if err != nil {
		return err
	}
	updated, err := fn(rows)
	if err != nil || updated == nil {
		return err
	}
	return l.origin.Write(updated)
}

// Close closes the origin once.
func (l *Locked) Close() error {
	if !l.closed.SetToIf(false, true) {
		return nil
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.origin.Close()
}
