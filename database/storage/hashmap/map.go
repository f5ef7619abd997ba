// Package hashmap provides an in-process memory store. Nothing is
// persisted; it is mostly used as the buffer of other stores and in tests.
package hashmap

import (
	"sync"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
)

// HashMap storage.
type HashMap struct {
	name   string
	rows   record.RowSet
	dbLock sync.RWMutex
}

func init() {
	_ = storage.Register("hashmap", func(location string) (storage.Interface, error) {
		return NewHashMap(location), nil
	})
}

// NewHashMap creates an empty in-memory store.
func NewHashMap(name string) *HashMap {
	return &HashMap{
		name: name,
		rows: record.RowSet{},
	}
}

// Name returns the name of the store.
func (hm *HashMap) Name() string {
	if hm.name == "" {
		return "hashmap"
	}
	return "hashmap:" + hm.name
}

// Read returns a copy of all rows.
func (hm *HashMap) Read() (record.RowSet, error) {
	hm.dbLock.RLock()
	defer hm.dbLock.RUnlock()

	return hm.rows.Clone(), nil
}

// Write replaces all rows with a copy of the given ones.
func (hm *HashMap) Write(rows record.RowSet) error {
	dup := rows.Clone()

	hm.dbLock.Lock()
	defer hm.dbLock.Unlock()

	hm.rows = dup
	return nil
}

// Len returns the number of rows currently held.
func (hm *HashMap) Len() int {
	hm.dbLock.RLock()
	defer hm.dbLock.RUnlock()

	return len(hm.rows)
}

// Close does nothing, the rows stay available.
func (hm *HashMap) Close() error {
	return nil
}
