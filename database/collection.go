package database

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
)

// Collection is a set of entries, each identified by a unique ID.
type Collection interface {
	// Add returns the entry with the given ID, creating it if necessary.
	Add(id string) (Entry, error)

	// Select returns all entries accepted by filter, in the natural order
	// of the store. A nil filter accepts everything.
	Select(filter func(Entry) bool) ([]Entry, error)

	// Close closes the underlying store.
	Close() error
}

// Entry is a handle of one record of a collection. It carries only the ID;
// the attributes are looked up in the store on every call.
type Entry interface {
	// ID returns the identifier of the entry.
	ID() string

	// Exists reports whether the entry has the attribute.
	Exists(key string) (bool, error)

	// Get returns the value of the attribute, or ErrNotFound.
	Get(key string) (string, error)

	// Set sets the attribute. The identifier can not be changed.
	Set(key, value string) error

	// ToMap returns a copy of all attributes.
	ToMap() (map[string]string, error)
}

// All is a filter that accepts every entry.
func All(Entry) bool {
	return true
}

// Default is a collection directly on top of a store.
type Default struct {
	store storage.Interface
	lock  sync.Mutex
}

// New returns a collection backed by store.
func New(store storage.Interface) *Default {
	return &Default{store: store}
}

// Store returns the store of the collection.
func (d *Default) Store() storage.Interface {
	return d.store
}

// Add returns the entry with the given ID, inserting a row that only
// carries the ID if there is none yet.
func (d *Default) Add(id string) (Entry, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, record.IDKey)
	}

	err := d.update(func(rows record.RowSet) (record.RowSet, error) {
		if _, i := rows.Find(id); i >= 0 {
			return nil, nil
		}
		return append(rows, record.NewRow(id)), nil
	})
	if err != nil {
		return nil, err
	}
	return &entry{id: id, coll: d}, nil
}

// AddNew adds an entry with a new random ID.
func (d *Default) AddNew() (Entry, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", record.IDKey, err)
	}
	return d.Add(id.String())
}

// Select returns the entries accepted by filter.
func (d *Default) Select(filter func(Entry) bool) ([]Entry, error) {
	rows, err := d.store.Read()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e := &entry{id: row.ID(), coll: d}
		if filter == nil || filter(e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Close closes the store.
func (d *Default) Close() error {
	return d.store.Close()
}

// update runs a read-modify-write cycle. It is atomic for this
// collection, and for the store if it implements storage.Updater.
func (d *Default) update(fn func(rows record.RowSet) (record.RowSet, error)) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if updater, ok := d.store.(storage.Updater); ok {
		return updater.Update(fn)
	}

	rows, err := d.store.Read()
	if err != nil {
		return err
	}
	updated, err := fn(rows)
	if err != nil || updated == nil {
		return err
	}
	return d.store.Write(updated)
}
