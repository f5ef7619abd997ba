// Package badger stores a row set in a badger database. Every row is an
// entry under a common key prefix, so several collections can share one
// database directory.
package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger"
	"github.com/tevino/abool"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/formats/dsd"
	"github.com/yegor256/tojos/log"
)

// DefaultPrefix is used when the location does not name a prefix.
const DefaultPrefix = "rows"

// Badger database made pluggable for tojos.
type Badger struct {
	location string
	prefix   []byte
	db       *badger.DB
	closed   *abool.AtomicBool
}

func init() {
	_ = storage.Register("badger", func(location string) (storage.Interface, error) {
		dir, prefix, _ := strings.Cut(location, "#")
		return NewBadger(dir, prefix)
	})
}

// NewBadger opens/creates a badger database in dir. Rows are kept under
// keys starting with prefix.
func NewBadger(dir, prefix string) (*Badger, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	opts := badger.DefaultOptions(dir).WithLogger(logger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, storage.NewIOError("open", dir, 0, err)
	}

	return &Badger{
		location: dir,
		prefix:   []byte(prefix + ":"),
		db:       db,
		closed:   abool.New(),
	}, nil
}

// Name returns the directory and prefix of the store.
func (b *Badger) Name() string {
	return b.location + "#" + strings.TrimSuffix(string(b.prefix), ":")
}

// Read returns all rows under the prefix in their natural order.
func (b *Badger) Read() (record.RowSet, error) {
	rows := record.RowSet{}

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(b.prefix); it.ValidForPrefix(b.prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			row, err := record.UnmarshalRow(data)
			if err != nil {
				return fmt.Errorf("entry %q: %w", item.Key(), err)
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, storage.NewIOError("read", b.Name(), 0, err)
	}
	return rows, nil
}

// Write replaces all rows under the prefix in a single transaction.
func (b *Badger) Write(rows record.RowSet) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		// collect first, the iterator must be closed before deleting
		var old [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Seek(b.prefix); it.ValidForPrefix(b.prefix); it.Next() {
			old = append(old, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range old {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for i, row := range rows {
			data, err := record.MarshalRow(row, dsd.CBOR)
			if err != nil {
				return err
			}
			if err := txn.Set(b.key(i), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storage.NewIOError("write", b.Name(), len(rows), err)
	}
	return nil
}

// Maintain runs a light maintenance operation on the database.
func (b *Badger) Maintain() error {
	_ = b.db.RunValueLogGC(0.7)
	return nil
}

// Close closes the database.
func (b *Badger) Close() error {
	if !b.closed.SetToIf(false, true) {
		return nil
	}
	log.Debugf("badger: closing %s", b.location)
	return b.db.Close()
}

func (b *Badger) key(i int) []byte {
	key := make([]byte, len(b.prefix)+8)
	copy(key, b.prefix)
	binary.BigEndian.PutUint64(key[len(b.prefix):], uint64(i))
	return key
}

// logger routes badger's own messages into the tojos log.
type logger struct{}

func (logger) Errorf(format string, args ...interface{}) {
	log.Errorf("badger: "+strings.TrimSpace(format), args...)
}

func (logger) Warningf(format string, args ...interface{}) {
	log.Warningf("badger: "+strings.TrimSpace(format), args...)
}

func (logger) Infof(format string, args ...interface{}) {
	log.Debugf("badger: "+strings.TrimSpace(format), args...)
}

func (logger) Debugf(format string, args ...interface{}) {
	log.Tracef("badger: "+strings.TrimSpace(format), args...)
}
