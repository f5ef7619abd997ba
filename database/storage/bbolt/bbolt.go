// Package bbolt stores a row set in a bbolt bucket, one entry per row.
// Entry keys are the big-endian position of the row, so the natural order
// survives a round trip.
package bbolt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tevino/abool"
	"go.etcd.io/bbolt"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/formats/dsd"
	"github.com/yegor256/tojos/log"
	"github.com/yegor256/tojos/utils"
)

// DefaultBucket is used when the location does not name a bucket.
const DefaultBucket = "rows"

// BBolt database made pluggable for tojos.
type BBolt struct {
	path   string
	bucket []byte
	format dsd.SerializationFormat
	db     *bbolt.DB
	closed *abool.AtomicBool
}

func init() {
	_ = storage.Register("bbolt", func(location string) (storage.Interface, error) {
		path, bucket, _ := strings.Cut(location, "#")
		return NewBBolt(path, bucket)
	})
}

// NewBBolt opens/creates a bbolt database at path and uses the given
// bucket for the rows.
func NewBBolt(path, bucket string) (*BBolt, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	err := utils.EnsureParent(path)
	if err != nil {
		return nil, storage.NewIOError("open", path, 0, err)
	}

	db, err := bbolt.Open(path, 0o0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, storage.NewIOError("open", path, 0, err)
	}
	log.Debugf("bbolt: opened %s (bucket %s)", path, bucket)

	return &BBolt{
		path:   path,
		bucket: []byte(bucket),
		format: dsd.CBOR,
		db:     db,
		closed: abool.New(),
	}, nil
}

// Name returns the path and bucket of the store.
func (b *BBolt) Name() string {
	return b.path + "#" + string(b.bucket)
}

// Read returns all rows of the bucket in their natural order.
func (b *BBolt) Read() (record.RowSet, error) {
	rows := record.RowSet{}

	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(key, value []byte) error {
			// value is only valid during the transaction, UnmarshalRow copies.
			row, err := record.UnmarshalRow(value)
			if err != nil {
				return fmt.Errorf("entry %x: %w", key, err)
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, storage.NewIOError("read", b.Name(), 0, err)
	}
	return rows, nil
}

// Write replaces the bucket with the given rows in a single transaction.
func (b *BBolt) Write(rows record.RowSet) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket(b.bucket)
		if err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket(b.bucket)
		if err != nil {
			return err
		}
		for i, row := range rows {
			data, err := record.MarshalRow(row, b.format)
			if err != nil {
				return err
			}
			err = bucket.Put(positionKey(i), data)
			if err != nil {
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

// Close closes the database.
func (b *BBolt) Close() error {
	if !b.closed.SetToIf(false, true) {
		return nil
	}
	log.Debugf("bbolt: closing %s", b.path)
	return b.db.Close()
}

func positionKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}
