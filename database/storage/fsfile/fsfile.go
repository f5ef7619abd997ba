/*
Package fsfile provides a dead simple file-based store: the whole row set
lives in a single file, encoded by a Codec. Writes are atomic, the file is
written to a temporary location and then renamed into place.
*/
package fsfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/log"
	"github.com/yegor256/tojos/utils"
)

const defaultFileMode = os.FileMode(0o0644)

// FSFile database storage.
type FSFile struct {
	path  string
	codec Codec
}

func init() {
	for _, codec := range []Codec{CSV, Tabs, JSON, YAML, DSD} {
		c := codec
		_ = storage.Register(c.Name(), func(location string) (storage.Interface, error) {
			return New(location, c)
		})
	}
	_ = storage.Register("file", func(location string) (storage.Interface, error) {
		return Open(location)
	})
}

// New returns a store that keeps its rows in the file at path, encoded
// with the given codec. The file does not need to exist.
func New(path string, codec Codec) (*FSFile, error) {
	if codec == nil {
		return nil, errors.New("fsfile: codec is required")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("fsfile: failed to validate path %s: %w", path, err)
	}

	file, err := os.Stat(absPath)
	switch {
	case err == nil && file.IsDir():
		return nil, fmt.Errorf("fsfile: provided path (%s) is a directory", absPath)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("fsfile: failed to stat path %s: %w", absPath, err)
	}

	return &FSFile{
		path:  absPath,
		codec: codec,
	}, nil
}

// Open returns a store for the file at path, picking the codec from the
// file extension.
func Open(path string) (*FSFile, error) {
	codec, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	return New(path, codec)
}

// Name returns the path of the file.
func (fsf *FSFile) Name() string {
	return fsf.path
}

// Path returns the absolute path of the file.
func (fsf *FSFile) Path() string {
	return fsf.path
}

// Read loads and decodes all rows from the file. A missing file is an
// empty set.
func (fsf *FSFile) Read() (record.RowSet, error) {
	data, err := os.ReadFile(fsf.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return record.RowSet{}, nil
		}
		return nil, storage.NewIOError("read", fsf.path, 0, err)
	}

	rows, err := fsf.codec.Decode(data)
	if err != nil {
		return nil, storage.NewIOError("read", fsf.path, 0, fmt.Errorf("%s: %w", fsf.codec.Name(), err))
	}
	if rows == nil {
		rows = record.RowSet{}
	}
	return rows, nil
}

// Write encodes all rows and atomically replaces the file. Missing parent
// directories are created.
func (fsf *FSFile) Write(rows record.RowSet) error {
	data, err := fsf.codec.Encode(rows)
	if err != nil {
		return storage.NewIOError("write", fsf.path, len(rows), fmt.Errorf("%s: %w", fsf.codec.Name(), err))
	}

	err = renameio.WriteFile(fsf.path, data, defaultFileMode)
	if err != nil {
		// create dir and try again
		err = utils.EnsureParent(fsf.path)
		if err != nil {
			return storage.NewIOError("write", fsf.path, len(rows), err)
		}
		err = renameio.WriteFile(fsf.path, data, defaultFileMode)
		if err != nil {
			return storage.NewIOError("write", fsf.path, len(rows), err)
		}
	}

	log.Tracef("fsfile: wrote %d rows (%d bytes) to %s", len(rows), len(data), fsf.path)
	return nil
}

// Close does nothing, files are not kept open.
func (fsf *FSFile) Close() error {
	return nil
}
