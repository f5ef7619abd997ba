package database

import (
	"fmt"

	"github.com/yegor256/tojos/database/record"
)

type entry struct {
	id   string
	coll *Default
}

func (e *entry) ID() string {
	return e.id
}

func (e *entry) row() (record.Row, error) {
	rows, err := e.coll.store.Read()
	if err != nil {
		return nil, err
	}
	row, _ := rows.Find(e.id)
	if row == nil {
		return nil, e.missing(len(rows))
	}
	return row, nil
}

func (e *entry) missing(size int) error {
	return fmt.Errorf("%w: no %s=%q among %d rows", ErrNotFound, record.IDKey, e.id, size)
}

func (e *entry) Exists(key string) (bool, error) {
	row, err := e.row()
	if err != nil {
		return false, err
	}
	_, ok := row[key]
	return ok, nil
}

func (e *entry) Get(key string) (string, error) {
	row, err := e.row()
	if err != nil {
		return "", err
	}
	value, ok := row[key]
	if !ok {
		return "", fmt.Errorf("%w: %s=%q has no attribute %q among %d", ErrNotFound, record.IDKey, e.id, key, len(row))
	}
	return value, nil
}

func (e *entry) Set(key, value string) error {
	switch key {
	case record.IDKey:
		return fmt.Errorf("%w: can not change %s of %q", ErrInvalidArgument, record.IDKey, e.id)
	case "":
		return fmt.Errorf("%w: empty attribute name", ErrInvalidArgument)
	}

	return e.coll.update(func(rows record.RowSet) (record.RowSet, error) {
		row, _ := rows.Find(e.id)
		if row == nil {
			return nil, e.missing(len(rows))
		}
		row[key] = value
		return rows, nil
	})
}

func (e *entry) ToMap() (map[string]string, error) {
	row, err := e.row()
	if err != nil {
		return nil, err
	}
	return row.Clone(), nil
}
