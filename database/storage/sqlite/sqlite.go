// Package sqlite stores a row set in a SQLite table with one line per
// attribute: (pos, name, value). The position keeps the natural order.
package sqlite

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/tevino/abool"
	_ "modernc.org/sqlite" // driver

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/log"
	"github.com/yegor256/tojos/utils"
)

// DefaultTable is used when the location does not name a table.
const DefaultTable = "attributes"

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite store.
type SQLite struct {
	path   string
	table  string
	db     *sql.DB
	closed *abool.AtomicBool
}

func init() {
	_ = storage.Register("sqlite", func(location string) (storage.Interface, error) {
		path, table, _ := strings.Cut(location, "#")
		return NewSQLite(path, table)
	})
}

// NewSQLite opens (or creates) a SQLite database at path and makes sure
// the table exists. Use Memory for an in-memory database.
func NewSQLite(path, table string) (*SQLite, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	if path != Memory {
		if err := utils.EnsureParent(path); err != nil {
			return nil, storage.NewIOError("open", path, 0, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storage.NewIOError("open", path, 0, err)
	}
	// every connection to :memory: would see its own database
	db.SetMaxOpenConns(1)

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		pos   INTEGER NOT NULL,
		name  TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (pos, name)
	);`, table)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, storage.NewIOError("open", path, 0, fmt.Errorf("create schema: %w", err))
	}
	log.Debugf("sqlite: opened %s (table %s)", path, table)

	return &SQLite{
		path:   path,
		table:  table,
		db:     db,
		closed: abool.New(),
	}, nil
}

// Name returns the path and table of the store.
func (s *SQLite) Name() string {
	return s.path + "#" + s.table
}

// Read returns all rows ordered by their position.
func (s *SQLite) Read() (record.RowSet, error) {
	rows, err := s.read()
	if err != nil {
		return nil, storage.NewIOError("read", s.Name(), 0, err)
	}
	return rows, nil
}

func (s *SQLite) read() (record.RowSet, error) {
	res, err := s.db.Query(fmt.Sprintf("SELECT pos, name, value FROM %s ORDER BY pos", s.table))
	if err != nil {
		return nil, err
	}
	defer res.Close()

	rows := record.RowSet{}
	last := int64(-1)
	for res.Next() {
		var (
			pos         int64
			name, value string
		)
		if err := res.Scan(&pos, &name, &value); err != nil {
			return nil, err
		}
		if pos != last {
			rows = append(rows, record.Row{})
			last = pos
		}
		rows[len(rows)-1][name] = value
	}
	return rows, res.Err()
}

// Write replaces the content of the table in a single transaction.
func (s *SQLite) Write(rows record.RowSet) error {
	if err := s.write(rows); err != nil {
		return storage.NewIOError("write", s.Name(), len(rows), err)
	}
	return nil
}

func (s *SQLite) write(rows record.RowSet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
		return err
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (pos, name, value) VALUES (?, ?, ?)", s.table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, row := range rows {
		for _, name := range row.Keys() {
			if _, err := stmt.Exec(pos, name, row[name]); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLite) Close() error {
	if !s.closed.SetToIf(false, true) {
		return nil
	}
	log.Debugf("sqlite: closing %s", s.path)
	return s.db.Close()
}
