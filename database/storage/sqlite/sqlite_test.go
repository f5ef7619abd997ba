package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
)

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "tojos.db")
	db, err := NewSQLite(path, "")
	require.NoError(t, err)

	rows, err := db.Read()
	require.NoError(t, err)
	assert.Empty(t, rows)

	written := record.RowSet{
		{record.IDKey: "z", "title": "last ' quote", "empty": ""},
		{record.IDKey: "a", "title": "first"},
		record.NewRow("m"),
	}
	require.NoError(t, db.Write(written))

	rows, err = db.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, rows.IDs())
	assert.True(t, written.Equal(rows))
	assert.Equal(t, "", rows[0]["empty"])

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	db, err = NewSQLite(path, DefaultTable)
	require.NoError(t, err)
	defer db.Close()

	rows, err = db.Read()
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	require.NoError(t, db.Write(nil))
	rows, err = db.Read()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemory(t *testing.T) {
	s, err := storage.Start("sqlite", Memory+"#books")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record.RowSet{record.NewRow("b1")}))
	rows, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, rows.IDs())
	assert.Equal(t, ":memory:#books", storage.NameOf(s))
}

func TestTableName(t *testing.T) {
	_, err := NewSQLite(Memory, "rows; DROP TABLE x")
	assert.Error(t, err)
}

func TestClosed(t *testing.T) {
	db, err := NewSQLite(Memory, "")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.Read()
	assert.ErrorIs(t, err, storage.ErrIOFailure)
	assert.ErrorIs(t, db.Write(record.RowSet{record.NewRow("a")}), storage.ErrIOFailure)
}
