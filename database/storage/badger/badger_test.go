package badger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
)

func TestBadger(t *testing.T) {
	testDir := t.TempDir()

	db, err := NewBadger(testDir, "")
	require.NoError(t, err)

	rows, err := db.Read()
	require.NoError(t, err)
	assert.Empty(t, rows)

	written := record.RowSet{}
	for i := 0; i < 50; i++ {
		written = append(written, record.Row{
			record.IDKey: fmt.Sprintf("x%d", 50-i),
			"size":       fmt.Sprint(i * i),
		})
	}
	require.NoError(t, db.Write(written))

	rows, err = db.Read()
	require.NoError(t, err)
	assert.Equal(t, written.IDs(), rows.IDs())
	assert.True(t, written.Equal(rows))

	// shrinking removes the old entries
	require.NoError(t, db.Write(written[:3]))
	rows, err = db.Read()
	require.NoError(t, err)
	assert.Equal(t, written[:3].IDs(), rows.IDs())

	require.NoError(t, db.Maintain())
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	// reopen
	db, err = NewBadger(testDir, DefaultPrefix)
	require.NoError(t, err)
	defer db.Close()
	rows, err = db.Read()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestPrefixes(t *testing.T) {
	s, err := storage.Start("badger", t.TempDir()+"#books")
	require.NoError(t, err)
	defer s.Close()
	db := s.(*Badger)

	other := &Badger{
		location: db.location,
		prefix:   []byte("booksellers:"),
		db:       db.db,
		closed:   db.closed,
	}

	require.NoError(t, db.Write(record.RowSet{record.NewRow("b1"), record.NewRow("b2")}))
	require.NoError(t, other.Write(record.RowSet{record.NewRow("s1")}))
	require.NoError(t, other.Write(record.RowSet{record.NewRow("s2")}))

	rows, err := db.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, rows.IDs())

	rows, err = other.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, rows.IDs())
}
