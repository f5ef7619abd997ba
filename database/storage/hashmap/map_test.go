package hashmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
)

func TestHashMap(t *testing.T) {
	db := NewHashMap("test")

	// empty at start
	rows, err := db.Read()
	require.NoError(t, err)
	assert.Empty(t, rows)

	// write and read back
	written := record.RowSet{
		{record.IDKey: "A", "age": "35"},
		record.NewRow("B"),
	}
	require.NoError(t, db.Write(written))
	assert.Equal(t, 2, db.Len())

	rows, err = db.Read()
	require.NoError(t, err)
	assert.True(t, written.Equal(rows))

	// returned rows are a modifiable copy
	rows[0]["age"] = "99"
	rows = append(rows, record.NewRow("C"))
	again, err := db.Read()
	require.NoError(t, err)
	assert.Len(t, again, 2)
	a, _ := again.Find("A")
	assert.Equal(t, "35", a["age"])

	// writes are copied as well
	written[1]["name"] = "Jeff"
	again, err = db.Read()
	require.NoError(t, err)
	b, _ := again.Find("B")
	assert.NotContains(t, b, "name")

	// close twice
	assert.NoError(t, db.Close())
	assert.NoError(t, db.Close())
}

func TestRegistered(t *testing.T) {
	s, err := storage.Start("hashmap", "people")
	require.NoError(t, err)
	assert.Equal(t, "hashmap:people", storage.NameOf(s))
}
