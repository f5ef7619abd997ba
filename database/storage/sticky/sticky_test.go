package sticky

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/database/storage/hashmap"
)

// counting counts the calls that reach the origin.
type counting struct {
	storage.Interface
	reads  int32
	writes int32
	fail   error
	last   record.RowSet
}

func (c *counting) Read() (record.RowSet, error) {
	atomic.AddInt32(&c.reads, 1)
	return c.Interface.Read()
}

func (c *counting) Write(rows record.RowSet) error {
	atomic.AddInt32(&c.writes, 1)
	if c.fail != nil {
		return c.fail
	}
	c.last = rows.Clone()
	return c.Interface.Write(rows)
}

func seeded(t *testing.T, rows record.RowSet) *counting {
	t.Helper()
	hm := hashmap.NewHashMap("")
	require.NoError(t, hm.Write(rows))
	return &counting{Interface: hm}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("merge")
	require.NoError(t, err)
	assert.Equal(t, Merge, m)
	assert.Equal(t, "merge", m.String())
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Strict, m)
	_, err = ParseMode("glue")
	assert.Error(t, err)
}

func TestReadOnce(t *testing.T) {
	origin := seeded(t, record.RowSet{record.NewRow("a")})
	s := New(origin, Strict)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := s.Read()
			assert.NoError(t, err)
			assert.Equal(t, []string{"a"}, rows.IDs())
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&origin.reads))

	// callers can not modify the cache
	rows, err := s.Read()
	require.NoError(t, err)
	rows[0]["x"] = "y"
	rows, err = s.Read()
	require.NoError(t, err)
	assert.NotContains(t, rows[0], "x")
}

func TestStrict(t *testing.T) {
	origin := seeded(t, record.RowSet{record.NewRow("a"), record.NewRow("b")})
	s := New(origin, Strict)

	written := record.RowSet{{record.IDKey: "c", "k": "v"}}
	require.NoError(t, s.Write(written))
	assert.True(t, written.Equal(origin.last))

	rows, err := s.Read()
	require.NoError(t, err)
	assert.True(t, written.Equal(rows))
	assert.EqualValues(t, 0, atomic.LoadInt32(&origin.reads))

	// coherent with the origin after every write
	more := record.RowSet{{record.IDKey: "c", "k": "w"}, record.NewRow("d")}
	require.NoError(t, s.Write(more))
	direct, err := origin.Interface.Read()
	require.NoError(t, err)
	rows, err = s.Read()
	require.NoError(t, err)
	assert.True(t, direct.Equal(rows))
}

func TestMerge(t *testing.T) {
	origin := seeded(t, record.RowSet{
		{record.IDKey: "a", "v": "1"},
		{record.IDKey: "b", "v": "1"},
	})
	s := New(origin, Merge)

	require.NoError(t, s.Write(record.RowSet{
		{record.IDKey: "b", "v": "2"},
		{record.IDKey: "c", "v": "2"},
	}))
	assert.EqualValues(t, 1, atomic.LoadInt32(&origin.reads))
	assert.Equal(t, []string{"a", "b", "c"}, origin.last.IDs())

	rows, err := s.Read()
	require.NoError(t, err)
	assert.True(t, origin.last.Equal(rows))
	b, _ := rows.Find("b")
	assert.Equal(t, "2", b["v"])

	// nothing can be removed
	require.NoError(t, s.Write(record.RowSet{}))
	rows, err = s.Read()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestWriteFailure(t *testing.T) {
	origin := seeded(t, record.RowSet{record.NewRow("a")})
	s := New(origin, Strict)
	_, err := s.Read()
	require.NoError(t, err)

	origin.fail = storage.NewIOError("write", "test", 1, errors.New("disk full"))
	err = s.Write(record.RowSet{record.NewRow("b")})
	assert.ErrorIs(t, err, storage.ErrIOFailure)

	rows, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rows.IDs())
}
