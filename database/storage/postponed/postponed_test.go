package postponed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/database/storage/hashmap"
)

// origin counts the calls that reach it and can be told to fail.
type origin struct {
	lock   sync.Mutex
	store  *hashmap.HashMap
	reads  int
	writes int
	closes int
	fail   error
}

func newOrigin(rows record.RowSet) *origin {
	o := &origin{store: hashmap.NewHashMap("origin")}
	_ = o.store.Write(rows)
	return o
}

func (o *origin) Read() (record.RowSet, error) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.reads++
	return o.store.Read()
}

func (o *origin) Write(rows record.RowSet) error {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.writes++
	if o.fail != nil {
		return o.fail
	}
	return o.store.Write(rows)
}

func (o *origin) Name() string {
	return o.store.Name()
}

func (o *origin) Close() error {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.closes++
	return nil
}

func (o *origin) setFail(err error) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.fail = err
}

func (o *origin) counts() (reads, writes, closes int) {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.reads, o.writes, o.closes
}

func (o *origin) ids() []string {
	rows, _ := o.store.Read()
	return rows.IDs()
}

func TestDefaults(t *testing.T) {
	p := New(newOrigin(nil), Options{})
	defer p.Close()
	assert.Equal(t, DefaultInterval, p.interval)
	assert.Equal(t, "hashmap:origin", p.Name())
}

func TestSeeding(t *testing.T) {
	o := newOrigin(record.RowSet{record.NewRow("a")})
	p := New(o, Options{Interval: time.Hour})
	defer p.Close()

	for i := 0; i < 3; i++ {
		rows, err := p.Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, rows.IDs())
	}
	reads, writes, _ := o.counts()
	assert.Equal(t, 1, reads)
	assert.Equal(t, 0, writes)
}

func TestWriteBeforeRead(t *testing.T) {
	o := newOrigin(record.RowSet{record.NewRow("a")})
	p := New(o, Options{Interval: time.Hour})

	require.NoError(t, p.Write(record.RowSet{record.NewRow("b")}))
	rows, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, rows.IDs())

	reads, writes, _ := o.counts()
	assert.Equal(t, 0, reads)
	assert.Equal(t, 0, writes)

	require.NoError(t, p.Close())
	assert.Equal(t, []string{"b"}, o.ids())
}

func TestBackgroundFlush(t *testing.T) {
	o := newOrigin(nil)
	p := New(o, Options{Interval: 10 * time.Millisecond})
	defer p.Close()

	require.NoError(t, p.Write(record.RowSet{record.NewRow("x")}))
	assert.Eventually(t, func() bool {
		return len(o.ids()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDebounce(t *testing.T) {
	o := newOrigin(nil)
	interval := 50 * time.Millisecond
	p := New(o, Options{Interval: interval})

	started := time.Now()
	var last record.RowSet
	for i := 0; i < 500; i++ {
		last = append(last, record.NewRow(fmt.Sprint(i)))
		require.NoError(t, p.Write(last))
	}
	elapsed := time.Since(started)
	require.NoError(t, p.Close())

	_, writes, closes := o.counts()
	assert.LessOrEqual(t, writes, int(elapsed/interval)+3)
	assert.Less(t, writes, 500)
	assert.Equal(t, 1, closes)
	assert.Equal(t, last.IDs(), o.ids())
}

func TestClose(t *testing.T) {
	o := newOrigin(nil)
	p := New(o, Options{Interval: time.Hour})

	require.NoError(t, p.Write(record.RowSet{record.NewRow("a")}))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, writes, closes := o.counts()
	assert.Equal(t, 1, writes)
	assert.Equal(t, 1, closes)
	assert.Equal(t, []string{"a"}, o.ids())

	assert.ErrorIs(t, p.Write(record.RowSet{}), storage.ErrClosed)
	rows, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rows.IDs())
}

func TestCloseWithoutWrites(t *testing.T) {
	o := newOrigin(record.RowSet{record.NewRow("a")})
	p := New(o, Options{Interval: time.Millisecond})
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, p.Close())

	_, writes, _ := o.counts()
	assert.Equal(t, 0, writes)
}

func TestFlushFailure(t *testing.T) {
	o := newOrigin(nil)
	o.setFail(storage.NewIOError("write", "origin", 1, errors.New("disk full")))
	p := New(o, Options{Interval: 5 * time.Millisecond})

	require.NoError(t, p.Write(record.RowSet{record.NewRow("a")}))
	assert.Eventually(t, func() bool {
		return p.Err() != nil
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, p.Err(), storage.ErrIOFailure)

	// the buffer is kept and persisted once the origin recovers
	o.setFail(nil)
	assert.Eventually(t, func() bool {
		return p.Err() == nil && len(o.ids()) == 1
	}, time.Second, time.Millisecond)
	require.NoError(t, p.Close())
}

func TestCloseFailure(t *testing.T) {
	o := newOrigin(nil)
	p := New(o, Options{Interval: time.Hour})
	require.NoError(t, p.Write(record.RowSet{record.NewRow("a")}))

	o.setFail(storage.NewIOError("write", "origin", 1, errors.New("disk full")))
	err := p.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrIOFailure)

	_, _, closes := o.counts()
	assert.Equal(t, 1, closes)
}

func TestContextCancel(t *testing.T) {
	o := newOrigin(nil)
	ctx, cancel := context.WithCancel(context.Background())
	p := New(o, Options{Interval: time.Hour, Context: ctx})

	require.NoError(t, p.Write(record.RowSet{record.NewRow("a")}))
	cancel()
	assert.Eventually(t, func() bool {
		return len(o.ids()) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, p.Close())
	_, writes, _ := o.counts()
	assert.Equal(t, 1, writes)
}

func TestWriteAfterCancel(t *testing.T) {
	o := newOrigin(nil)
	ctx, cancel := context.WithCancel(context.Background())
	p := New(o, Options{Interval: 5 * time.Millisecond, Context: ctx})

	cancel()
	assert.Eventually(t, func() bool {
		return p.stopped.IsSet()
	}, time.Second, time.Millisecond)

	// no flusher left, the write goes through at once
	require.NoError(t, p.Write(record.RowSet{record.NewRow("late")}))
	_, writes, _ := o.counts()
	assert.Equal(t, 1, writes)
	assert.Equal(t, []string{"late"}, o.ids())

	// failures are returned to the caller and the rows stay buffered
	o.setFail(storage.NewIOError("write", "origin", 1, errors.New("disk full")))
	err := p.Write(record.RowSet{record.NewRow("later")})
	assert.ErrorIs(t, err, storage.ErrIOFailure)
	rows, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"later"}, rows.IDs())

	o.setFail(nil)
	require.NoError(t, p.Close())
	assert.Equal(t, []string{"later"}, o.ids())
}
