// Package postponed buffers writes in memory and flushes them to the
// origin from a background goroutine, at most once per interval.
//
// Data written after the last flush is lost if the process dies without
// calling Close or cancelling the context given in Options. Once that
// context is cancelled, the flusher is gone and every Write goes straight
// to the origin.
package postponed

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/database/storage/hashmap"
	"github.com/yegor256/tojos/log"
)

// DefaultInterval is the flush interval used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Options configure a Postponed store.
type Options struct {
	// Interval between flushes. Defaults to DefaultInterval.
	Interval time.Duration
	// Context stops the flusher when cancelled; a final flush is done
	// first, later writes are persisted synchronously. Defaults to
	// context.Background().
	Context context.Context
}

// Postponed is a store with a deferred writer in front of its origin.
type Postponed struct {
	origin   storage.Interface
	buffer   *hashmap.HashMap
	interval time.Duration

	// lock is held by Write, Read seeding and the flusher.
	lock   sync.Mutex
	dirty  *abool.AtomicBool
	seeded *abool.AtomicBool
	closed *abool.AtomicBool
	// stopped is set once the flusher has exited.
	stopped *abool.AtomicBool

	errLock  sync.Mutex
	retained error

	cancel context.CancelFunc
	done   chan struct{}
}

// New wraps origin and starts the flusher.
func New(origin storage.Interface, opts Options) *Postponed {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	p := &Postponed{
		origin:   origin,
		buffer:   hashmap.NewHashMap(storage.NameOf(origin)),
		interval: opts.Interval,
		dirty:    abool.New(),
		seeded:   abool.New(),
		closed:   abool.New(),
		stopped:  abool.New(),
		done:     make(chan struct{}),
	}
	var ctx context.Context
	ctx, p.cancel = context.WithCancel(opts.Context)
	go p.flusher(ctx)
	return p
}

// Name returns the name of the origin.
func (p *Postponed) Name() string {
	return storage.NameOf(p.origin)
}

// Read returns the buffered rows. The first call loads them from the
// origin, unless a write came first.
func (p *Postponed) Read() (record.RowSet, error) {
	if !p.seeded.IsSet() {
		p.lock.Lock()
		if !p.seeded.IsSet() {
			rows, err := p.origin.Read()
			if err != nil {
				p.lock.Unlock()
				return nil, err
			}
			_ = p.buffer.Write(rows)
			p.seeded.Set()
		}
		p.lock.Unlock()
	}
	return p.buffer.Read()
}

// Write replaces the buffered rows and marks them for flushing. The origin
// is not touched, unless the flusher was stopped by the context.
func (p *Postponed) Write(rows record.RowSet) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed.IsSet() {
		return storage.ErrClosed
	}
	_ = p.buffer.Write(rows)
	p.seeded.Set()
	p.dirty.Set()

	if p.stopped.IsSet() {
		return p.flushLocked()
	}
	return nil
}

// Err returns the error of the last flush, if it failed. It is reset by
// the next successful flush.
func (p *Postponed) Err() error {
	p.errLock.Lock()
	defer p.errLock.Unlock()
	return p.retained
}

func (p *Postponed) flusher(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// shutting down, persist what is left
			p.lock.Lock()
			p.stopped.Set()
			_ = p.flushLocked()
			p.lock.Unlock()
			return
		case <-ticker.C:
			p.flush()
		}
	}
}

// flush writes the buffer to the origin if it is dirty. On failure the
// buffer stays dirty, so the next flush tries again.
func (p *Postponed) flush() {
	p.lock.Lock()
	defer p.lock.Unlock()
	_ = p.flushLocked()
}

func (p *Postponed) flushLocked() error {
	if !p.dirty.IsSet() {
		return nil
	}
	rows, _ := p.buffer.Read()
	err := p.origin.Write(rows)

	p.errLock.Lock()
	defer p.errLock.Unlock()
	if err != nil {
		log.Warningf("postponed: failed to flush %d rows to %s: %s", len(rows), p.Name(), err)
		p.retained = err
		return err
	}
	log.Tracef("postponed: flushed %d rows to %s", len(rows), p.Name())
	p.retained = nil
	p.dirty.UnSet()
	return nil
}

// Close stops the flusher, writes pending rows and closes the origin.
func (p *Postponed) Close() error {
	p.lock.Lock()
	if !p.closed.SetToIf(false, true) {
		p.lock.Unlock()
		return nil
	}
	p.lock.Unlock()

	p.cancel()
	<-p.done
	p.flush()

	var result *multierror.Error
	if err := p.Err(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := p.origin.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
