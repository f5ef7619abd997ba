package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/yegor256/tojos/database"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/database/storage/locked"
	"github.com/yegor256/tojos/database/storage/metered"
	"github.com/yegor256/tojos/database/storage/postponed"
	"github.com/yegor256/tojos/database/storage/sticky"
	"github.com/yegor256/tojos/log"

	// register storage types
	_ "github.com/yegor256/tojos/database/storage/badger"
	_ "github.com/yegor256/tojos/database/storage/bbolt"
	_ "github.com/yegor256/tojos/database/storage/fsfile"
	_ "github.com/yegor256/tojos/database/storage/hashmap"
	_ "github.com/yegor256/tojos/database/storage/sinkhole"
	_ "github.com/yegor256/tojos/database/storage/sqlite"
)

// Stack is an opened collection with its store.
type Stack struct {
	name  string
	store storage.Interface
	coll  database.Collection
}

// Name returns the name of the collection.
func (s *Stack) Name() string {
	return s.name
}

// Store returns the outermost store of the stack.
func (s *Stack) Store() storage.Interface {
	return s.store
}

// Collection returns the collection.
func (s *Stack) Collection() database.Collection {
	return s.coll
}

// Close closes the collection and all stores below it.
func (s *Stack) Close() error {
	return s.coll.Close()
}

// Open builds the stack described by opts, from the bottom up: storage,
// metered, postponed, sticky, locked; then the collection, cached,
// synchronized. Cancelling ctx stops the deferred writer after a final
// flush.
func Open(ctx context.Context, name string, opts Options) (*Stack, error) {
	if err := opts.Validate(name); err != nil {
		return nil, err
	}

	store, err := storage.Start(opts.Storage, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s storage of collection %q: %w", opts.Storage, name, err)
	}
	if opts.Metered != "" {
		store = metered.New(store, opts.Metered)
	}
	if interval, _ := opts.interval(); interval > 0 {
		store = postponed.New(store, postponed.Options{
			Interval: interval,
			Context:  ctx,
		})
	}
	if opts.Sticky != "" {
		mode, _ := sticky.ParseMode(opts.Sticky)
		store = sticky.New(store, mode)
	}
	if opts.Lock != "" {
		mode, _ := locked.ParseMode(opts.Lock)
		store = locked.New(store, mode)
	}

	var coll database.Collection = database.New(store)
	if opts.Cache != "" {
		regime, _ := database.ParseRegime(opts.Cache)
		coll = database.NewCached(coll, regime)
	}
	if opts.Synchronized {
		coll = database.NewSynchronized(coll)
	}

	log.Debugf("config: opened collection %q on %s", name, storage.NameOf(store))
	return &Stack{
		name:  name,
		store: store,
		coll:  coll,
	}, nil
}

// Registry holds the open collections of a config.
type Registry struct {
	lock   sync.Mutex
	stacks map[string]*Stack
}

// Open opens all collections of the config and applies its log level. If
// one collection fails to open, the already opened ones are closed again.
func (c *Config) Open(ctx context.Context) (*Registry, error) {
	if c.LogLevel != "" {
		log.SetLogLevel(log.ParseLevel(c.LogLevel))
	}

	r := &Registry{stacks: make(map[string]*Stack)}
	for _, name := range c.Names() {
		if err := r.Open(ctx, name, c.Collections[name]); err != nil {
			if closeErr := r.Close(); closeErr != nil {
				err = multierror.Append(err, closeErr)
			}
			return nil, err
		}
	}
	return r, nil
}

// Open opens a collection and adds it to the registry.
func (r *Registry) Open(ctx context.Context, name string, opts Options) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.stacks[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	stack, err := Open(ctx, name, opts)
	if err != nil {
		return err
	}
	r.stacks[name] = stack
	return nil
}

// Get returns the named collection.
func (r *Registry) Get(name string) (database.Collection, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	stack, ok := r.stacks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotOpen, name)
	}
	return stack.Collection(), nil
}

// Close closes all collections and returns all errors.
func (r *Registry) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result *multierror.Error
	for name, stack := range r.stacks {
		if err := stack.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close collection %q: %w", name, err))
		}
		delete(r.stacks, name)
	}
	return result.ErrorOrNil()
}
