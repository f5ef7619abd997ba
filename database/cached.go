package database

import (
	"fmt"
	"sync"

	"github.com/bluele/gcache"
	"golang.org/x/exp/maps"

	"github.com/yegor256/tojos/database/record"
)

// Regime selects when the entry cache is invalidated.
type Regime uint8

// Cache Regimes.
const (
	// ClearOnAdd drops the whole cache on every Add. The next Select
	// loads all entries again.
	ClearOnAdd Regime = iota

	// SurviveAdd keeps the cache across Add and caches the added entry.
	// Entries added to the store through another collection are not seen
	// until the cache is empty again.
	SurviveAdd
)

// ParseRegime returns the regime for the given name. An empty name
// selects ClearOnAdd.
func ParseRegime(name string) (Regime, error) {
	switch name {
	case "", "clear-on-add":
		return ClearOnAdd, nil
	case "survive-add":
		return SurviveAdd, nil
	default:
		return 0, fmt.Errorf("unknown cache regime %q", name)
	}
}

func (r Regime) String() string {
	if r == SurviveAdd {
		return "survive-add"
	}
	return "clear-on-add"
}

// Cached keeps the entries of a collection and their attributes in
// memory. Reads are served from memory, Set writes through.
type Cached struct {
	origin Collection
	regime Regime

	lock    sync.Mutex
	entries gcache.Cache
	order   []string
}

// NewCached wraps origin with an entry cache.
func NewCached(origin Collection, regime Regime) *Cached {
	return &Cached{
		origin:  origin,
		regime:  regime,
		entries: gcache.New(0).Simple().Build(),
	}
}

// Regime returns the invalidation regime of the cache.
func (c *Cached) Regime() Regime {
	return c.regime
}

// Add adds an entry to the origin, see Regime for how the cache reacts.
func (c *Cached) Add(id string) (Entry, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.regime == ClearOnAdd {
		c.purge()
		return c.origin.Add(id)
	}

	if err := c.fill(); err != nil {
		return nil, err
	}
	if cached, err := c.entries.Get(id); err == nil {
		return cached.(*cachedEntry), nil
	}

	e, err := c.origin.Add(id)
	if err != nil {
		return nil, err
	}
	cached, err := c.capture(e)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// Select returns the cached entries accepted by filter, loading them from
// the origin if the cache is empty.
func (c *Cached) Select(filter func(Entry) bool) ([]Entry, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.fill(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		cached, err := c.entries.Get(id)
		if err != nil {
			return nil, fmt.Errorf("cache lost %s=%q: %w", record.IDKey, id, err)
		}
		e := cached.(*cachedEntry)
		if filter == nil || filter(e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Close drops the cache and closes the origin.
func (c *Cached) Close() error {
	c.lock.Lock()
	c.purge()
	c.lock.Unlock()
	return c.origin.Close()
}

func (c *Cached) purge() {
	c.entries.Purge()
	c.order = nil
}

func (c *Cached) fill() error {
	if len(c.order) > 0 {
		return nil
	}
	entries, err := c.origin.Select(All)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := c.capture(e); err != nil {
			c.purge()
			return err
		}
	}
	return nil
}

func (c *Cached) capture(e Entry) (*cachedEntry, error) {
	attrs, err := e.ToMap()
	if err != nil {
		return nil, err
	}
	cached := &cachedEntry{origin: e, attrs: attrs}
	if err := c.entries.Set(e.ID(), cached); err != nil {
		return nil, err
	}
	c.order = append(c.order, e.ID())
	return cached, nil
}

type cachedEntry struct {
	origin Entry
	lock   sync.Mutex
	attrs  map[string]string
}

func (e *cachedEntry) ID() string {
	return e.origin.ID()
}

func (e *cachedEntry) Exists(key string) (bool, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	_, ok := e.attrs[key]
	return ok, nil
}

func (e *cachedEntry) Get(key string) (string, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	value, ok := e.attrs[key]
	if !ok {
		return "", fmt.Errorf("%w: %s=%q has no attribute %q among %d", ErrNotFound, record.IDKey, e.ID(), key, len(e.attrs))
	}
	return value, nil
}

func (e *cachedEntry) Set(key, value string) error {
	if key == record.IDKey {
		return fmt.Errorf("%w: can not change %s of %q", ErrInvalidArgument, record.IDKey, e.ID())
	}

	e.lock.Lock()
	defer e.lock.Unlock()
	if err := e.origin.Set(key, value); err != nil {
		return err
	}
	e.attrs[key] = value
	return nil
}

func (e *cachedEntry) ToMap() (map[string]string, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return maps.Clone(e.attrs), nil
}
