package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"github.com/yegor256/tojos/database"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/database/storage/locked"
	"github.com/yegor256/tojos/database/storage/sticky"
)

// Options describe the store and decorators of one collection. Empty
// values disable the decorator.
type Options struct {
	// Storage is the registered storage type, eg. "csv", "file" or "bbolt".
	Storage string `json:"storage"`
	// Location is passed to the storage factory.
	Location string `json:"location"`

	// Metered labels the store metrics.
	Metered string `json:"metered,omitempty"`
	// Postpone is the flush interval of a deferred writer, eg. "100ms".
	Postpone string `json:"postpone,omitempty"`
	// Sticky is "strict" or "merge".
	Sticky string `json:"sticky,omitempty"`
	// Lock is "exclusive" or "shared".
	Lock string `json:"lock,omitempty"`

	// Cache is "clear-on-add" or "survive-add".
	Cache string `json:"cache,omitempty"`
	// Synchronized puts one lock around the collection and its entries.
	Synchronized bool `json:"synchronized,omitempty"`
}

// Validate checks the options of the named collection.
func (o *Options) Validate(name string) error {
	if o.Storage == "" {
		return newInvalidOptionError(name, "storage", errors.New("missing"))
	}
	if !slices.Contains(storage.Types(), o.Storage) {
		return newInvalidOptionError(name, "storage", fmt.Errorf("%w %q", ErrUnknownStorage, o.Storage))
	}
	if _, err := o.interval(); err != nil {
		return newInvalidOptionError(name, "postpone", err)
	}
	if o.Sticky != "" {
		if _, err := sticky.ParseMode(o.Sticky); err != nil {
			return newInvalidOptionError(name, "sticky", err)
		}
	}
	if o.Lock != "" {
		if _, err := locked.ParseMode(o.Lock); err != nil {
			return newInvalidOptionError(name, "lock", err)
		}
	}
	if o.Cache != "" {
		if _, err := database.ParseRegime(o.Cache); err != nil {
			return newInvalidOptionError(name, "cache", err)
		}
	}
	return nil
}

func (o *Options) interval() (time.Duration, error) {
	if o.Postpone == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(o.Postpone)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidData, d)
	}
	return d, nil
}
