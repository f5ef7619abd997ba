package storage

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// A Factory creates a new store of it's type.
type Factory func(location string) (Interface, error)

var (
	storages     = make(map[string]Factory)
	storagesLock sync.Mutex
)

// Register registers a new storage type.
func Register(name string, factory Factory) error {
	storagesLock.Lock()
	defer storagesLock.Unlock()

	_, ok := storages[name]
	if ok {
		return fmt.Errorf("factory for storage type %q already exists", name)
	}

	storages[name] = factory
	return nil
}

// Start starts a new store of the given storageType at location.
func Start(storageType, location string) (Interface, error) {
	storagesLock.Lock()
	factory, ok := storages[storageType]
	storagesLock.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, storageType)
	}

	return factory(location)
}

// Types returns the names of all registered storage types, sorted.
func Types() []string {
	storagesLock.Lock()
	defer storagesLock.Unlock()

	names := make([]string, 0, len(storages))
	for name := range storages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func typeName(s Interface) string {
	t := reflect.TypeOf(s)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}
