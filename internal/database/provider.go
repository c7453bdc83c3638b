package database

import (
	"fmt"
	"sort"
	"sync"
)

var (
	storesMu sync.RWMutex
	stores   = map[string]func() PreferenceStore{}
)

// RegisterPreferenceStore registers a preference store constructor under a
// backend name. Backend packages call this once they are initialized so that
// callers can pick a store without importing the backend.
func RegisterPreferenceStore(name string, constructor func() PreferenceStore) {
	storesMu.Lock()
	defer storesMu.Unlock()
	stores[name] = constructor
}

// GetPreferenceStore returns the store registered under name.
func GetPreferenceStore(name string) (PreferenceStore, error) {
	storesMu.RLock()
	constructor, ok := stores[name]
	storesMu.RUnlock()
	if !ok || constructor == nil {
		return nil, fmt.Errorf("%w: backend %q is not initialized", ErrStoreNotConfigured, name)
	}
	return constructor(), nil
}

// RegisteredBackends returns the registered backend names, sorted.
func RegisteredBackends() []string {
	storesMu.RLock()
	defer storesMu.RUnlock()
	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResetForTesting clears all registered stores. Only for tests.
func ResetForTesting() {
	storesMu.Lock()
	defer storesMu.Unlock()
	stores = map[string]func() PreferenceStore{}
}
