// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sync"
)

// MockPreferenceStore is an in-memory implementation of database.PreferenceStore
type MockPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string

	// Error injection
	LoadError  error
	SaveError  error
	ResetError error

	// Call counters
	SaveCalls  int
	ResetCalls int
}

// NewMockPreferenceStore creates a new mock preference store
func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{values: make(map[string]string)}
}

// Set stores a raw value without going through Save
func (m *MockPreferenceStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Value returns a raw stored value
func (m *MockPreferenceStore) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Name returns the backend name
func (m *MockPreferenceStore) Name() string {
	return "mock"
}

// Load returns a copy of the stored values
func (m *MockPreferenceStore) Load(ctx context.Context) (map[string]string, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// Save merges values into the store
func (m *MockPreferenceStore) Save(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

// Reset removes all values
func (m *MockPreferenceStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls++
	if m.ResetError != nil {
		return m.ResetError
	}
	m.values = make(map[string]string)
	return nil
}
