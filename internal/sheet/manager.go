package sheet

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kozaktomas/photo-grid/internal/layout"
)

// Manager keeps sheets in memory. Sheets handed out are clones; changes go
// through Update, which runs under the manager lock.
type Manager struct {
	sheets map[string]*Sheet
	mu     sync.RWMutex
}

// NewManager creates an empty sheet manager.
func NewManager() *Manager {
	return &Manager{
		sheets: make(map[string]*Sheet),
	}
}

// Create computes a new sheet and stores it.
func (m *Manager) Create(title string, cfg layout.LayoutConfig, allowWhitespace, showCropMarks bool) (*Sheet, error) {
	s, err := New(title, cfg, allowWhitespace, showCropMarks)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sheets[s.ID] = s
	m.mu.Unlock()

	return s.Clone(), nil
}

// Get retrieves a sheet by ID.
func (m *Manager) Get(id string) (*Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sheets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Clone(), nil
}

// List returns all sheets, oldest first.
func (m *Manager) List() []*Sheet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sheets := make([]*Sheet, 0, len(m.sheets))
	for _, s := range m.sheets {
		sheets = append(sheets, s.Clone())
	}
	sort.Slice(sheets, func(i, j int) bool {
		if sheets[i].CreatedAt.Equal(sheets[j].CreatedAt) {
			return sheets[i].ID < sheets[j].ID
		}
		return sheets[i].CreatedAt.Before(sheets[j].CreatedAt)
	})
	return sheets
}

// Delete removes a sheet. It reports whether the sheet existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[id]; !ok {
		return false
	}
	delete(m.sheets, id)
	return true
}

// Update applies fn to the stored sheet and returns a clone of the result.
// If fn fails the stored sheet is left as it was.
func (m *Manager) Update(id string, fn func(*Sheet) error) (*Sheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	working := s.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	m.sheets[id] = working
	return working.Clone(), nil
}
