// Package watchlist keeps the set of scheme codes included in digests.
package watchlist

import (
	"sort"
	"sync"
)

// Manager guards the watchlist and persists every change.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager loads the watchlist from disk. When no file exists yet the
// list is seeded with initial.
func NewManager(filePath string, initial []int) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if state.UpdatedAt.IsZero() && len(state.Codes) == 0 {
		state.Codes = normalize(initial)
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the watched codes in ascending order.
func (m *Manager) List() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.state.Codes))
	copy(out, m.state.Codes)
	return out
}

// Add watches code. It reports false if code was already watched.
func (m *Manager) Add(code int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.state.Codes {
		if c == code {
			return false, nil
		}
	}
	m.state.Codes = normalize(append(m.state.Codes, code))
	return true, m.save()
}

// Remove stops watching code. It reports false if code was not watched.
func (m *Manager) Remove(code int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.state.Codes {
		if c == code {
			m.state.Codes = append(m.state.Codes[:i], m.state.Codes[i+1:]...)
			return true, m.save()
		}
	}
	return false, nil
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}

func normalize(codes []int) []int {
	seen := make(map[int]bool, len(codes))
	out := make([]int, 0, len(codes))
	for _, c := range codes {
		if c > 0 && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}
