package watchlist

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SeedsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "watchlist.json")

	m, err := NewManager(path, []int{120503, 119551, 119551, -1})
	require.NoError(t, err)
	assert.Equal(t, []int{119551, 120503}, m.List())

	added, err := m.Add(100027)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = m.Add(100027)
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := m.Remove(120503)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.Remove(1)
	require.NoError(t, err)
	assert.False(t, removed)

	// Reload ignores the seed once a file exists.
	reloaded, err := NewManager(path, []int{42})
	require.NoError(t, err)
	assert.Equal(t, []int{100027, 119551}, reloaded.List())
}

func TestManager_EmptiedListStaysEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	m, err := NewManager(path, []int{7})
	require.NoError(t, err)
	_, err = m.Remove(7)
	require.NoError(t, err)

	reloaded, err := NewManager(path, []int{7})
	require.NoError(t, err)
	assert.Empty(t, reloaded.List())
}

func TestManager_ConcurrentAdds(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "w.json"), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(code int) {
			defer wg.Done()
			_, _ = m.Add(code)
		}(i)
	}
	wg.Wait()
	assert.Len(t, m.List(), 20)
}
