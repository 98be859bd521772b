package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[int]()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Minute)
	c.Set("forever", 2, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	v, ok = c.Get("forever")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestFileCacheRoundTripAndExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	c := NewFileCache(path)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetBytes("universe-quotes", []byte(`{"AAPL":{"price":1}}`), 10*time.Minute))

	b, ok, err := c.GetBytes("universe-quotes")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"AAPL":{"price":1}}`, string(b))

	// survives a new instance over the same file
	c2 := NewFileCache(path)
	c2.now = c.now
	_, ok, err = c2.GetBytes("universe-quotes")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok, err = c.GetBytes("universe-quotes")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheMissingFileIsMiss(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "none.json"))
	_, ok, err := c.GetBytes("x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheRejectsNonJSON(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "c.json"))
	assert.Error(t, c.SetBytes("x", []byte("not json"), 0))
}

func TestFileCacheOverwritesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o644))
	c := NewFileCache(path)

	_, _, err := c.GetBytes("x")
	assert.Error(t, err)

	require.NoError(t, c.SetBytes("x", []byte(`1`), 0))
	b, ok, err := c.GetBytes("x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", string(b))
}
