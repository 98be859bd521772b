package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileEntry struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Value     json.RawMessage `json:"value"`
}

// FileCache keeps every key in one flat JSON file. Values must be JSON
// documents; writes replace the file atomically via rename.
type FileCache struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path, now: time.Now}
}

func (c *FileCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return nil, false, err
	}
	e, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.ExpiresAt.IsZero() && c.now().After(e.ExpiresAt) {
		return nil, false, nil
	}
	return []byte(e.Value), true, nil
}

func (c *FileCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	if !json.Valid(value) {
		return fmt.Errorf("file cache: value for %q is not valid json", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		// a corrupt file is replaced rather than blocking writes forever
		entries = map[string]fileEntry{}
	}

	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	entries[key] = fileEntry{ExpiresAt: exp, Value: json.RawMessage(value)}

	// drop expired keys while rewriting
	now := c.now()
	for k, e := range entries {
		if !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt) {
			delete(entries, k)
		}
	}
	return c.write(entries)
}

func (c *FileCache) read() (map[string]fileEntry, error) {
	b, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]fileEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	entries := map[string]fileEntry{}
	if len(b) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}
	return entries, nil
}

func (c *FileCache) write(entries map[string]fileEntry) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache file: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
