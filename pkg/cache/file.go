package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cardpath/cardpath/pkg/errors"
)

// FileCache stores entries as JSON files under a root directory. Keys are
// hashed and distributed into two-character subdirectories to keep any
// single directory small.
type FileCache struct {
	root string
}

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// NewFileCache creates a file-backed cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cache directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating cache directory")
	}
	return &FileCache{root: dir}, nil
}

// Get implements [Cache]. Expired entries are removed on read.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrCodeStore, err, "reading cache entry")
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt entry, treat as a miss and drop it.
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set implements [Cache].
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding cache entry")
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "creating cache subdirectory")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing cache entry")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "committing cache entry")
	}
	return nil
}

// Delete implements [Cache].
func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting cache entry")
	}
	return nil
}

// Close implements [Cache]. File caches hold no open resources.
func (c *FileCache) Close() error { return nil }

// Clear removes every entry under the cache root.
func (c *FileCache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeStore, err, "listing cache directory")
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "clearing cache directory")
		}
	}
	return nil
}

// Root returns the cache directory.
func (c *FileCache) Root() string { return c.root }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.root, h[:2], h[2:]+".json")
}
