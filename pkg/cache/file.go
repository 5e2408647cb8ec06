package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores artifacts on disk, the CLI default backend.
//
// Payloads are PNG and GIF bytes, so they are written verbatim rather than
// wrapped in an envelope; expiry lives in a small sidecar file next to each
// payload. Keys are sharded into subdirectories by hash prefix to keep any
// single directory small.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// meta is the sidecar record stored next to each payload.
type meta struct {
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Get returns the payload for key, treating expired or damaged entries as
// misses and removing them.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path + ".meta")
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var m meta
	if err := json.Unmarshal(raw, &m); err != nil {
		c.drop(path)
		return nil, false, nil
	}
	if !m.ExpiresAt.IsZero() && time.Now().After(m.ExpiresAt) {
		c.drop(path)
		return nil, false, nil
	}

	data, err := os.ReadFile(path + ".bin")
	if err != nil {
		c.drop(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the payload and its sidecar. The payload is written first so a
// crash between the two writes leaves a miss, never a live entry without data.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var m meta
	if ttl > 0 {
		m.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path+".bin", data, 0644); err != nil {
		return err
	}
	return os.WriteFile(path+".meta", raw, 0644)
}

// Delete removes the entry for key. Missing entries are not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	c.drop(c.path(key))
	return nil
}

// Close is a no-op; every operation opens and closes its own files.
func (c *FileCache) Close() error {
	return nil
}

// drop removes both halves of an entry, ignoring errors.
func (c *FileCache) drop(path string) {
	_ = os.Remove(path + ".meta")
	_ = os.Remove(path + ".bin")
}

// path maps a key to its payload path (without extension), sharded by the
// first two hash characters.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:])
}

var _ Cache = (*FileCache)(nil)
