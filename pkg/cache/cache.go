// Package cache provides the artifact cache used by the preview server.
//
// Assembling a sheet is cheap; encoding it to PNG and re-reading frame files
// on every browser request is not. The cache stores encoded artifacts keyed
// by a content hash of their inputs, so identical inputs always hit.
//
// Backends: FileCache (XDG cache dir, CLI default), RedisCache (shared,
// server deployments), NullCache (disabled).
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached artifacts stay valid.
// Keys are content-addressed, so entries never go stale; the TTL only bounds
// disk/memory growth.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SheetKey builds the cache key for an assembled sheet from the content
// hashes of its frames. Frame order matters: the same frames in a different
// order are a different sheet.
func SheetKey(frameHashes []string) string {
	return hashKey("sheet", frameHashes)
}

// ArtifactKey builds the cache key for a derived artifact (gif, contact
// sheet, thumbnail) of the sheet identified by sheetKey.
func ArtifactKey(sheetKey, kind string) string {
	return hashKey("artifact", sheetKey, kind)
}

// Scoped wraps a cache so all keys carry a namespace prefix.
// The preview server uses this to keep its entries apart from CLI runs.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a namespaced view of inner.
func NewScoped(inner Cache, prefix string) Cache {
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a value under the namespaced key.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a value under the namespaced key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes the namespaced key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the underlying cache.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

// Ensure Scoped implements Cache.
var _ Cache = (*Scoped)(nil)
