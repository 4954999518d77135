// Package cache persists file content digests between runs.
//
// Entries are keyed by file identity (device, inode, size, mtime), so
// a cache hit means the same on-disk file, unmodified. One cache file
// exists per algorithm, as zstd-compressed JSON. The cache is a pure
// performance layer: load failures reset it and save failures never
// fail the computation. On platforms without stat identity support
// every operation is a no-op.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Cache maps file identities to content digests for one algorithm.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]string
	dirty   bool
}

// Open loads the digest cache for algorithm from dir. A missing or
// unreadable cache file yields an empty cache; the error, when
// non-nil, is advisory and the returned cache is always usable.
func Open(dir, algorithm string) (*Cache, error) {
	c := &Cache{
		path:    filepath.Join(dir, algorithm+".json.zst"),
		entries: make(map[string]string),
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(raw, &c.entries); err != nil {
		c.entries = make(map[string]string)
		return c, err
	}
	return c, nil
}

// Lookup returns the cached digest for the file at path, if its
// current identity matches a recorded entry.
func (c *Cache) Lookup(path string) (string, bool) {
	key, ok := identity(path)
	if !ok {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	digest, ok := c.entries[key]
	return digest, ok
}

// Store records the digest for the file at path under its current
// identity.
func (c *Cache) Store(path, digest string) {
	key, ok := identity(path)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = digest
	c.dirty = true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache back to disk when it changed.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	raw, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(c.path, zstdEncoder.EncodeAll(raw, nil), 0644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
