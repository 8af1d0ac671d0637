// Package cache memoizes dataset loads per file.
//
// An entry stays valid while the file's modification time and size are
// unchanged. Entries are dropped only by Invalidate, Clear or process exit.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// LoadFunc reads the dataset stored at path.
type LoadFunc func(ctx context.Context, path string) (*dataset.Dataset, error)

type signature struct {
	modTime time.Time
	size    int64
}

type entry struct {
	sig signature
	ds  *dataset.Dataset
}

// Cache is a process-wide memo of loaded datasets keyed by absolute path.
// It is safe for concurrent use.
type Cache struct {
	load   LoadFunc
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache that calls load on a miss.
func New(load LoadFunc, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		load:    load,
		logger:  logger,
		entries: make(map[string]entry),
	}
}

// Get returns the dataset for path, loading it when there is no entry or the
// file changed since it was cached. Concurrent misses for one path share a
// single load. Failed loads are not cached.
func (c *Cache) Get(ctx context.Context, path string) (*dataset.Dataset, error) {
	key, err := Key(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(key)
	if err != nil {
		c.Invalidate(key)
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	sig := signature{modTime: info.ModTime(), size: info.Size()}

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if ok && e.sig == sig {
		c.hits.Add(1)
		return e.ds, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.misses.Add(1)
		c.logger.Debug("dataset cache miss", "path", key)

		ds, err := c.load(ctx, key)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = entry{sig: sig, ds: ds}
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dataset.Dataset), nil
}

// Invalidate drops the entry for path, if any.
func (c *Cache) Invalidate(path string) {
	key, err := Key(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	_, had := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if had {
		c.logger.Debug("dataset cache entry invalidated", "path", key)
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	c.logger.Debug("dataset cache cleared")
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats reports hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Key returns the cache key for path.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}
