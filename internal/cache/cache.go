// Package cache stores search results between lookups.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	RedisAddr string
	RedisDB   int
}

// New builds a cache for the configured backend.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "memory":
		return NewMemoryCache(), nil
	case "none":
		return Noop{}, nil
	case "redis":
		return NewRedisCache(ctx, opts.RedisAddr, opts.RedisDB)
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", opts.Backend)
	}
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache keeps entries in process memory.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: map[string]memoryEntry{}, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores value; a non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.data[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }

func (Noop) Close() error { return nil }
