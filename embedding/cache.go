// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embedding

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxEntries is the cache capacity used when none is configured.
const DefaultMaxEntries = 4096

// nextVersion numbers cache entries process-wide in insertion order.
var nextVersion atomic.Uint64

// FetchFunc produces the vector for a cache miss.
type FetchFunc func(ctx context.Context) ([]float32, error)

// CacheEntry is a stored embedding. Entries are never mutated after insertion.
type CacheEntry struct {
	Vector  []float32
	Version uint64
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Fetches   uint64
	Coalesced uint64
	Evictions uint64
}

// store is the subset of the golang-lru caches the Cache relies on.
type store interface {
	Add(key string, value CacheEntry) bool
	Get(key string) (CacheEntry, bool)
	Len() int
	Purge()
}

type cacheConfig struct {
	maxEntries int
	ttl        time.Duration
	logger     *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig) error

// WithMaxEntries bounds the number of cached vectors.
func WithMaxEntries(n int) CacheOption {
	return func(c *cacheConfig) error {
		if n <= 0 {
			return ErrInvalidMaxEntries
		}
		c.maxEntries = n
		return nil
	}
}

// WithTTL expires entries after ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *cacheConfig) error {
		if ttl < 0 {
			return ErrInvalidTTL
		}
		c.ttl = ttl
		return nil
	}
}

// WithCacheLogger sets the logger. A nil logger selects slog.Default().
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *cacheConfig) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// Cache maps exact text to its embedding vector and guarantees at most one
// in-flight fetch per text. It is safe for concurrent use.
type Cache struct {
	store  store
	group  singleflight.Group
	logger *slog.Logger

	hits      atomic.Uint64
	misses    atomic.Uint64
	flights   atomic.Uint64
	fetches   atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates an LRU-bounded cache, optionally with TTL expiry.
func NewCache(opts ...CacheOption) (*Cache, error) {
	cfg := &cacheConfig{
		maxEntries: DefaultMaxEntries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	c := &Cache{logger: cfg.logger.With("component", "embedding-cache")}
	onEvict := func(key string, entry CacheEntry) {
		c.logger.Debug("cache entry removed", "version", entry.Version, "length", len(key))
	}

	if cfg.ttl > 0 {
		c.store = expirable.NewLRU[string, CacheEntry](cfg.maxEntries, onEvict, cfg.ttl)
	} else {
		l, err := lru.NewWithEvict[string, CacheEntry](cfg.maxEntries, onEvict)
		if err != nil {
			return nil, err
		}
		c.store = l
	}
	return c, nil
}

// GetOrFetch returns the cached vector for text, calling fetch on a miss.
//
// Concurrent callers for the same text share one fetch. The fetch runs on a
// context detached from the caller's cancellation, so a caller whose ctx ends
// stops waiting and gets ctx.Err() while the fetch completes and populates the
// cache for everyone else. Failed fetches are not cached. The returned slice
// is the caller's to keep.
func (c *Cache) GetOrFetch(ctx context.Context, text string, fetch FetchFunc) ([]float32, error) {
	if entry, ok := c.store.Get(text); ok {
		c.hits.Add(1)
		return slices.Clone(entry.Vector), nil
	}
	c.misses.Add(1)

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(text, func() (any, error) {
		c.flights.Add(1)
		// A flight that finished just before this one started may have filled the slot.
		if entry, ok := c.store.Get(text); ok {
			return entry, nil
		}

		c.fetches.Add(1)
		vector, err := fetch(detached)
		if err != nil {
			return nil, err
		}

		entry := CacheEntry{
			Vector:  slices.Clone(vector),
			Version: nextVersion.Add(1),
		}
		if c.store.Add(text, entry) {
			c.evictions.Add(1)
		}
		return entry, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.(CacheEntry).Vector), nil
	}
}

// Get returns a copy of the cached vector for text without fetching.
func (c *Cache) Get(text string) ([]float32, bool) {
	entry, ok := c.store.Get(text)
	if !ok {
		return nil, false
	}
	return slices.Clone(entry.Vector), true
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	return c.store.Len()
}

// Purge drops every cached vector. In-flight fetches are unaffected.
func (c *Cache) Purge() {
	c.store.Purge()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	misses := c.misses.Load()
	flights := c.flights.Load()
	var coalesced uint64
	if misses > flights {
		coalesced = misses - flights
	}
	return CacheStats{
		Entries:   c.store.Len(),
		Hits:      c.hits.Load(),
		Misses:    misses,
		Fetches:   c.fetches.Load(),
		Coalesced: coalesced,
		Evictions: c.evictions.Load(),
	}
}
