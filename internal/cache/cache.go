package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shekhar-gif/weather-dashboard/internal/metrics"
	"github.com/shekhar-gif/weather-dashboard/internal/models"
)

const (
	// DefaultTTL is the validity window for a cached result.
	DefaultTTL = 600 * time.Second

	// DefaultMaxEntries bounds the cache; the oldest-fetched entry is
	// evicted when a new city would exceed it.
	DefaultMaxEntries = 1024
)

// Fetcher retrieves a fresh snapshot for a city on cache miss.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (*models.Snapshot, error)
}

type entry struct {
	snapshot  *models.Snapshot
	err       error
	fetchedAt time.Time
}

// Cache maps lower-cased city names to the result of their most recent
// fetch. Results are replaced wholesale, never partially updated, and
// errors are cached exactly like successes so a failing upstream is not
// hammered for the length of the TTL.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	fetcher    Fetcher
	now        func() time.Time
}

func New(fetcher Fetcher, ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		fetcher:    fetcher,
		now:        time.Now,
	}
}

func normalizeKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// GetOrFetch returns the cached result for city while it is fresh and
// fetches a new one otherwise. The lock is not held across the fetch;
// concurrent misses for the same key may both fetch and the last write
// wins, which is acceptable staleness here.
func (c *Cache) GetOrFetch(ctx context.Context, city string) (*models.Snapshot, error) {
	key := normalizeKey(city)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		metrics.CacheHits.Inc()
		return e.snapshot, e.err
	}
	c.mu.Unlock()
	metrics.CacheMisses.Inc()

	snap, err := c.fetcher.Fetch(ctx, city)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{snapshot: snap, err: err, fetchedAt: c.now()}
	return snap, err
}

// Len reports the number of cached cities, expired entries included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.fetchedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.fetchedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		metrics.CacheEvictions.Inc()
	}
}
