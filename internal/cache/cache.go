// Package cache provides the in-memory, TTL-based analysis result store.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/jonesrussell/siteinsight/internal/domain"
)

// entry pairs a stored result with its creation time.
type entry struct {
	result    *domain.AnalysisResult
	createdAt time.Time
}

// Cache maps normalized URLs to previously computed analysis results.
// Entries logically expire after the TTL; expired entries are treated as
// absent on read and overwritten on the next successful put (lazy expiry,
// no background sweeper). Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache with the given TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewWithClock creates a cache with an injected clock. Used in tests.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// Key normalizes a raw input URL into a cache key. The policy is
// lowercasing the verbatim input: URLs differing by scheme or trailing
// slash stay distinct keys (see DESIGN.md).
func Key(rawURL string) string {
	return strings.ToLower(strings.TrimSpace(rawURL))
}

// Get returns the stored result for key, or false when no entry exists or
// the stored entry has outlived the TTL.
func (c *Cache) Get(key string) (*domain.AnalysisResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(e.createdAt) >= c.ttl {
		return nil, false
	}

	return e.result, true
}

// Put stores the result under key, replacing any previous entry.
func (c *Cache) Put(key string, result *domain.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		result:    result,
		createdAt: c.now(),
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
