// Package cache holds the engine's two in-memory caches: conflict reports
// keyed by case fingerprint, and lawyer display names keyed by lawyer id.
// Both are process-internal state with TTL semantics; construct one Service
// at startup and pass it by handle, never through package globals.
package cache

import (
	"sync"
	"time"

	"github.com/Ramsey-B/laurel/pkg/models"
)

// Clock returns the current time. Injected so tests can simulate TTL
// expiry without sleeping.
type Clock func() time.Time

type reportEntry struct {
	report     models.ConflictReport
	insertedAt time.Time
}

// ReportCache stores conflict reports by fingerprint with TTL and a bounded
// size. When the entry count exceeds the ceiling, the oldest 10% by
// insertion time are evicted. Insertion order, not access recency, drives
// eviction; strict LRU buys nothing at this cache's scale.
type ReportCache struct {
	mu      sync.RWMutex
	entries map[string]reportEntry
	order   []string

	ttl     time.Duration
	maxSize int
	clock   Clock
}

// NewReportCache creates a report cache with the given TTL and size ceiling.
func NewReportCache(ttl time.Duration, maxSize int, clock Clock) *ReportCache {
	if clock == nil {
		clock = time.Now
	}
	return &ReportCache{
		entries: make(map[string]reportEntry),
		ttl:     ttl,
		maxSize: maxSize,
		clock:   clock,
	}
}

// Get returns the cached report for the fingerprint if present and fresh.
func (c *ReportCache) Get(fingerprint string) (models.ConflictReport, bool) {
	c.mu.RLock()
	entry, ok := c.entries[fingerprint]
	c.mu.RUnlock()

	if !ok {
		return models.ConflictReport{}, false
	}
	if c.clock().Sub(entry.insertedAt) > c.ttl {
		c.mu.Lock()
		c.deleteLocked(fingerprint)
		c.mu.Unlock()
		return models.ConflictReport{}, false
	}
	return entry.report, true
}

// Put stores a report, evicting the oldest tranche when over capacity.
func (c *ReportCache) Put(fingerprint string, report models.ConflictReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fingerprint]; exists {
		c.removeFromOrderLocked(fingerprint)
	}
	c.entries[fingerprint] = reportEntry{report: report, insertedAt: c.clock()}
	c.order = append(c.order, fingerprint)

	if len(c.entries) > c.maxSize {
		evictCount := len(c.entries) / 10
		if evictCount < 1 {
			evictCount = 1
		}
		for i := 0; i < evictCount && len(c.order) > 0; i++ {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
}

// Clear drops every entry. Used when upstream case data changes and cached
// reports can no longer be trusted.
func (c *ReportCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]reportEntry)
	c.order = nil
}

// Len returns the current entry count.
func (c *ReportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ReportCache) deleteLocked(fingerprint string) {
	if _, ok := c.entries[fingerprint]; !ok {
		return
	}
	delete(c.entries, fingerprint)
	c.removeFromOrderLocked(fingerprint)
}

func (c *ReportCache) removeFromOrderLocked(fingerprint string) {
	for i, f := range c.order {
		if f == fingerprint {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

type nameEntry struct {
	name       string
	insertedAt time.Time
}

// LookupCache stores lawyer display names by id. Stale entries are removed
// by a periodic sweep rather than lazily on read.
type LookupCache struct {
	mu      sync.RWMutex
	entries map[int64]nameEntry

	ttl   time.Duration
	clock Clock

	sweeping sync.Mutex
}

// NewLookupCache creates a lookup cache with the given TTL.
func NewLookupCache(ttl time.Duration, clock Clock) *LookupCache {
	if clock == nil {
		clock = time.Now
	}
	return &LookupCache{
		entries: make(map[int64]nameEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the cached display name for the lawyer id. Freshness is the
// sweep's responsibility; Get serves whatever is resident.
func (c *LookupCache) Get(id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	return entry.name, ok
}

// Put stores a display name.
func (c *LookupCache) Put(id int64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = nameEntry{name: name, insertedAt: c.clock()}
}

// Sweep removes every entry older than TTL and returns the number removed.
// If a sweep is already running the call returns immediately; cycles skip
// rather than queue.
func (c *LookupCache) Sweep() int {
	if !c.sweeping.TryLock() {
		return 0
	}
	defer c.sweeping.Unlock()

	cutoff := c.clock().Add(-c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, entry := range c.entries {
		if entry.insertedAt.Before(cutoff) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the current entry count.
func (c *LookupCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
