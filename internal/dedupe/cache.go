// ABOUTME: TTL cache remembering recently handled event IDs.
// ABOUTME: Expiry and size-capped eviction happen inline on access; no background goroutine.

package dedupe

import (
	"sync"
	"time"
)

// stamp pairs an ID with the time it was marked. The order slice may hold
// stale stamps for IDs that were re-marked later; a stamp is current only if
// its time matches the map entry.
type stamp struct {
	id string
	at time.Time
}

// Cache is a thread-safe, TTL-based, size-limited set of event IDs.
type Cache struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	order   []stamp // oldest first
	ttl     time.Duration
	maxSize int
}

// New creates a cache that forgets IDs after ttl and never tracks more than
// maxSize of them.
func New(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		seen:    make(map[string]time.Time),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Seen reports whether the ID was already marked within the TTL window,
// marking it as seen otherwise. The check and the mark are one atomic step.
func (c *Cache) Seen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if at, ok := c.seen[id]; ok && now.Sub(at) < c.ttl {
		return true
	}

	c.seen[id] = now
	c.order = append(c.order, stamp{id: id, at: now})
	c.compact(now)
	return false
}

// Len returns the number of tracked IDs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// compact drops expired and stale entries from the front of the order slice,
// then force-evicts the oldest current entries until the cache fits maxSize.
// Must be called with mu held.
func (c *Cache) compact(now time.Time) {
	i := 0
	for ; i < len(c.order); i++ {
		s := c.order[i]
		at, ok := c.seen[s.id]
		if !ok || !at.Equal(s.at) {
			continue // stale stamp, the ID was re-marked or already evicted
		}
		if now.Sub(at) >= c.ttl {
			delete(c.seen, s.id)
			continue
		}
		if len(c.seen) > c.maxSize {
			delete(c.seen, s.id)
			continue
		}
		break
	}
	c.order = c.order[i:]
}
