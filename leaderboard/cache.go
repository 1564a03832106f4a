package leaderboard

import (
	"context"
	"sync"
	"time"

	"github.com/Madmax-op/FoodShare/models"
)

// Cache holds loaded periods per scope.
type Cache interface {
	Get(ctx context.Context, scope string, period models.Period) (Snapshot, bool, error)
	Put(ctx context.Context, scope string, period models.Period, snap Snapshot) error
}

func cacheKey(scope string, period models.Period) string {
	return "leaderboard:" + scope + ":" + string(period)
}

type memoryEntry struct {
	snap    Snapshot
	expires time.Time
}

// MemoryCache is a process-local Cache. Entries expire after ttl so that
// abandoned sessions do not accumulate; PurgeExpired drops them.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an in-process Cache. Entries expire ttl after they
// are stored; a zero ttl keeps them for the life of the process.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Len reports the number of stored snapshots, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get returns the snapshot stored for scope and period, if it has not expired.
func (c *MemoryCache) Get(_ context.Context, scope string, period models.Period) (Snapshot, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[cacheKey(scope, period)]
	c.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && !c.now().Before(e.expires)) {
		return Snapshot{}, false, nil
	}
	return e.snap, true, nil
}

// Put stores snap, replacing any earlier snapshot for the same key.
func (c *MemoryCache) Put(_ context.Context, scope string, period models.Period, snap Snapshot) error {
	e := memoryEntry{snap: snap}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[cacheKey(scope, period)] = e
	c.mu.Unlock()
	return nil
}

// PurgeExpired drops entries that expired before now and reports how many.
func (c *MemoryCache) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	purged := 0
	for k, e := range c.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(c.entries, k)
			purged++
		}
	}
	return purged, nil
}
