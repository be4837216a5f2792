package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"
	"github.com/jakubrachwalski/SocialNetwork/pkg/observability"

	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long a cached profile is served without a refetch.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries is the soft size bound. Reaching it triggers a TTL
	// sweep before the next insert; it is not a hard cap, so a burst of
	// distinct fresh keys can temporarily exceed it.
	DefaultMaxEntries = 1000
)

type cacheEntry struct {
	profile  *profile.Profile
	cachedAt time.Time
}

// ProfileCache is a process-wide read-through TTL cache over the profile
// store. An entry older than the TTL is logically absent even while still
// present in the map, and is refetched before being served.
type ProfileCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	store      ports.ProfileRepository
	ttl        time.Duration
	maxEntries int
	metrics    *observability.Metrics
	logger     *zap.Logger

	// now is swappable for freshness tests
	now func() time.Time
}

var _ ports.ProfileCache = (*ProfileCache)(nil)

// NewProfileCache creates a profile cache with the default TTL and size bound.
func NewProfileCache(store ports.ProfileRepository, logger *zap.Logger) *ProfileCache {
	return NewProfileCacheWithBounds(store, DefaultTTL, DefaultMaxEntries, logger)
}

// NewProfileCacheWithBounds creates a profile cache with explicit bounds.
func NewProfileCacheWithBounds(store ports.ProfileRepository, ttl time.Duration, maxEntries int, logger *zap.Logger) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &ProfileCache{
		entries:    make(map[string]cacheEntry),
		store:      store,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
		now:        time.Now,
	}
}

// WithMetrics attaches hit/miss instrumentation. A nil Metrics is a no-op.
func (c *ProfileCache) WithMetrics(m *observability.Metrics) *ProfileCache {
	c.metrics = m
	return c
}

// Get returns the cached profile when the entry is younger than the TTL.
// Otherwise it falls through to a store point lookup, caches a found profile,
// and returns it. A profile missing from cache and store is (nil, nil).
func (c *ProfileCache) Get(ctx context.Context, id string) (*profile.Profile, error) {
	if p, ok := c.lookup(id); ok {
		c.metrics.RecordCacheAccess(ctx, true)
		return p, nil
	}
	c.metrics.RecordCacheAccess(ctx, false)

	p, err := c.store.FindByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	c.Set(ctx, id, p)
	return p, nil
}

// GetMany resolves ids against the cache, batch-fetching misses from the
// store in chunks of at most ports.MaxLookupBatch. Every fetched profile
// fills the cache. The result contains exactly the ids that resolved; ids
// with no backing profile are absent, not an error.
func (c *ProfileCache) GetMany(ctx context.Context, ids []string) (map[string]*profile.Profile, error) {
	resolved := make(map[string]*profile.Profile, len(ids))
	var missing []string

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if p, ok := c.lookup(id); ok {
			c.metrics.RecordCacheAccess(ctx, true)
			resolved[id] = p
		} else {
			c.metrics.RecordCacheAccess(ctx, false)
			missing = append(missing, id)
		}
	}

	for start := 0; start < len(missing); start += ports.MaxLookupBatch {
		end := start + ports.MaxLookupBatch
		if end > len(missing) {
			end = len(missing)
		}

		profiles, err := c.store.FindManyByIDs(ctx, missing[start:end])
		if err != nil {
			return nil, err
		}

		for _, p := range profiles {
			c.Set(ctx, p.ID(), p)
			resolved[p.ID()] = p
		}
	}

	return resolved, nil
}

// Set unconditionally inserts or refreshes the entry. When the map is at
// capacity it first sweeps every entry whose age has reached the TTL; the
// bound is therefore soft under sustained load with many fresh keys.
func (c *ProfileCache) Set(_ context.Context, id string, p *profile.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.sweepExpiredLocked()
	}

	c.entries[id] = cacheEntry{
		profile:  p,
		cachedAt: c.now(),
	}
}

// Invalidate removes the entry for id. Removing a missing key is a no-op.
func (c *ProfileCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
}

// Clear removes all entries. Called at sign-out so a shared process never
// serves one session's cached profiles to the next.
func (c *ProfileCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// Len reports the current entry count.
func (c *ProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// lookup returns the entry for id if it exists and is still fresh.
func (c *ProfileCache) lookup(id string) (*profile.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[id]
	if !exists {
		return nil, false
	}
	if c.now().Sub(entry.cachedAt) >= c.ttl {
		return nil, false
	}
	return entry.profile, true
}

// sweepExpiredLocked removes every entry whose age has reached the TTL.
// O(n), but it only runs under capacity pressure. Caller holds the lock.
func (c *ProfileCache) sweepExpiredLocked() {
	now := c.now()
	removed := 0
	for id, entry := range c.entries {
		if now.Sub(entry.cachedAt) >= c.ttl {
			delete(c.entries, id)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("Swept expired cache entries",
			zap.Int("removed", removed),
			zap.Int("remaining", len(c.entries)),
		)
	}
}
