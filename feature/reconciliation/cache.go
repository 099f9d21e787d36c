package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// contextCache holds loaded matching contexts per definition with a TTL.
// Singleflight collapses concurrent loads for the same definition.
type contextCache struct {
	mu       sync.RWMutex
	contexts map[uint64]*cachedContext
	sf       singleflight.Group
	ttl      time.Duration
	loader   *ContextLoader
}

type cachedContext struct {
	mc    *MatchingContext
	built time.Time
}

func (c *cachedContext) expired(ttl time.Duration) bool {
	if ttl == 0 {
		return true // No caching
	}
	return time.Since(c.built) > ttl
}

func newContextCache(loader *ContextLoader, ttl time.Duration) *contextCache {
	return &contextCache{
		contexts: make(map[uint64]*cachedContext),
		ttl:      ttl,
		loader:   loader,
	}
}

// get returns a fresh context for the definition, loading it at most once
// per expiry regardless of concurrent callers.
func (c *contextCache) get(ctx context.Context, definitionID uint64) (*MatchingContext, error) {
	if c.ttl == 0 {
		return c.loader.Load(ctx, definitionID)
	}

	c.mu.RLock()
	cached, exists := c.contexts[definitionID]
	c.mu.RUnlock()

	if exists && !cached.expired(c.ttl) {
		return cached.mc, nil
	}

	result, err, _ := c.sf.Do(fmt.Sprint(definitionID), func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		cached, exists := c.contexts[definitionID]
		c.mu.RUnlock()

		if exists && !cached.expired(c.ttl) {
			return cached.mc, nil
		}

		mc, err := c.loader.Load(ctx, definitionID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.contexts[definitionID] = &cachedContext{mc: mc, built: time.Now()}
		c.mu.Unlock()

		return mc, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*MatchingContext), nil
}

// invalidate drops the cached context for a definition, forcing a rebuild
// on the next run. Called after new batches are known to have landed.
func (c *contextCache) invalidate(definitionID uint64) {
	c.mu.Lock()
	delete(c.contexts, definitionID)
	c.mu.Unlock()
}
