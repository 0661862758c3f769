package observe

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// resultCache keeps recent on-demand collector results for a short TTL so
// back-to-back tool calls do not repeat slow walks.
type resultCache struct {
	lru *expirable.LRU[string, any]
}

// newResultCache creates a cache. A ttl of 0 disables caching.
func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		return &resultCache{}
	}
	return &resultCache{lru: expirable.NewLRU[string, any](16, nil, ttl)}
}

// cached returns the entry for key if it is within TTL, otherwise calls fetch
// and stores a successful result.
func cached[T any](c *resultCache, key string, fetch func() (T, error)) (T, error) {
	if c == nil || c.lru == nil {
		return fetch()
	}
	if v, ok := c.lru.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	v, err := fetch()
	if err != nil {
		return v, err
	}
	c.lru.Add(key, v)
	return v, nil
}

// invalidate clears the cache.
func (c *resultCache) invalidate() {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Purge()
}
