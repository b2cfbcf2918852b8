package utils

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry time.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// PageCache is the process-local cache for rendered page data. The centre
// list is reference data and changes only on reseed; comment pages are
// invalidated explicitly on writes.
type PageCache struct {
	lruCache *lru.Cache[string, CacheItem]
}

var cacheInstance *PageCache

// GetCache returns the singleton cache instance.
func GetCache() *PageCache {
	if cacheInstance == nil {
		l, err := lru.New[string, CacheItem](200)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &PageCache{
			lruCache: l,
		}
	}
	return cacheInstance
}

// Set stores data under key for ttl.
func (c *PageCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil if absent or expired.
func (c *PageCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Delete removes one key.
func (c *PageCache) Delete(key string) {
	c.lruCache.Remove(key)
}
