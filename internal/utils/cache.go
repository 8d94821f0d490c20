package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a small TTL'd LRU used for hot read paths (front-page feed,
// popular forums). Entries are invalidated explicitly on writes.
type Cache struct {
	lru *lru.Cache[string, cacheItem]
}

var (
	cacheInstance *Cache
	cacheOnce     sync.Once
)

// GetCache returns the process-wide cache instance.
func GetCache() *Cache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, cacheItem](500)
		if err != nil {
			log.Fatalf("failed to create LRU cache: %v", err)
		}
		cacheInstance = &Cache{lru: l}
	})
	return cacheInstance
}

func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lru.Add(key, cacheItem{data: data, expiresAt: time.Now().Add(ttl)})
}

// Get returns nil when the key is missing or expired.
func (c *Cache) Get(key string) interface{} {
	item, ok := c.lru.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(item.expiresAt) {
		c.lru.Remove(key)
		return nil
	}
	return item.data
}

func (c *Cache) Delete(key string) {
	c.lru.Remove(key)
}
