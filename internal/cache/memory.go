package cache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache is the in-process backend: a size-bounded LRU with per-entry
// expiry. It is the default and needs no external service; nothing survives
// the process.
type memoryCache struct {
	lru *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict func(string, []byte)
	if cfg.OnEvict != nil {
		onEvict = cfg.OnEvict
	}
	return &memoryCache{
		lru: lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL),
	}, nil
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *memoryCache) Set(key string, value []byte) {
	c.lru.Add(key, value)
}

func (c *memoryCache) Contains(key string) bool {
	return c.lru.Contains(key)
}

func (c *memoryCache) Len() int {
	return c.lru.Len()
}

func (c *memoryCache) Close() error {
	return nil
}
