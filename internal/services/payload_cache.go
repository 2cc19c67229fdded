package services

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"jimakufetch/internal/models"
)

// PayloadCache stores downloaded subtitle payloads for the lifetime of the
// process, keyed by descriptor cache key. Concurrent fetches of the same key
// collapse into a single network download: the second caller waits on the
// first's in-flight result. Failed fetches are never cached, so a later
// retry hits the network again. There is no eviction — payloads are small
// and a run touches a modest number of distinct files.
type PayloadCache struct {
	flight singleflight.Group

	mu       sync.RWMutex
	payloads map[string]*models.Payload
}

// NewPayloadCache creates an empty payload cache.
func NewPayloadCache() *PayloadCache {
	return &PayloadCache{
		payloads: make(map[string]*models.Payload),
	}
}

// Get returns the cached payload for key, if any.
func (c *PayloadCache) Get(key string) (*models.Payload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	payload, ok := c.payloads[key]
	return payload, ok
}

// Len returns the number of cached payloads.
func (c *PayloadCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.payloads)
}

// GetOrFetch returns the cached payload for key, or runs fetch exactly once
// across all concurrent callers and caches its result on success.
//
// A caller whose context is cancelled while waiting stops waiting and
// returns the context error; the in-flight fetch itself keeps the context it
// was started with, and its completion (success or failure) always releases
// the in-flight marker.
func (c *PayloadCache) GetOrFetch(ctx context.Context, key string, fetch func() (*models.DownloadResult, error)) (*models.Payload, error) {
	if payload, ok := c.Get(key); ok {
		return payload, nil
	}

	resultCh := c.flight.DoChan(key, func() (interface{}, error) {
		// Another caller may have populated the cache between our Get and
		// the flight starting.
		if payload, ok := c.Get(key); ok {
			return payload, nil
		}
		result, err := fetch()
		if err != nil {
			return nil, err
		}
		payload := models.NewPayload(result)
		c.mu.Lock()
		c.payloads[key] = payload
		c.mu.Unlock()
		return payload, nil
	})

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Payload), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
