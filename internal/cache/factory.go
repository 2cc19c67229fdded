package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ProviderConfig carries everything a backend needs to assemble a cache
// instance. Fields a backend does not use are ignored.
type ProviderConfig struct {
	Size int           // entry cap for size-bounded backends
	TTL  time.Duration // lifetime of a cached response

	// OnEvict runs when an entry leaves the cache. Backends that expire
	// entries server-side never call it.
	OnEvict EvictCallback

	// Logger receives backend error reports; nil drops them.
	Logger Logger

	// Redis/Valkey connection settings, read by the redis backend only.
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// Group, when set, namespaces the Prometheus cache metrics and wraps the
	// instance with hit/miss/eviction accounting.
	Group string
}

// Factory assembles a Cache from config.
type Factory func(cfg ProviderConfig) (Cache, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a cache backend available under name. Backends register
// themselves from init, so a duplicate name or nil factory panics.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("cache: Register called with nil factory")
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("cache: duplicate provider %q", name))
	}
	registry[name] = factory
}

// New builds a cache from the named backend. A non-empty cfg.Group wires the
// instance into the Prometheus cache metrics: lookups and evictions count
// under the group label, and a collector reporting Len() at scrape time is
// registered for the group.
func New(name string, cfg ProviderConfig) (Cache, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.Group == "" {
		return factory(cfg)
	}

	group := cfg.Group
	userEvict := cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if userEvict != nil {
			userEvict(key, value)
		}
	}

	inner, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	return newMeteredCache(inner, group), nil
}

// RegisteredProviders returns the known backend names, sorted.
func RegisteredProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
