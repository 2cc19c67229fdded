package cache

// meteredCache layers Prometheus accounting over a backend: lookups feed the
// per-group hit and miss counters, and Close tears down the group's entries
// collector along with the backend.
type meteredCache struct {
	inner Cache
	group string
}

func newMeteredCache(inner Cache, group string) *meteredCache {
	// The entries gauge reads Len() at scrape time. Backends like redis
	// expire entries on their own, so a maintained counter would drift.
	registerEntriesCollector(group, inner.Len)
	return &meteredCache{inner: inner, group: group}
}

func (m *meteredCache) Get(key string) ([]byte, bool) {
	value, ok := m.inner.Get(key)
	if ok {
		HitsTotal.WithLabelValues(m.group).Inc()
		return value, true
	}
	MissesTotal.WithLabelValues(m.group).Inc()
	return nil, false
}

func (m *meteredCache) Set(key string, value []byte) {
	m.inner.Set(key, value)
}

func (m *meteredCache) Contains(key string) bool {
	return m.inner.Contains(key)
}

func (m *meteredCache) Len() int {
	return m.inner.Len()
}

func (m *meteredCache) Close() error {
	unregisterEntriesCollector(m.group)
	return m.inner.Close()
}
