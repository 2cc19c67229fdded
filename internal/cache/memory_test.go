package cache

import (
	"testing"
	"time"
)

func newTestMemoryCache(t *testing.T, size int) Cache {
	t.Helper()
	c, err := New("memory", ProviderConfig{Size: size, TTL: time.Minute})
	if err != nil {
		t.Fatalf("Failed to create memory cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheGetSet(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 8)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for absent key")
	}

	c.Set("key", []byte("value"))
	got, ok := c.Get("key")
	if !ok {
		t.Fatal("Expected hit for stored key")
	}
	if string(got) != "value" {
		t.Errorf("Expected value, got %q", got)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 8)

	c.Set("key", []byte("first"))
	c.Set("key", []byte("second"))

	got, ok := c.Get("key")
	if !ok || string(got) != "second" {
		t.Errorf("Expected overwritten value, got %q (hit=%v)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry after overwrite, got %d", c.Len())
	}
}

func TestMemoryCacheContainsAndLen(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 8)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	if !c.Contains("a") || !c.Contains("b") {
		t.Error("Expected both stored keys to be present")
	}
	if c.Contains("c") {
		t.Error("Expected absent key to be reported missing")
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", c.Len())
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	t.Parallel()

	evicted := make(chan string, 4)
	c, err := New("memory", ProviderConfig{
		Size: 2,
		TTL:  time.Minute,
		OnEvict: func(key string, _ []byte) {
			evicted <- key
		},
	})
	if err != nil {
		t.Fatalf("Failed to create memory cache: %v", err)
	}
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	select {
	case key := <-evicted:
		if key != "a" {
			t.Errorf("Expected oldest key to be evicted, got %q", key)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected an eviction callback")
	}

	if c.Len() != 2 {
		t.Errorf("Expected cache bounded at 2 entries, got %d", c.Len())
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	t.Parallel()

	c, err := New("memory", ProviderConfig{Size: 8, TTL: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("Failed to create memory cache: %v", err)
	}
	defer c.Close()

	c.Set("key", []byte("value"))
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("Expected entry to expire after TTL")
	}
}
