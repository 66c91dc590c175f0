package utils

import (
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	cache := NewCache[string]()
	cache.Set("value", time.Minute)

	got, ok := cache.Get(time.Now())
	if !ok {
		t.Error("expected a cache hit")
	}
	if got != "value" {
		t.Errorf("expected %q, got %q", "value", got)
	}
}

func TestCacheExpiration(t *testing.T) {
	cache := NewCache[int]()
	cache.Set(42, 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get(time.Now()); ok {
		t.Error("expected the value to have expired")
	}
}

func TestCacheRefreshAfter(t *testing.T) {
	cache := NewCache[int]()
	cache.Set(42, time.Minute)

	// A value cached before the refresh cutoff is still served.
	if _, ok := cache.Get(time.Now()); !ok {
		t.Error("expected a hit for a fresh value")
	}
	// A cutoff in the past marks the value stale.
	if _, ok := cache.Get(time.Now().Add(-time.Hour)); ok {
		t.Error("expected a miss when the value predates the cutoff")
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewCache[string]()
	cache.Set("value", time.Minute)
	cache.Clear()

	if _, ok := cache.Get(time.Now()); ok {
		t.Error("expected a miss after clear")
	}
}
