package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](DefaultConfig())

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	c.Set("a", "alpha")
	c.Set("a", "again")
	if v, ok := c.Get("a"); !ok || v != "again" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := New[int](Config{MaxItems: 2})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // b is now least recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
}

func TestCache_Expiration(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	c := New[string](Config{MaxItems: 10, TTL: time.Minute})
	c.now = func() time.Time { return now }

	c.Set("short", "x")
	c.SetWithTTL("forever", "y", 0)

	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry returned")
	}
	if v, ok := c.Get("forever"); !ok || v != "y" {
		t.Errorf("Get(forever) = %q, %v", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[int](DefaultConfig())
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet("answer", compute)
		if err != nil || v != 42 {
			t.Fatalf("GetOrSet() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet("fail", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("error = %v", err)
	}
	if _, ok := c.Get("fail"); ok {
		t.Error("failed computation was cached")
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int](Config{MaxItems: 16})
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := string(rune('a' + (n+j)%26))
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Len() = %d exceeds MaxItems", c.Len())
	}
}
