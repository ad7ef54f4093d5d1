package listview

import "testing"

func TestCacheHitRequiresEqualEntry(t *testing.T) {
	c := NewCache(4)
	e := mk("a", 1, 1)
	item := NewItem("a", nil, "a")
	c.Put(e, "k", item)

	if got, ok := c.Get(e, "k"); !ok || got != item {
		t.Fatalf("expected hit")
	}
	if _, ok := c.Get(mk("a", 1, 2), "k"); ok {
		t.Fatalf("changed content must miss")
	}
	if _, ok := c.Get(e, "other"); ok {
		t.Fatalf("different args must miss")
	}
	m := c.Metrics()
	if m.Hits != 1 || m.Misses != 2 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	a, b, d := mk("a", 1, 1), mk("b", 2, 1), mk("d", 3, 1)
	c.Put(a, "k", NewItem("a", nil, ""))
	c.Put(b, "k", NewItem("b", nil, ""))
	c.Get(a, "k")
	c.Put(d, "k", NewItem("d", nil, ""))

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(b, "k"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get(a, "k"); !ok {
		t.Fatalf("a was recently used and should survive")
	}
	if c.Metrics().Evictions != 1 {
		t.Fatalf("evictions = %d", c.Metrics().Evictions)
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Purge left %d items", c.Len())
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	if NewCache(0) != nil {
		t.Fatalf("capacity 0 should disable the cache")
	}
	c.Put(mk("a", 1, 1), "k", NewItem("a", nil, ""))
	if _, ok := c.Get(mk("a", 1, 1), "k"); ok {
		t.Fatalf("nil cache must always miss")
	}
	if c.Len() != 0 {
		t.Fatalf("nil cache Len() = %d", c.Len())
	}
}
