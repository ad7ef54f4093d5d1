package listview

import (
	"container/list"
	"sync"
)

type cacheKey struct {
	id   string
	args string
}

type cacheEntry struct {
	key   cacheKey
	entry Entry
	item  *Item
}

// CacheMetrics 记录缓存命中情况。
type CacheMetrics struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache 是已构造可视项的 LRU 缓存，键为 StableID + Args.Key()。
// 只有缓存的条目与新条目 Equal 时才算命中。nil *Cache 表示禁用缓存。
type Cache struct {
	capacity int
	items    map[cacheKey]*list.Element
	lru      *list.List
	metrics  CacheMetrics
	mu       sync.Mutex
}

// NewCache 创建缓存；capacity <= 0 时返回 nil（禁用）。
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		return nil
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[cacheKey]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Get 查找 e 在给定展示参数下的可视项。
func (c *Cache) Get(e Entry, argsKey string) (*Item, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[cacheKey{id: e.StableID(), args: argsKey}]
	if !ok {
		c.metrics.Misses++
		return nil, false
	}
	ce := elem.Value.(*cacheEntry)
	if !ce.entry.Equal(e) {
		c.metrics.Misses++
		return nil, false
	}
	c.lru.MoveToFront(elem)
	c.metrics.Hits++
	return ce.item, true
}

// Put 写入可视项，超出容量时淘汰最久未使用的项。
func (c *Cache) Put(e Entry, argsKey string, item *Item) {
	if c == nil || item == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey{id: e.StableID(), args: argsKey}
	if elem, ok := c.items[key]; ok {
		ce := elem.Value.(*cacheEntry)
		ce.entry = e
		ce.item = item
		c.lru.MoveToFront(elem)
		return
	}
	c.items[key] = c.lru.PushFront(&cacheEntry{key: key, entry: e, item: item})
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
		c.metrics.Evictions++
	}
}

// Len 返回缓存项数量。
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Metrics 返回命中统计快照。
func (c *Cache) Metrics() CacheMetrics {
	if c == nil {
		return CacheMetrics{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Purge 清空缓存。
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[cacheKey]*list.Element, c.capacity)
	c.lru.Init()
}
