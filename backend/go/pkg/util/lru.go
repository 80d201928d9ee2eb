package util

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// CacheConfig 用于配置LRU缓存的行为。
type CacheConfig struct {
	// Capacity 是缓存的最大元素数量，必须大于 0。
	Capacity int
	// TTL 是元素的存活时间。如果为0，则元素永不过期。
	TTL time.Duration
	// Now 返回当前时间，为空时使用 time.Now，测试中可以替换。
	Now func() time.Time
}

// entry 结构体用于存储链表节点中的实际数据。
type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRUCache 是一个支持泛型和 TTL 的线程安全 LRU 缓存。
type LRUCache[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	ll       *list.List
	items    map[K]*list.Element
	lock     sync.Mutex
}

// NewWithConfig 使用指定的配置创建一个LRU缓存实例。
func NewWithConfig[K comparable, V any](config CacheConfig) (*LRUCache[K, V], error) {
	if config.Capacity <= 0 {
		return nil, fmt.Errorf("Capacity 必须大于 0")
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &LRUCache[K, V]{
		capacity: config.Capacity,
		ttl:      config.TTL,
		now:      now,
		ll:       list.New(),
		items:    make(map[K]*list.Element),
	}, nil
}

// Get 方法根据键获取一个值，过期的元素会被顺带删除。
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var zero V
	element, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := element.Value.(*entry[K, V])
	if c.expired(e) {
		c.removeElement(element)
		return zero, false
	}
	c.ll.MoveToFront(element)
	return e.value, true
}

// Put 方法向缓存中添加或更新一个键值对，并刷新其过期时间。
func (c *LRUCache[K, V]) Put(key K, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if element, ok := c.items[key]; ok {
		e := element.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		c.ll.MoveToFront(element)
		return
	}

	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	for c.ll.Len() > c.capacity {
		c.removeElement(c.ll.Back())
	}
}

// PurgeExpired 主动删除所有已过期的元素，返回删除的数量。
func (c *LRUCache[K, V]) PurgeExpired() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.ttl <= 0 {
		return 0
	}
	removed := 0
	for element := c.ll.Back(); element != nil; {
		prev := element.Prev()
		if c.expired(element.Value.(*entry[K, V])) {
			c.removeElement(element)
			removed++
		}
		element = prev
	}
	return removed
}

// expired 判断元素是否过期。此方法假设已持有锁。
func (c *LRUCache[K, V]) expired(e *entry[K, V]) bool {
	return c.ttl > 0 && !c.now().Before(e.expiresAt)
}

// removeElement 从链表和map中移除元素。此方法假设已持有锁。
func (c *LRUCache[K, V]) removeElement(e *list.Element) {
	c.ll.Remove(e)
	delete(c.items, e.Value.(*entry[K, V]).key)
}

// size 返回当前缓存中的条目数量（包括尚未清理的过期条目）。
func (c *LRUCache[K, V]) size() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.ll.Len()
}
