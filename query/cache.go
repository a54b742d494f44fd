package query

import (
	"container/list"
	"time"
)

// entry is stored in the cache
type entry struct {
	key       string
	value     any
	fetchedAt time.Time
}

// lruCache bounds the number of cached queries. It is not safe for
// concurrent use; Client guards it with its own mutex.
type lruCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
}

// newLRUCache creates a new LRU cache with the given size
func newLRUCache(size int) *lruCache {
	return &lruCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

// get retrieves an entry and marks it most recently used
func (c *lruCache) get(key string) (*entry, bool) {
	node, exists := c.items[key]
	if !exists {
		return nil, false
	}
	c.evictList.MoveToFront(node)
	return node.Value.(*entry), true
}

// put adds or replaces an entry, evicting the least recently used one if full
func (c *lruCache) put(ent *entry) {
	if node, exists := c.items[ent.key]; exists {
		c.evictList.MoveToFront(node)
		node.Value = ent
		return
	}

	c.items[ent.key] = c.evictList.PushFront(ent)

	if c.size > 0 && c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

// remove deletes an entry
func (c *lruCache) remove(key string) bool {
	node, exists := c.items[key]
	if !exists {
		return false
	}
	c.evictList.Remove(node)
	delete(c.items, key)
	return true
}

// removeOldest removes the least recently used item
func (c *lruCache) removeOldest() {
	node := c.evictList.Back()
	if node != nil {
		c.evictList.Remove(node)
		delete(c.items, node.Value.(*entry).key)
	}
}

// removeIf deletes every entry matching fn and returns how many went
func (c *lruCache) removeIf(fn func(*entry) bool) int {
	removed := 0
	for node := c.evictList.Front(); node != nil; {
		next := node.Next()
		if ent := node.Value.(*entry); fn(ent) {
			c.evictList.Remove(node)
			delete(c.items, ent.key)
			removed++
		}
		node = next
	}
	return removed
}

// entries returns all entries, most recently used first
func (c *lruCache) entries() []*entry {
	out := make([]*entry, 0, c.evictList.Len())
	for node := c.evictList.Front(); node != nil; node = node.Next() {
		out = append(out, node.Value.(*entry))
	}
	return out
}

// clear removes all items from the cache
func (c *lruCache) clear() {
	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

// len returns the number of items in the cache
func (c *lruCache) len() int {
	return c.evictList.Len()
}
