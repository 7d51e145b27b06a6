package feature

import (
	"sync"
)

// vectorCache memoizes extracted vectors keyed by the full extraction input.
// Identical inputs always produce identical vectors, so reuse across training
// runs is safe. Bounded with LIFO eviction: a linked list tracks insertion
// order and the oldest entry is dropped when the cap is hit.
type vectorCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheNode
	head    *cacheNode
	maxSize int
}

type cacheNode struct {
	key    string
	vector Vector
	next   *cacheNode
}

// newVectorCache creates a cache holding at most maxSize vectors.
// maxSize <= 0 disables caching entirely.
func newVectorCache(maxSize int) *vectorCache {
	return &vectorCache{
		entries: make(map[string]*cacheNode),
		maxSize: maxSize,
	}
}

// get returns a copy of the cached vector for key, if present.
func (c *vectorCache) get(key string) (Vector, bool) {
	if c.maxSize <= 0 {
		return Vector{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		return Vector{}, false
	}
	return n.vector.clone(), true
}

// put stores a copy of v under key, evicting the oldest entry when full.
func (c *vectorCache) put(key string, v Vector) {
	if c.maxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := &cacheNode{key: key, vector: v.clone(), next: c.head}
	c.head = n
	c.entries[key] = n
}

// evictOldest removes the tail of the insertion list. Must hold c.mu.
func (c *vectorCache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.entries, c.head.key)
		c.head = nil
		return
	}
	prev := c.head
	for prev.next.next != nil {
		prev = prev.next
	}
	delete(c.entries, prev.next.key)
	prev.next = nil
}

// size returns the current entry count.
func (c *vectorCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
