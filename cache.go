package lrustore

import (
	"sync"

	"github.com/unkn0wn-root/lrustore/internal/hashindex"
)

// Arena layout: slots 0 and 1 are permanent sentinels bounding the recency
// list. head.next is the most recently used entry, tail.prev the least.
// nilSlot terminates the free list.
const (
	headSlot int32 = 0
	tailSlot int32 = 1
	nilSlot  int32 = -1
)

// slot is one arena cell: a live entry, a sentinel, or a free-list link.
// Free slots reuse next as the free-list pointer.
type slot struct {
	key   string
	value string
	prev  int32
	next  int32
}

// Cache is a fixed-capacity key-value store with LRU eviction. All methods
// are safe for concurrent use; each runs as one exclusive critical section,
// so the hash index and the recency list can never be observed disagreeing.
type Cache struct {
	mu       sync.Mutex
	capacity int
	arena    []slot
	free     int32
	index    *hashindex.Index[int32]
	log      Logger
	onEvict  func(key, value string)
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithLogger attaches a structured logger. Defaults to NopLogger.
func WithLogger(l Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEvictCallback registers fn to be called for every entry evicted by
// capacity pressure (not for Remove or Clear). fn runs inside the cache's
// critical section and must not call back into the Cache.
func WithEvictCallback(fn func(key, value string)) Option {
	return func(c *Cache) { c.onEvict = fn }
}

// New constructs a Cache holding at most capacity entries.
// Returns ErrInvalidCapacity when capacity <= 0.
func New(capacity int, opts ...Option) (*Cache, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	c := &Cache{
		capacity: capacity,
		arena:    make([]slot, 2, capacity+2),
		free:     nilSlot,
		// Pre-size the index past capacity/0.75 so a cache that stays within
		// its bound never pays for a mid-flight table resize.
		index: hashindex.New[int32](capacity + capacity/3),
		log:   NopLogger{},
	}
	c.arena[headSlot] = slot{prev: nilSlot, next: tailSlot}
	c.arena[tailSlot] = slot{prev: headSlot, next: nilSlot}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value stored under key and marks the entry as most
// recently used. The lookup and the relocation are a single atomic step.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index.Get(key)
	if !ok {
		return "", false
	}
	c.unlink(i)
	c.pushFront(i)
	return c.arena[i].value, true
}

// Put stores value under key. An existing entry is updated in place and
// refreshed to most recently used; a new entry that pushes the cache past
// capacity evicts the least recently used entry in the same atomic step.
func (c *Cache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index.Get(key); ok {
		c.arena[i].value = value
		c.unlink(i)
		c.pushFront(i)
		return
	}

	i := c.alloc(key, value)
	c.pushFront(i)
	c.index.Put(key, i)

	if c.index.Len() > c.capacity {
		c.evictLRU()
	}
}

// Remove deletes key and returns its prior value. Absent keys are a no-op.
func (c *Cache) Remove(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index.Remove(key)
	if !ok {
		return "", false
	}
	v := c.arena[i].value
	c.unlink(i)
	c.release(i)
	return v, true
}

// Contains reports whether key is present without touching recency order.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index.Get(key)
	return ok
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Len()
}

// Clear removes every entry. The arena is reset to the two sentinels.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.Clear()
	c.arena = c.arena[:2]
	c.arena[headSlot] = slot{prev: nilSlot, next: tailSlot}
	c.arena[tailSlot] = slot{prev: headSlot, next: nilSlot}
	c.free = nilSlot
}

// Stats is a consistent point-in-time view of cache occupancy.
type Stats struct {
	Size       int
	Capacity   int
	LoadFactor float64
}

// Stats snapshots size, capacity, and the hash index load factor atomically.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:       c.index.Len(),
		Capacity:   c.capacity,
		LoadFactor: c.index.LoadFactor(),
	}
}

// Keys returns all keys ordered most to least recently used.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, c.index.Len())
	for i := c.arena[headSlot].next; i != tailSlot; i = c.arena[i].next {
		out = append(out, c.arena[i].key)
	}
	return out
}

// evictLRU drops the entry adjacent to the tail sentinel. Caller holds mu.
func (c *Cache) evictLRU() {
	i := c.arena[tailSlot].prev
	if i == headSlot {
		return
	}
	key, value := c.arena[i].key, c.arena[i].value
	c.unlink(i)
	c.index.Remove(key)
	c.release(i)

	c.log.Debug("evicted least recently used entry", Fields{"key": key})
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

// unlink detaches slot i from the recency list. Caller holds mu.
func (c *Cache) unlink(i int32) {
	s := c.arena[i]
	c.arena[s.prev].next = s.next
	c.arena[s.next].prev = s.prev
}

// pushFront links slot i directly after the head sentinel. Caller holds mu.
func (c *Cache) pushFront(i int32) {
	first := c.arena[headSlot].next
	c.arena[i].prev = headSlot
	c.arena[i].next = first
	c.arena[first].prev = i
	c.arena[headSlot].next = i
}

// alloc takes a slot from the free list or extends the arena. Caller holds mu.
func (c *Cache) alloc(key, value string) int32 {
	if c.free != nilSlot {
		i := c.free
		c.free = c.arena[i].next
		c.arena[i] = slot{key: key, value: value}
		return i
	}
	c.arena = append(c.arena, slot{key: key, value: value})
	return int32(len(c.arena) - 1)
}

// release puts slot i on the free list and drops its strings so the arena
// does not pin evicted values. Caller holds mu.
func (c *Cache) release(i int32) {
	c.arena[i] = slot{next: c.free, prev: nilSlot}
	c.free = i
}
