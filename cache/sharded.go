package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// Default configuration constants.
const (
	// DefaultShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	// DefaultCapacity is the default total weight of a cache.
	DefaultCapacity = 4096
)

// Hasher is a function that computes a hash for a key.
// Used by ShardedCache for shard selection.
type Hasher[K any] func(K) uint64

// Weigher returns the cost of an entry. The sum of the weights of all
// resident entries never exceeds the cache capacity.
type Weigher[K any, V any] func(K, V) int64

// IntHasher computes a hash of an int key using FNV-1a.
func IntHasher(i int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for b := range buf {
		buf[b] = byte(i >> (8 * b))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// ShardedCache is a thread-safe, sharded, weight-bounded LRU cache.
//
// Every entry has a weight given by the cache's Weigher (1 when no weigher
// is set). The resident weight of the whole cache is tracked globally and
// never exceeds Capacity. Lookups only lock the key's shard. Inserts are
// serialized: when an insert would push the total past Capacity, least
// recently used entries are evicted from the key's shard first and then
// from the other shards until the new entry fits. Eviction is therefore
// exact LRU per shard and approximate LRU across the cache.
//
// An entry heavier than Capacity is never admitted.
type ShardedCache[K comparable, V any] struct {
	shards   []*shardedCacheShard[K, V]
	mask     uint64
	hasher   Hasher[K]
	weigher  Weigher[K, V]
	capacity int64

	// insertMu serializes inserts so the global weight check and the
	// evictions that follow it act on a stable total.
	insertMu sync.Mutex
	weight   atomic.Int64

	hits       atomic.Uint64
	misses     atomic.Uint64
	evictions  atomic.Uint64
	rejections atomic.Uint64
}

// shardedCacheShard is a single shard of the cache.
// Each shard has its own mutex for reduced contention.
type shardedCacheShard[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*shardedCacheEntry[K, V]
	lru     lruList[K]
}

// shardedCacheEntry holds a cached value with its LRU node.
type shardedCacheEntry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// NewSharded creates a sharded cache bounded by capacity total weight.
//
// The hasher selects shards; IntHasher covers integer keys. A nil weigher
// gives every entry a weight of 1, turning capacity into an entry count.
//
// If capacity <= 0, DefaultCapacity is used.
func NewSharded[K comparable, V any](capacity int64, hasher Hasher[K], weigher Weigher[K, V]) *ShardedCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if weigher == nil {
		weigher = func(K, V) int64 { return 1 }
	}

	c := &ShardedCache[K, V]{
		shards:   make([]*shardedCacheShard[K, V], DefaultShardCount),
		mask:     DefaultShardCount - 1,
		hasher:   hasher,
		weigher:  weigher,
		capacity: capacity,
	}

	for i := range c.shards {
		c.shards[i] = &shardedCacheShard[K, V]{
			entries: make(map[K]*shardedCacheEntry[K, V]),
		}
	}

	return c
}

// shardIndex returns the index of the shard for a given key.
func (c *ShardedCache[K, V]) shardIndex(key K) int {
	return int(c.hasher(key) & c.mask) //nolint:gosec // masked to shard count
}

// Get retrieves a cached value by key.
// Returns (value, true) if found, (zero, false) otherwise.
//
// On cache hit, the entry is moved to the front of its shard's LRU list.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	shard := c.shards[c.shardIndex(key)]

	// Fast path: read lock to check existence
	shard.mu.RLock()
	_, exists := shard.entries[key]
	shard.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	shard.mu.Lock()
	// Re-check after acquiring write lock (entry may have been evicted)
	entry, ok := shard.entries[key]
	if !ok {
		shard.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	shard.lru.MoveToFront(entry.node)
	value := entry.value
	shard.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// Peek retrieves a cached value without touching recency or statistics.
// Use it to re-check for a value another goroutine may have just stored.
func (c *ShardedCache[K, V]) Peek(key K) (V, bool) {
	shard := c.shards[c.shardIndex(key)]
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	if entry, ok := shard.entries[key]; ok {
		return entry.value, true
	}
	var zero V
	return zero, false
}

// Set stores a value in the cache and reports whether it was admitted.
// Least recently used entries are evicted until the new entry fits within
// the capacity. Entries heavier than the capacity are rejected and leave
// the cache untouched.
//
// The value is stored as-is (not copied). Callers should not modify it
// after caching.
func (c *ShardedCache[K, V]) Set(key K, value V) bool {
	weight := c.weigher(key, value)
	if weight < 0 || weight > c.capacity {
		c.rejections.Add(1)
		return false
	}

	home := c.shardIndex(key)
	shard := c.shards[home]

	c.insertMu.Lock()
	defer c.insertMu.Unlock()

	shard.mu.Lock()
	if existing, ok := shard.entries[key]; ok {
		shard.lru.Remove(existing.node)
		delete(shard.entries, key)
		c.weight.Add(-existing.node.weight)
	}
	shard.mu.Unlock()

	// Home shard first, then the others in order.
	for i := 0; i < len(c.shards); i++ {
		over := c.weight.Load() + weight - c.capacity
		if over <= 0 {
			break
		}
		c.evict(c.shards[(home+i)&int(c.mask)], over)
	}

	shard.mu.Lock()
	node := shard.lru.PushFront(key, weight)
	shard.entries[key] = &shardedCacheEntry[K, V]{
		value: value,
		node:  node,
	}
	c.weight.Add(weight)
	shard.mu.Unlock()
	return true
}

// evict drops least recently used entries of shard until at least need
// weight has been released or the shard is empty.
// Caller must hold c.insertMu.
func (c *ShardedCache[K, V]) evict(shard *shardedCacheShard[K, V], need int64) {
	shard.mu.Lock()
	defer shard.mu.Unlock()

	for need > 0 {
		oldest := shard.lru.RemoveOldest()
		if oldest == nil {
			return
		}
		delete(shard.entries, oldest.key)
		c.weight.Add(-oldest.weight)
		need -= oldest.weight
		c.evictions.Add(1)
	}
}

// GetOrCreate returns a cached value or creates and stores it.
//
// Unlike Get followed by Set, the create function runs without any lock
// held, so slow creators never block readers of other keys. Two
// goroutines missing the same key may both run create; the later result
// replaces the earlier one.
func (c *ShardedCache[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := create()
	c.Set(key, v)
	return v
}

// Clear removes all entries from the cache.
func (c *ShardedCache[K, V]) Clear() {
	c.insertMu.Lock()
	defer c.insertMu.Unlock()

	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.entries = make(map[K]*shardedCacheEntry[K, V])
		shard.lru.Clear()
		shard.mu.Unlock()
	}
	c.weight.Store(0)
}

// Len returns the total number of entries across all shards.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

// Weight returns the total weight of all resident entries.
func (c *ShardedCache[K, V]) Weight() int64 {
	return c.weight.Load()
}

// Capacity returns the configured total weight capacity.
func (c *ShardedCache[K, V]) Capacity() int64 {
	return c.capacity
}

// Stats returns current cache statistics.
func (c *ShardedCache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:        c.Len(),
		Weight:     c.Weight(),
		Capacity:   c.capacity,
		Shards:     len(c.shards),
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
		Evictions:  c.evictions.Load(),
		Rejections: c.rejections.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *ShardedCache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.rejections.Store(0)
}

// Stats holds cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Weight is the summed weight of resident entries.
	Weight int64
	// Capacity is the maximum total weight.
	Capacity int64
	// Shards is the number of shards in use.
	Shards int
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries evicted to make room.
	Evictions uint64
	// Rejections is the number of entries too heavy to be admitted.
	Rejections uint64
}
