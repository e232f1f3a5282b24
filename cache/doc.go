// Package cache provides a generic, weight-bounded, sharded LRU cache.
//
// ShardedCache spreads its entries across 16 shards, each guarded by its
// own mutex. Every entry carries a weight computed by a Weigher, and the
// summed weight of the whole cache never exceeds its capacity: an insert
// that would overflow it first evicts least recently used entries.
//
//	c := cache.NewSharded[int, []byte](1<<20, cache.IntHasher,
//	    func(_ int, v []byte) int64 { return int64(len(v)) })
//	c.Set(42, data)
//	value, ok := c.Get(42)
//
// # Thread Safety
//
// ShardedCache is safe for concurrent use and must not be copied after
// creation (it contains mutexes).
package cache
