// Package cmap provides ShardedMap, a generic concurrent map whose
// single-attempt atomic operations satisfy retry.Container.
//
// Keys are spread over a power-of-two number of shards by a seeded hash;
// each shard is a plain Go map behind its own RWMutex. Every operation
// locks exactly one shard, so TryInsert, TryRemove, TryReplace and
// TryLookup are atomic with respect to one another.
//
//	m := cmap.New[string, int](cmap.WithShards(16))
//	m.TryInsert("a", 1)       // true
//	m.TryInsert("a", 2)       // false, "a" keeps 1
//	m.TryReplace("a", 5, 1)   // true
//	v, ok := m.TryRemove("a") // 5, true
package cmap
