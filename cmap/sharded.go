package cmap

import (
	"hash/maphash"
	"reflect"
	"sync"
)

// ShardedMap is a concurrent map safe for use by multiple goroutines.
// The zero value is not usable; create one with New or NewFunc.
//
// Type parameters:
//   - K: The key type
//   - V: The value type
type ShardedMap[K comparable, V any] struct {
	shards []*shard[K, V]
	mask   uint64
	seed   maphash.Seed
	equal  func(a, b V) bool
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a ShardedMap that compares values with reflect.DeepEqual in TryReplace.
func New[K comparable, V any](opts ...Option) *ShardedMap[K, V] {
	return NewFunc[K, V](func(a, b V) bool {
		return reflect.DeepEqual(a, b)
	}, opts...)
}

// NewFunc creates a ShardedMap that compares values with equal in TryReplace.
// A nil equal falls back to reflect.DeepEqual.
func NewFunc[K comparable, V any](equal func(a, b V) bool, opts ...Option) *ShardedMap[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if equal == nil {
		equal = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}

	n := nextPowerOfTwo(o.shards)
	shards := make([]*shard[K, V], n)
	for i := range shards {
		shards[i] = &shard[K, V]{items: make(map[K]V)}
	}

	return &ShardedMap[K, V]{
		shards: shards,
		mask:   uint64(n - 1),
		seed:   maphash.MakeSeed(),
		equal:  equal,
	}
}

func (m *ShardedMap[K, V]) shardFor(key K) *shard[K, V] {
	return m.shards[maphash.Comparable(m.seed, key)&m.mask]
}

// TryInsert stores value under key if the key is absent and reports whether it did.
func (m *ShardedMap[K, V]) TryInsert(key K, value V) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = value
	return true
}

// TryRemove deletes key if present and returns the value it held.
func (m *ShardedMap[K, V]) TryRemove(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return value, ok
}

// TryReplace stores newValue under key only if the key is present and its
// value equals expected.
func (m *ShardedMap[K, V]) TryReplace(key K, newValue, expected V) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[key]
	if !ok || !m.equal(current, expected) {
		return false
	}
	s.items[key] = newValue
	return true
}

// TryLookup returns the value stored under key and whether it is present.
func (m *ShardedMap[K, V]) TryLookup(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok
}

// Store sets the value for key unconditionally.
func (m *ShardedMap[K, V]) Store(key K, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// Len returns the number of entries. Under concurrent writes the count is a
// sum of per-shard snapshots, not a global one.
func (m *ShardedMap[K, V]) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Range calls fn for every entry until fn returns false. Each shard is
// copied under its read lock before fn sees it, so fn may modify the map.
func (m *ShardedMap[K, V]) Range(fn func(key K, value V) bool) {
	type entry struct {
		key   K
		value V
	}

	for _, s := range m.shards {
		s.mu.RLock()
		entries := make([]entry, 0, len(s.items))
		for k, v := range s.items {
			entries = append(entries, entry{k, v})
		}
		s.mu.RUnlock()

		for _, e := range entries {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}
