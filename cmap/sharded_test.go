package cmap

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

func TestShardedMap_TryInsert(t *testing.T) {
	m := New[string, int](WithShards(4))

	if !m.TryInsert("a", 1) {
		t.Fatal("expected first insert to succeed")
	}
	if m.TryInsert("a", 2) {
		t.Fatal("expected insert on present key to fail")
	}

	v, ok := m.TryLookup("a")
	if !ok || v != 1 {
		t.Errorf("TryLookup(a) = %d, %v; want 1, true", v, ok)
	}
}

func TestShardedMap_TryRemove(t *testing.T) {
	m := New[string, int]()
	m.Store("a", 7)

	v, ok := m.TryRemove("a")
	if !ok || v != 7 {
		t.Fatalf("TryRemove(a) = %d, %v; want 7, true", v, ok)
	}

	v, ok = m.TryRemove("a")
	if ok || v != 0 {
		t.Errorf("second TryRemove(a) = %d, %v; want 0, false", v, ok)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestShardedMap_TryReplace(t *testing.T) {
	tests := []struct {
		name     string
		seed     map[string]int
		key      string
		newValue int
		expected int
		want     bool
		wantVal  int
		wantOK   bool
	}{
		{"matching value is swapped", map[string]int{"a": 1}, "a", 2, 1, true, 2, true},
		{"stale value is rejected", map[string]int{"a": 1}, "a", 2, 9, false, 1, true},
		{"absent key is rejected", map[string]int{}, "a", 2, 0, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New[string, int]()
			for k, v := range tt.seed {
				m.Store(k, v)
			}

			if got := m.TryReplace(tt.key, tt.newValue, tt.expected); got != tt.want {
				t.Errorf("TryReplace() = %v, want %v", got, tt.want)
			}

			v, ok := m.TryLookup(tt.key)
			if v != tt.wantVal || ok != tt.wantOK {
				t.Errorf("TryLookup() = %d, %v; want %d, %v", v, ok, tt.wantVal, tt.wantOK)
			}
		})
	}
}

func TestShardedMap_TryReplace_DeepEqual(t *testing.T) {
	m := New[string, []int]()
	m.Store("s", []int{1, 2})

	if !m.TryReplace("s", []int{3}, []int{1, 2}) {
		t.Fatal("expected slice values to compare by content")
	}
}

func TestShardedMap_NewFunc(t *testing.T) {
	type version struct {
		n    int
		note string
	}
	m := NewFunc[string, version](func(a, b version) bool { return a.n == b.n })
	m.Store("k", version{n: 1, note: "x"})

	if !m.TryReplace("k", version{n: 2}, version{n: 1, note: "ignored"}) {
		t.Fatal("expected custom equality to ignore note")
	}
}

func TestShardedMap_NilValue(t *testing.T) {
	m := New[string, *int]()
	if !m.TryInsert("nil", nil) {
		t.Fatal("expected insert of nil value to succeed")
	}

	v, ok := m.TryLookup("nil")
	if !ok || v != nil {
		t.Errorf("TryLookup(nil) = %v, %v; want nil, true", v, ok)
	}
}

func TestShardedMap_ShardCount(t *testing.T) {
	tests := []struct {
		shards int
		want   int
	}{
		{1, 1},
		{3, 4},
		{16, 16},
		{17, 32},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.shards), func(t *testing.T) {
			m := New[int, int](WithShards(tt.shards))
			if len(m.shards) != tt.want {
				t.Errorf("len(shards) = %d, want %d", len(m.shards), tt.want)
			}
			if m.mask != uint64(tt.want-1) {
				t.Errorf("mask = %d, want %d", m.mask, tt.want-1)
			}
		})
	}
}

func TestShardedMap_Range(t *testing.T) {
	m := New[int, int](WithShards(8))
	for i := range 100 {
		m.Store(i, i*i)
	}

	seen := 0
	m.Range(func(k, v int) bool {
		if v != k*k {
			t.Errorf("Range saw %d -> %d", k, v)
		}
		seen++
		return true
	})
	if seen != 100 {
		t.Errorf("Range visited %d entries, want 100", seen)
	}

	stopped := 0
	m.Range(func(k, v int) bool {
		stopped++
		return stopped < 10
	})
	if stopped != 10 {
		t.Errorf("Range stopped after %d entries, want 10", stopped)
	}
}

func TestShardedMap_RangeMayMutate(t *testing.T) {
	m := New[int, int](WithShards(2))
	for i := range 10 {
		m.Store(i, i)
	}

	m.Range(func(k, _ int) bool {
		m.TryRemove(k)
		return true
	})
	if m.Len() != 0 {
		t.Errorf("Len() = %d after removing during Range, want 0", m.Len())
	}
}

func TestShardedMap_ConcurrentInsertSingleWinner(t *testing.T) {
	m := New[string, int]()

	const goroutines = 64
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := range goroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if m.TryInsert("contended", id) {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("expected exactly 1 winner, got %d", winners.Load())
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestShardedMap_ConcurrentReplaceIncrements(t *testing.T) {
	m := New[string, int]()
	m.Store("counter", 0)

	const goroutines = 16
	const increments = 200
	var wg sync.WaitGroup

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for done := 0; done < increments; {
				cur, _ := m.TryLookup("counter")
				if m.TryReplace("counter", cur+1, cur) {
					done++
				}
			}
		}()
	}
	wg.Wait()

	v, _ := m.TryLookup("counter")
	if v != goroutines*increments {
		t.Errorf("counter = %d, want %d", v, goroutines*increments)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := map[int]int{-1: 1, 0: 1, 1: 1, 2: 2, 5: 8, 64: 64, 65: 128}
	for in, want := range tests {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
