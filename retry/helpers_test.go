package retry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/mapretry/cmap"
)

// spyContainer counts every primitive call made against the wrapped map.
type spyContainer[K comparable, V any] struct {
	*cmap.ShardedMap[K, V]
	calls  atomic.Int32
	onCall func(n int32)
}

func newSpy[K comparable, V any]() *spyContainer[K, V] {
	return &spyContainer[K, V]{ShardedMap: cmap.New[K, V](cmap.WithShards(4))}
}

func (s *spyContainer[K, V]) record() {
	n := s.calls.Add(1)
	if s.onCall != nil {
		s.onCall(n)
	}
}

func (s *spyContainer[K, V]) TryInsert(key K, value V) bool {
	s.record()
	return s.ShardedMap.TryInsert(key, value)
}

func (s *spyContainer[K, V]) TryRemove(key K) (V, bool) {
	s.record()
	return s.ShardedMap.TryRemove(key)
}

func (s *spyContainer[K, V]) TryReplace(key K, newValue, expected V) bool {
	s.record()
	return s.ShardedMap.TryReplace(key, newValue, expected)
}

func (s *spyContainer[K, V]) TryLookup(key K) (V, bool) {
	s.record()
	return s.ShardedMap.TryLookup(key)
}

// leakyContainer always fails but hands back a non-zero value with the failure.
type leakyContainer struct{}

func (leakyContainer) TryInsert(string, int) bool { return false }
func (leakyContainer) TryRemove(string) (int, bool) { return 42, false }
func (leakyContainer) TryReplace(string, int, int) bool { return false }
func (leakyContainer) TryLookup(string) (int, bool) { return 42, false }

type attemptEvent struct {
	op      Op
	attempt int
	ok      bool
}

type outcomeEvent struct {
	op       Op
	outcome  Outcome
	attempts int
}

// recordingObserver keeps every notification it receives.
type recordingObserver struct {
	mu       sync.Mutex
	attempts []attemptEvent
	outcomes []outcomeEvent
}

func (r *recordingObserver) ObserveAttempt(op Op, attempt int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attemptEvent{op, attempt, ok})
}

func (r *recordingObserver) ObserveOutcome(op Op, outcome Outcome, attempts int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcomeEvent{op, outcome, attempts})
}
