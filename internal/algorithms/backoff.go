package algorithms

import (
	"cmp"
	"math/rand"
	"sync"
	"time"
)

// maxShift caps the exponent so 1<<n never overflows an int64.
const maxShift = 62

// constantDelay returns the same pause for every attempt.
type constantDelay time.Duration

func (c constantDelay) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	return time.Duration(c)
}

func (c constantDelay) Reset() {}

// exponentialDelay doubles the pause per attempt:
// initial, 2*initial, 4*initial, ... capped at max.
type exponentialDelay struct {
	initial time.Duration
	max     time.Duration
}

func newExponentialDelay(initial, maxDelay time.Duration) *exponentialDelay {
	return &exponentialDelay{initial: initial, max: maxDelay}
}

func (e *exponentialDelay) NextDelay(attempt int) time.Duration {
	return calcExponentialDelay(attempt, e.initial, e.max)
}

func (e *exponentialDelay) Reset() {}

// jitteredDelay multiplies the exponential pause by a random factor in
// [1-jitter, 1+jitter] so callers retrying the same key drift apart.
type jitteredDelay struct {
	initial, max time.Duration
	jitter       float64
	rng          *rand.Rand
	mu           sync.Mutex
}

func newJitteredDelay(initial, maxDelay time.Duration, jitter float64) *jitteredDelay {
	return &jitteredDelay{
		initial: initial,
		max:     maxDelay,
		jitter:  clamp(jitter, 0, 1),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter needs no crypto rand
	}
}

func (j *jitteredDelay) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}

	base := calcExponentialDelay(attempt, j.initial, j.max)

	j.mu.Lock()
	factor := 1.0 + (j.rng.Float64()*2-1)*j.jitter
	j.mu.Unlock()

	return clamp(time.Duration(float64(base)*factor), 0, j.max)
}

func (j *jitteredDelay) Reset() {}

// decorrelatedDelay implements decorrelated jitter:
// sleep = min(max, random(initial, prev*3)).
// Each pause depends on the previous one rather than on the attempt number.
type decorrelatedDelay struct {
	initial time.Duration
	max     time.Duration
	prev    time.Duration
	rng     *rand.Rand
	mu      sync.Mutex
}

func newDecorrelatedDelay(initial, maxDelay time.Duration) *decorrelatedDelay {
	return &decorrelatedDelay{
		initial: initial,
		max:     maxDelay,
		prev:    initial,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter needs no crypto rand
	}
}

func (d *decorrelatedDelay) NextDelay(attempt int) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	if attempt <= 0 {
		d.prev = d.initial
		return d.initial
	}

	upper := min(time.Duration(float64(d.prev)*3), d.max)
	span := upper - d.initial
	if span <= 0 {
		d.prev = d.initial
		return d.initial
	}

	delay := d.initial + time.Duration(d.rng.Int63n(int64(span)))
	d.prev = delay
	return delay
}

func (d *decorrelatedDelay) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prev = d.initial
}

func calcExponentialDelay(attempt int, initial, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt >= maxShift {
		return maxDelay
	}

	delay := time.Duration(int64(1)<<uint(attempt)) * initial
	if delay > maxDelay || delay < 0 {
		return maxDelay
	}
	return delay
}

func clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
