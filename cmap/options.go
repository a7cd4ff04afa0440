package cmap

import "runtime"

// Option configures a ShardedMap.
type Option func(*options)

type options struct {
	shards int
}

func defaultOptions() *options {
	return &options{shards: runtime.GOMAXPROCS(0) * 4}
}

// WithShards sets the number of shards. It is rounded up to a power of two.
// Non-positive values keep the default of 4 * GOMAXPROCS.
func WithShards(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shards = n
		}
	}
}

// nextPowerOfTwo returns the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	if n&(n-1) == 0 {
		return n
	}

	power := 1
	for power < n {
		power *= 2
	}
	return power
}
