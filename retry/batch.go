package retry

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// InsertAll runs Insert for every entry concurrently, at most WithConcurrency
// keys at a time. The returned map reports, per key, whether its value was
// stored. The first precondition or cancellation error stops the remaining
// keys and is returned together with the results gathered so far.
func InsertAll[K comparable, V any](ctx context.Context, c Container[K, V], entries map[K]V, opts ...Option) (map[K]bool, error) {
	var mu sync.Mutex
	out := make(map[K]bool, len(entries))
	err := fanOut(ctx, OpInsert, c, entries, opts, func(ctx context.Context, key K, value V) error {
		ok, err := Insert(ctx, c, key, value, opts...)
		if err != nil {
			return err
		}
		mu.Lock()
		out[key] = ok
		mu.Unlock()
		return nil
	})
	return out, err
}

// LookupAll runs Lookup for every key concurrently and returns the values of
// the keys that were found within the budget.
func LookupAll[K comparable, V any](ctx context.Context, c Container[K, V], keys []K, opts ...Option) (map[K]V, error) {
	var mu sync.Mutex
	out := make(map[K]V, len(keys))
	err := fanOut(ctx, OpLookup, c, asSet(keys), opts, func(ctx context.Context, key K, _ struct{}) error {
		value, ok, err := Lookup(ctx, c, key, opts...)
		if err != nil || !ok {
			return err
		}
		mu.Lock()
		out[key] = value
		mu.Unlock()
		return nil
	})
	return out, err
}

// RemoveAll runs Remove for every key concurrently and returns the values of
// the keys it removed within the budget.
func RemoveAll[K comparable, V any](ctx context.Context, c Container[K, V], keys []K, opts ...Option) (map[K]V, error) {
	var mu sync.Mutex
	out := make(map[K]V, len(keys))
	err := fanOut(ctx, OpRemove, c, asSet(keys), opts, func(ctx context.Context, key K, _ struct{}) error {
		value, ok, err := Remove(ctx, c, key, opts...)
		if err != nil || !ok {
			return err
		}
		mu.Lock()
		out[key] = value
		mu.Unlock()
		return nil
	})
	return out, err
}

func fanOut[K comparable, V, T any](
	ctx context.Context,
	op Op,
	c Container[K, V],
	items map[K]T,
	opts []Option,
	fn func(ctx context.Context, key K, item T) error,
) error {
	cfg := newConfig(opts)
	if isNil(c) {
		cfg.observeOutcome(op, OutcomePrecondition, 0, 0)
		return &PreconditionError{Op: op, Arg: "container", Reason: "must not be nil"}
	}
	if err := validateConfig(op, cfg); err != nil {
		cfg.observeOutcome(op, OutcomePrecondition, 0, 0)
		return err
	}

	if len(items) == 0 {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	stopped := false
	for key, item := range items {
		if gctx.Err() != nil {
			stopped = true
			break
		}
		g.Go(func() error {
			return fn(gctx, key, item)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// keys skipped after the parent context ended
	if stopped {
		return &CancelledError{Op: op, Cause: context.Cause(gctx)}
	}
	return nil
}

func asSet[K comparable](keys []K) map[K]struct{} {
	set := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
