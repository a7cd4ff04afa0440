package retry

import "context"

// Insert stores value under key if the key is absent, retrying up to the
// attempt budget while the key stays present.
//
// It returns true if some attempt stored the value and false once the budget
// is spent. An existing value is never overwritten. A non-nil error is either
// a *PreconditionError or a *CancelledError.
func Insert[K comparable, V any](ctx context.Context, c Container[K, V], key K, value V, opts ...Option) (bool, error) {
	res, err := InsertResult(ctx, c, key, value, opts...)
	return res.Succeeded(), err
}

// InsertResult is Insert returning the detailed Result.
func InsertResult[K comparable, V any](ctx context.Context, c Container[K, V], key K, value V, opts ...Option) (Result[V], error) {
	return execute[V](ctx, OpInsert, c, key, opts, func() (V, bool) {
		var zero V
		return zero, c.TryInsert(key, value)
	})
}

// Remove deletes key if present, retrying up to the attempt budget while the
// key stays absent. On success it returns the removed value; on exhaustion it
// returns the zero value and false.
func Remove[K comparable, V any](ctx context.Context, c Container[K, V], key K, opts ...Option) (V, bool, error) {
	res, err := RemoveResult(ctx, c, key, opts...)
	return res.Value, res.Succeeded(), err
}

// RemoveResult is Remove returning the detailed Result.
func RemoveResult[K comparable, V any](ctx context.Context, c Container[K, V], key K, opts ...Option) (Result[V], error) {
	return execute[V](ctx, OpRemove, c, key, opts, func() (V, bool) {
		return c.TryRemove(key)
	})
}

// Replace swaps the value under key for newValue when the current value
// equals expected, retrying up to the attempt budget until it does.
// A value that never matches leaves the map untouched.
func Replace[K comparable, V any](ctx context.Context, c Container[K, V], key K, newValue, expected V, opts ...Option) (bool, error) {
	res, err := ReplaceResult(ctx, c, key, newValue, expected, opts...)
	return res.Succeeded(), err
}

// ReplaceResult is Replace returning the detailed Result.
func ReplaceResult[K comparable, V any](ctx context.Context, c Container[K, V], key K, newValue, expected V, opts ...Option) (Result[V], error) {
	return execute[V](ctx, OpReplace, c, key, opts, func() (V, bool) {
		var zero V
		return zero, c.TryReplace(key, newValue, expected)
	})
}

// Lookup returns the value stored under key, retrying up to the attempt budget
// while the key is absent. A key explicitly mapped to a zero or nil value is
// found and reported as such.
func Lookup[K comparable, V any](ctx context.Context, c Container[K, V], key K, opts ...Option) (V, bool, error) {
	res, err := LookupResult(ctx, c, key, opts...)
	return res.Value, res.Succeeded(), err
}

// LookupResult is Lookup returning the detailed Result.
func LookupResult[K comparable, V any](ctx context.Context, c Container[K, V], key K, opts ...Option) (Result[V], error) {
	return execute[V](ctx, OpLookup, c, key, opts, func() (V, bool) {
		return c.TryLookup(key)
	})
}
