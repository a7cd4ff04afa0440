// Package retry adds bounded retries, pacing and cancellation on top of a
// concurrent map's single-attempt atomic operations.
//
// A Container supplies four primitives that each try exactly once:
// insert-if-absent, remove-if-present, compare-and-swap replace and lookup.
// The functions in this package call one of those primitives up to an
// attempt budget, optionally pausing between attempts, and stop as soon as
// the primitive reports success or the context is cancelled.
//
// # Basic Usage
//
//	m := cmap.New[string, int]()
//	ok, err := retry.Insert(ctx, m, "jobs", 1)
//	if err != nil {
//	    // precondition violation or cancellation
//	}
//	if !ok {
//	    // budget spent, the key stayed present
//	}
//
// # Outcomes
//
// Every call ends in exactly one of four states:
//
//   - succeeded: the primitive reported success on some attempt
//   - exhausted: every attempt ran and none succeeded (not an error)
//   - precondition: nil container, nil key, budget < 1 or a negative delay;
//     reported as a *PreconditionError before any attempt
//   - cancelled: the context ended before an attempt or during a pause;
//     reported as a *CancelledError
//
// The *Result variants (InsertResult, RemoveResult, ...) return the outcome
// and the number of primitive calls alongside the value.
//
// # Pacing
//
//	retry.Lookup(ctx, m, key,
//	    retry.WithAttempts(5),
//	    retry.WithDelay(20*time.Millisecond), // constant pause between attempts
//	)
//
// The pause never grows on its own. Callers that want growth pass a
// pre-computed schedule:
//
//	retry.Remove(ctx, m, key,
//	    retry.WithDelaySchedule(retry.ExponentialSchedule(5, 10*time.Millisecond, time.Second)...),
//	)
//
// A pause is only taken between attempts, never after the last one.
//
// # Configuration Options
//
//   - WithAttempts(n): attempt budget (default 3)
//   - WithDelay(d): constant pause between attempts (default none)
//   - WithDelaySchedule(ds...): per-gap pauses, the last entry repeats
//   - WithRateLimit(perSecond, burst) / WithRateLimiter(l): pace attempts
//   - WithOnAttempt(fn): hook invoked after every primitive call
//   - WithLogger(l): debug-level attempt logging through log/slog
//   - WithObserver(o): attempt and outcome callbacks (see package metrics)
//   - WithConcurrency(n): fan-out limit for InsertAll, LookupAll and RemoveAll
//
// # Concurrency
//
// All functions are stateless and safe for concurrent use. Safety of the map
// itself is delegated to the Container: the loop never reads and then writes
// outside a single primitive call.
package retry
