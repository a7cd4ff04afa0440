package retry

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/time/rate"
)

// attemptFunc invokes a single-attempt primitive exactly once.
type attemptFunc[V any] func() (V, bool)

// execute validates the arguments and runs the retry loop for one call.
func execute[V any](
	ctx context.Context,
	op Op,
	container, key any,
	opts []Option,
	attempt attemptFunc[V],
) (Result[V], error) {
	cfg := newConfig(opts)
	start := time.Now()

	if err := validate(op, cfg, container, key); err != nil {
		cfg.observeOutcome(op, OutcomePrecondition, 0, time.Since(start))
		return Result[V]{Outcome: OutcomePrecondition}, err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	res, err := runLoop(ctx, op, cfg, attempt)
	cfg.observeOutcome(op, res.Outcome, res.Attempts, time.Since(start))
	return res, err
}

// runLoop calls attempt up to cfg.attempts times. The context is checked
// before every call and observed during every pause; a primitive call that
// has started always completes.
func runLoop[V any](ctx context.Context, op Op, cfg *config, attempt attemptFunc[V]) (Result[V], error) {
	for i := range cfg.attempts {
		if err := ctx.Err(); err != nil {
			return cancelled[V](op, i, context.Cause(ctx))
		}

		if cfg.limiter != nil {
			if err := waitToken(ctx, op, cfg.limiter); err != nil {
				if IsPrecondition(err) {
					return Result[V]{Outcome: OutcomePrecondition, Attempts: i}, err
				}
				return cancelled[V](op, i, err)
			}
		}

		value, ok := attempt()
		cfg.observeAttempt(op, i+1, ok)
		if ok {
			return Result[V]{Value: value, Outcome: OutcomeSucceeded, Attempts: i + 1}, nil
		}

		if i == cfg.attempts-1 {
			break
		}

		if d := cfg.delayAfter(i); d > 0 {
			if err := sleep(ctx, d); err != nil {
				return cancelled[V](op, i+1, err)
			}
		}
	}

	debugLog("%s exhausted after %d attempts", op, cfg.attempts)
	return Result[V]{Outcome: OutcomeExhausted, Attempts: cfg.attempts}, nil
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}

// waitToken reserves one token from l and sleeps until it is due. Unlike
// rate.Limiter.Wait it does not fail early when the delay outlasts the
// context deadline; it waits for the deadline so the error is the
// context's own cause.
func waitToken(ctx context.Context, op Op, l *rate.Limiter) error {
	r := l.Reserve()
	if !r.OK() {
		return &PreconditionError{Op: op, Arg: "limiter", Reason: "cannot grant a token"}
	}
	d := r.Delay()
	if d <= 0 {
		return nil
	}
	if err := sleep(ctx, d); err != nil {
		r.Cancel()
		return err
	}
	return nil
}

func cancelled[V any](op Op, attempts int, cause error) (Result[V], error) {
	debugLog("%s cancelled after %d attempts: %v", op, attempts, cause)
	return Result[V]{Outcome: OutcomeCancelled, Attempts: attempts},
		&CancelledError{Op: op, Attempts: attempts, Cause: cause}
}

func validate(op Op, cfg *config, container, key any) error {
	if isNil(container) {
		return &PreconditionError{Op: op, Arg: "container", Reason: "must not be nil"}
	}
	if isNil(key) {
		return &PreconditionError{Op: op, Arg: "key", Reason: "must not be nil"}
	}
	return validateConfig(op, cfg)
}

func validateConfig(op Op, cfg *config) error {
	if cfg.attempts < 1 {
		return &PreconditionError{
			Op:     op,
			Arg:    "attempts",
			Reason: fmt.Sprintf("must be at least 1, got %d", cfg.attempts),
		}
	}
	if cfg.delay < 0 {
		return &PreconditionError{Op: op, Arg: "delay", Reason: fmt.Sprintf("must not be negative, got %v", cfg.delay)}
	}
	if l := cfg.limiter; l != nil && l.Limit() != rate.Inf && l.Burst() < 1 {
		return &PreconditionError{
			Op:     op,
			Arg:    "limiter",
			Reason: fmt.Sprintf("burst must be at least 1, got %d", l.Burst()),
		}
	}
	for i, d := range cfg.schedule {
		if d < 0 {
			return &PreconditionError{
				Op:     op,
				Arg:    "delay",
				Reason: fmt.Sprintf("schedule entry %d must not be negative, got %v", i, d),
			}
		}
	}
	return nil
}

// isNil reports whether v is nil or a typed nil of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

func (cfg *config) observeAttempt(op Op, attempt int, ok bool) {
	if cfg.logger != nil {
		cfg.logger.Debug("map operation attempt",
			"op", op.String(),
			"attempt", attempt,
			"budget", cfg.attempts,
			"ok", ok,
		)
	}
	if cfg.onAttempt != nil {
		cfg.onAttempt(op, attempt, ok)
	}
	if cfg.observer != nil {
		cfg.observer.ObserveAttempt(op, attempt, ok)
	}
}

func (cfg *config) observeOutcome(op Op, outcome Outcome, attempts int, elapsed time.Duration) {
	if cfg.observer != nil {
		cfg.observer.ObserveOutcome(op, outcome, attempts, elapsed)
	}
}
