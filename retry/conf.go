package retry

import (
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/time/rate"
)

// Option is a functional option for configuring a retried call.
type Option func(*config)

// Observer receives attempt and outcome notifications.
// Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveAttempt is called after every primitive call.
	// attempt is 1-indexed.
	ObserveAttempt(op Op, attempt int, ok bool)

	// ObserveOutcome is called once per call with its terminal state.
	ObserveOutcome(op Op, outcome Outcome, attempts int, elapsed time.Duration)
}

type config struct {
	attempts    int
	delay       time.Duration
	schedule    []time.Duration
	limiter     *rate.Limiter
	onAttempt   func(op Op, attempt int, ok bool)
	logger      *slog.Logger
	observer    Observer
	concurrency int
}

func newConfig(opts []Option) *config {
	cfg := &config{
		attempts:    DefaultAttempts,
		concurrency: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return cfg
}

// WithAttempts sets the maximum number of primitive calls for one operation.
// A budget below 1 is a programming error and makes the call fail with a
// *PreconditionError.
func WithAttempts(n int) Option {
	return func(cfg *config) {
		cfg.attempts = n
	}
}

// WithDelay sets a constant pause taken between attempts.
// The pause is never taken after the final attempt. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(cfg *config) {
		cfg.delay = d
		cfg.schedule = nil
	}
}

// WithDelaySchedule sets the pause taken after each failed attempt:
// ds[0] after the first, ds[1] after the second and so on. When the budget
// outlasts the schedule the last entry repeats. It replaces WithDelay.
//
// Example:
//
//	WithDelaySchedule(ExponentialSchedule(5, 10*time.Millisecond, time.Second)...)
func WithDelaySchedule(ds ...time.Duration) Option {
	return func(cfg *config) {
		cfg.schedule = slices.Clone(ds)
		cfg.delay = 0
	}
}

// WithRateLimiter paces attempts through a shared limiter.
// Every attempt waits for a token; the wait is cancelled with the context.
// The limiter is owned by the caller and may be shared across calls. A
// limiter with a finite rate and a burst below 1 is rejected as a precondition.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(cfg *config) {
		cfg.limiter = l
	}
}

// WithRateLimit paces attempts of this call to attemptsPerSecond with the given burst.
// Invalid values leave pacing disabled.
func WithRateLimit(attemptsPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if attemptsPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(attemptsPerSecond), burst)
		}
	}
}

// WithOnAttempt registers a hook invoked after every primitive call with the
// 1-indexed attempt number and whether that attempt succeeded.
func WithOnAttempt(fn func(op Op, attempt int, ok bool)) Option {
	return func(cfg *config) {
		cfg.onAttempt = fn
	}
}

// WithLogger logs every attempt at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithObserver reports attempts and outcomes to o.
func WithObserver(o Observer) Option {
	return func(cfg *config) {
		cfg.observer = o
	}
}

// WithConcurrency bounds how many keys InsertAll, LookupAll and RemoveAll
// work on at once. Defaults to runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.concurrency = n
		}
	}
}

// delayAfter returns the pause that follows the 0-indexed failed attempt.
func (cfg *config) delayAfter(attempt int) time.Duration {
	if len(cfg.schedule) > 0 {
		return cfg.schedule[min(attempt, len(cfg.schedule)-1)]
	}
	return cfg.delay
}
