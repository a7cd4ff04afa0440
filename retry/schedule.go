package retry

import (
	"time"

	"github.com/utkarsh5026/mapretry/internal/algorithms"
)

// ConstantSchedule returns attempts-1 copies of d.
func ConstantSchedule(attempts int, d time.Duration) []time.Duration {
	return algorithms.Schedule(algorithms.NewDelayStrategy(algorithms.DelayConstant, d, d, 0), attempts)
}

// ExponentialSchedule returns the pauses for attempts attempts, doubling from
// initial and capped at maxDelay: initial, 2*initial, 4*initial, ...
func ExponentialSchedule(attempts int, initial, maxDelay time.Duration) []time.Duration {
	return algorithms.Schedule(algorithms.NewDelayStrategy(algorithms.DelayExponential, initial, maxDelay, 0), attempts)
}

// JitteredSchedule is ExponentialSchedule with every pause scaled by a random
// factor in [1-jitter, 1+jitter]. jitter is clamped to [0, 1].
func JitteredSchedule(attempts int, initial, maxDelay time.Duration, jitter float64) []time.Duration {
	return algorithms.Schedule(algorithms.NewDelayStrategy(algorithms.DelayJittered, initial, maxDelay, jitter), attempts)
}

// DecorrelatedSchedule returns decorrelated-jitter pauses: each one is drawn
// from [initial, 3*previous] and capped at maxDelay.
func DecorrelatedSchedule(attempts int, initial, maxDelay time.Duration) []time.Duration {
	return algorithms.Schedule(algorithms.NewDelayStrategy(algorithms.DelayDecorrelated, initial, maxDelay, 0), attempts)
}
