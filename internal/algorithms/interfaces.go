package algorithms

import "time"

// DelayStrategy computes the pause between two attempts of a retried map operation.
//
// The retry loop itself never grows its delay. Strategies exist so callers can
// materialise a growing schedule up front (see Schedule) and hand the result
// to the loop as a fixed list of pauses.
type DelayStrategy interface {
	// NextDelay returns the pause that follows the given 0-indexed failed attempt.
	NextDelay(attempt int) time.Duration

	// Reset clears any state carried between calls (decorrelated jitter keeps
	// the previous delay).
	Reset()
}
