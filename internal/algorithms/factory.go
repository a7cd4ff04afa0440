package algorithms

import "time"

// DelayType selects a DelayStrategy implementation.
type DelayType int

const (
	// DelayConstant pauses for the same duration between every attempt.
	DelayConstant DelayType = iota
	// DelayExponential doubles the pause after every attempt.
	DelayExponential
	// DelayJittered is exponential growth with a random ± jitter factor.
	DelayJittered
	// DelayDecorrelated uses AWS-style decorrelated jitter.
	DelayDecorrelated
)

// String returns the lowercase name of the delay type.
func (t DelayType) String() string {
	switch t {
	case DelayConstant:
		return "constant"
	case DelayExponential:
		return "exponential"
	case DelayJittered:
		return "jittered"
	case DelayDecorrelated:
		return "decorrelated"
	default:
		return "unknown"
	}
}

// NewDelayStrategy builds the strategy for delayType.
// maxDelay and jitterFactor are ignored by strategies that do not use them.
func NewDelayStrategy(
	delayType DelayType,
	initialDelay, maxDelay time.Duration,
	jitterFactor float64,
) DelayStrategy {
	switch delayType {
	case DelayExponential:
		return newExponentialDelay(initialDelay, maxDelay)

	case DelayJittered:
		return newJitteredDelay(initialDelay, maxDelay, jitterFactor)

	case DelayDecorrelated:
		return newDecorrelatedDelay(initialDelay, maxDelay)

	default:
		return constantDelay(initialDelay)
	}
}

// Schedule materialises the pauses a strategy would produce for a budget of
// attempts. The result has attempts-1 entries, one per gap between attempts.
// A budget below 2 has no gaps and yields an empty schedule.
func Schedule(s DelayStrategy, attempts int) []time.Duration {
	if attempts < 2 {
		return []time.Duration{}
	}

	s.Reset()
	out := make([]time.Duration, attempts-1)
	for i := range out {
		out[i] = s.NextDelay(i)
	}
	return out
}
