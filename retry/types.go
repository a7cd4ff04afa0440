package retry

// DefaultAttempts is the attempt budget used when WithAttempts is not given.
const DefaultAttempts = 3

// Container is a concurrent map exposing single-attempt atomic primitives.
// Implementations must be safe for concurrent use; none of the methods may block.
//
// Type parameters:
//   - K: The key type
//   - V: The value type
type Container[K comparable, V any] interface {
	// TryInsert stores value under key if the key is absent and reports
	// whether it did.
	TryInsert(key K, value V) bool

	// TryRemove deletes key if present and returns the value it held.
	TryRemove(key K) (V, bool)

	// TryReplace stores newValue under key only if the current value equals
	// expected, and reports whether the swap happened.
	TryReplace(key K, newValue, expected V) bool

	// TryLookup returns the value stored under key and whether it is present.
	TryLookup(key K) (V, bool)
}

// Op names the map operation being retried.
type Op int

const (
	OpInsert Op = iota
	OpRemove
	OpReplace
	OpLookup
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpLookup:
		return "lookup"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one retried call.
type Outcome int

const (
	// OutcomeExhausted means every attempt ran without success.
	OutcomeExhausted Outcome = iota
	// OutcomeSucceeded means a primitive call reported success.
	OutcomeSucceeded
	// OutcomePrecondition means the arguments were rejected before any attempt.
	OutcomePrecondition
	// OutcomeCancelled means the context ended before the call could finish.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomePrecondition:
		return "precondition"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the detailed outcome of a retried call.
//
// Fields:
//   - Value: The payload of the successful attempt (removed or found value).
//     Zero unless Outcome is OutcomeSucceeded.
//   - Outcome: How the call ended
//   - Attempts: Number of primitive calls made
type Result[V any] struct {
	Value    V
	Outcome  Outcome
	Attempts int
}

// Succeeded reports whether the call ended with a successful attempt.
func (r Result[V]) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded
}
