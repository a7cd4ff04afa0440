package retry

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition matches every *PreconditionError.
	ErrPrecondition = errors.New("retry: precondition violated")

	// ErrCancelled matches every *CancelledError.
	ErrCancelled = errors.New("retry: cancelled")
)

// PreconditionError reports an argument rejected before any attempt was made.
type PreconditionError struct {
	Op     Op
	Arg    string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("retry: %s: invalid argument %q: %s", e.Op, e.Arg, e.Reason)
}

// Is makes errors.Is(err, ErrPrecondition) hold.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// CancelledError reports that the context ended before the call finished.
// Cause is the context error (or the rate limiter's error) that stopped it.
type CancelledError struct {
	Op       Op
	Attempts int
	Cause    error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("retry: %s cancelled after %d attempt(s): %v", e.Op, e.Attempts, e.Cause)
}

// Is makes errors.Is(err, ErrCancelled) hold.
func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// IsCancelled reports whether err stems from a cancelled retry call.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsPrecondition reports whether err is a rejected argument.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}
