package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrInvalidLimit is returned when a concurrency limit is less than one.
	ErrInvalidLimit = errors.New("resilience: concurrency limit must be at least 1")

	// ErrNilOperation is returned when a nil operation is supplied.
	ErrNilOperation = errors.New("resilience: operation is nil")
)
