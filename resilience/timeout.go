package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout wraps operations with a timeout.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Timeout{config: config}
}

// Execute runs the operation with a timeout.
//
// The operation receives a context that is cancelled when the deadline
// expires, so a well-behaved operation stops shortly after Execute
// returns ErrTimeout.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	if op == nil {
		return ErrNilOperation
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout is a convenience function to run an operation with timeout.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return t.Execute(ctx, op)
}

// WithFallback runs a value-returning operation under a deadline,
// substituting fallback when the deadline expires.
//
// A timeout is not an error: the fallback value is returned with a nil
// error. Any other failure from the operation propagates unchanged. The
// operation's context is cancelled on timeout so it does not keep running
// unbounded after the call returns; its eventual result is drained through
// a buffered channel.
func WithFallback[T any](ctx context.Context, timeout time.Duration, fallback T, op func(context.Context) (T, error)) (T, error) {
	if op == nil {
		var zero T
		return zero, ErrNilOperation
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err := op(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			var zero T
			return zero, out.err
		}
		return out.value, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fallback, nil
		}
		var zero T
		return zero, ctx.Err()
	}
}
