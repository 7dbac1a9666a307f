package resilience

import (
	"context"
	"math"
	"time"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt,
	// so an operation runs at most MaxRetries+1 times.
	// Default: 2
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the maximum delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry implements retry with exponential backoff.
//
// No jitter is applied; callers that need jitter compose it externally
// through OnRetry or a wrapping operation.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxRetries <= 0 {
		config.MaxRetries = 2
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs the operation with retry logic.
//
// On terminal failure the last error from the operation is returned;
// a failure is never swallowed.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	if op == nil {
		return ErrNilOperation
	}

	var lastErr error
	attempts := r.config.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)

		if err == nil {
			return nil
		}

		lastErr = err

		// Check if we should retry
		if !r.config.RetryIf(err) {
			return err
		}

		// Don't retry if this was the last attempt
		if attempt >= attempts {
			break
		}

		// Delay before retry i is min(initial * multiplier^(i-1), max)
		delay := r.calculateDelay(attempt)

		// Callback before retry
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		// Wait for delay or context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// Continue to next attempt
		}
	}

	return lastErr
}

func (r *Retry) calculateDelay(attempt int) time.Duration {
	multiplier := math.Pow(r.config.Multiplier, float64(attempt-1))
	delay := time.Duration(float64(r.config.InitialDelay) * multiplier)

	// Cap at max delay
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

// Value runs a value-returning operation under the retry policy.
//
// The zero value of T is returned alongside the terminal error when all
// attempts are exhausted.
func Value[T any](ctx context.Context, r *Retry, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
