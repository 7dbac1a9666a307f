// Package resilience provides resilience patterns for expensive or flaky
// operations.
//
// This package implements common resilience patterns that help callers
// handle failures gracefully. The patterns can be composed together to
// build robust execution pipelines.
//
// # Patterns
//
// The package provides the following patterns:
//
//   - Retry: Automatically retries failed operations with exponential
//     backoff.
//
//   - Timeout: Ensures operations complete within a time limit, either
//     surfacing ErrTimeout or substituting a fallback value.
//
//   - Gather: Runs a batch of operations with bounded concurrency,
//     preserving input order in the results.
//
//   - Scope: Acquires an ordered list of resources, unwinding partial
//     acquisitions on failure and releasing everything in reverse order.
//
// # Usage
//
// Each pattern can be used independently or composed together:
//
//	// Create a retry policy
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxRetries:   2,
//	    InitialDelay: 100 * time.Millisecond,
//	    MaxDelay:     5 * time.Second,
//	    Multiplier:   2.0,
//	})
//
//	// Compose patterns
//	executor := resilience.NewExecutor(
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return reloadProxy(ctx)
//	})
package resilience
