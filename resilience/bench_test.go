package resilience

import (
	"context"
	"testing"
	"time"
)

func BenchmarkRetry_Success(b *testing.B) {
	r := NewRetry(RetryConfig{MaxRetries: 2})
	op := func(ctx context.Context) error { return nil }
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Execute(ctx, op)
	}
}

func BenchmarkTimeout_Success(b *testing.B) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})
	op := func(ctx context.Context) error { return nil }
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		to.Execute(ctx, op)
	}
}

func BenchmarkGather(b *testing.B) {
	ops := make([]func(context.Context) (int, error), 16)
	for i := range ops {
		ops[i] = func(ctx context.Context) (int, error) { return i, nil }
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Gather(ctx, ops, 4)
	}
}
