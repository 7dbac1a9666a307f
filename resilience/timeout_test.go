package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout_Defaults(t *testing.T) {
	to := NewTimeout(TimeoutConfig{})
	if to.Config().Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", to.Config().Timeout)
	}
}

func TestTimeout_CompletesInTime(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestTimeout_Expires(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 20 * time.Millisecond})

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
}

func TestTimeout_OperationErrorPropagates(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})
	opErr := errors.New("operation failed")

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		return opErr
	})
	if !errors.Is(err, opErr) {
		t.Errorf("Execute() error = %v, want %v", err, opErr)
	}
}

func TestWithFallback_CompletesInTime(t *testing.T) {
	got, err := WithFallback(context.Background(), time.Second, "fallback",
		func(ctx context.Context) (string, error) {
			return "real", nil
		})
	if err != nil {
		t.Fatalf("WithFallback() error = %v", err)
	}
	if got != "real" {
		t.Errorf("WithFallback() = %q, want real", got)
	}
}

func TestWithFallback_TimeoutSubstitutesFallback(t *testing.T) {
	got, err := WithFallback(context.Background(), 20*time.Millisecond, "fallback",
		func(ctx context.Context) (string, error) {
			select {
			case <-time.After(time.Second):
				return "real", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})

	// A timeout is not an error.
	if err != nil {
		t.Fatalf("WithFallback() error = %v, want nil", err)
	}
	if got != "fallback" {
		t.Errorf("WithFallback() = %q, want fallback", got)
	}
}

func TestWithFallback_OperationErrorPropagates(t *testing.T) {
	opErr := errors.New("operation failed")
	_, err := WithFallback(context.Background(), time.Second, 0,
		func(ctx context.Context) (int, error) {
			return 0, opErr
		})
	if !errors.Is(err, opErr) {
		t.Errorf("WithFallback() error = %v, want %v", err, opErr)
	}
}

func TestWithFallback_OperationStopsAfterTimeout(t *testing.T) {
	stopped := make(chan struct{})

	_, err := WithFallback(context.Background(), 20*time.Millisecond, -1,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			close(stopped)
			return 0, ctx.Err()
		})
	if err != nil {
		t.Fatalf("WithFallback() error = %v", err)
	}

	// The operation's context was cancelled, so it winds down instead of
	// running indefinitely.
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Error("operation kept running after the call returned")
	}
}

func TestExecuteWithTimeout(t *testing.T) {
	err := ExecuteWithTimeout(context.Background(), time.Second, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("ExecuteWithTimeout() error = %v", err)
	}
}
