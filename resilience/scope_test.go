package resilience

import (
	"context"
	"errors"
	"testing"
)

// recordingResource tracks acquire/release calls for ordering assertions.
type recordingResource struct {
	name       string
	acquireErr error
	releaseErr error
	log        *[]string
}

func (r *recordingResource) Acquire(ctx context.Context) error {
	if r.acquireErr != nil {
		return r.acquireErr
	}
	*r.log = append(*r.log, "acquire:"+r.name)
	return nil
}

func (r *recordingResource) Release(ctx context.Context) error {
	*r.log = append(*r.log, "release:"+r.name)
	return r.releaseErr
}

func (r *recordingResource) Name() string { return r.name }

func TestScope_EnterExitOrdering(t *testing.T) {
	var log []string
	r1 := &recordingResource{name: "r1", log: &log}
	r2 := &recordingResource{name: "r2", log: &log}

	s := NewScope(nil, r1, r2)
	if err := s.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	s.Exit(context.Background())

	// Acquire in declared order, release in reverse.
	want := []string{"acquire:r1", "acquire:r2", "release:r2", "release:r1"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestScope_AcquireFailureUnwinds(t *testing.T) {
	var log []string
	boom := errors.New("r2 acquire failed")
	r1 := &recordingResource{name: "r1", log: &log}
	r2 := &recordingResource{name: "r2", acquireErr: boom, log: &log}

	s := NewScope(nil, r1, r2)
	err := s.Enter(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Enter() error = %v, want %v", err, boom)
	}

	// r1 was released exactly once during the unwind.
	want := []string{"acquire:r1", "release:r1"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}

	// Exit after a failed Enter releases nothing further.
	s.Exit(context.Background())
	if len(log) != len(want) {
		t.Errorf("Exit after failed Enter released resources again: %v", log)
	}
}

func TestScope_ReleaseErrorDoesNotBlockOthers(t *testing.T) {
	var log []string
	r1 := &recordingResource{name: "r1", log: &log}
	r2 := &recordingResource{name: "r2", releaseErr: errors.New("release failed"), log: &log}

	s := NewScope(nil, r1, r2)
	if err := s.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	s.Exit(context.Background())

	// r2's release error is logged only; r1 is still released.
	want := []string{"acquire:r1", "acquire:r2", "release:r2", "release:r1"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
}

func TestWith_RunsInsideScope(t *testing.T) {
	var log []string
	r1 := &recordingResource{name: "r1", log: &log}

	ran := false
	err := With(context.Background(), nil, func(ctx context.Context) error {
		ran = true
		if len(log) != 1 || log[0] != "acquire:r1" {
			t.Errorf("fn ran before acquisition completed: %v", log)
		}
		return nil
	}, r1)
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	if !ran {
		t.Fatal("fn did not run")
	}
	if log[len(log)-1] != "release:r1" {
		t.Errorf("resource not released after fn: %v", log)
	}
}

func TestWith_FnErrorStillReleases(t *testing.T) {
	var log []string
	r1 := &recordingResource{name: "r1", log: &log}
	fnErr := errors.New("fn failed")

	err := With(context.Background(), nil, func(ctx context.Context) error {
		return fnErr
	}, r1)
	if !errors.Is(err, fnErr) {
		t.Fatalf("With() error = %v, want %v", err, fnErr)
	}
	if log[len(log)-1] != "release:r1" {
		t.Errorf("resource not released after fn error: %v", log)
	}
}

func TestResourceFunc_Defaults(t *testing.T) {
	r := ResourceFunc{}
	if err := r.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() error = %v", err)
	}
	if err := r.Release(context.Background()); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	if r.Name() != "resource" {
		t.Errorf("Name() = %q, want resource", r.Name())
	}
}

func TestAcquireOnly(t *testing.T) {
	acquired := false
	r := AcquireOnly("lock", func(ctx context.Context) error {
		acquired = true
		return nil
	})

	if err := r.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !acquired {
		t.Error("acquire function did not run")
	}
	if err := r.Release(context.Background()); err != nil {
		t.Errorf("no-op Release() error = %v", err)
	}
	if r.Name() != "lock" {
		t.Errorf("Name() = %q, want lock", r.Name())
	}
}
