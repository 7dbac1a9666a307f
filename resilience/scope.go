package resilience

import (
	"context"
	"fmt"

	"github.com/jonwraymond/proxyops/observe"
)

// Resource is a scoped resource with paired acquire/release operations.
//
// Contract:
// - Acquire and Release are always paired: a successfully acquired
//   resource is released exactly once, even when a later acquisition fails.
// - Release must be safe to call after a successful Acquire in any
//   process state; its error is logged, never propagated.
type Resource interface {
	// Acquire obtains the resource.
	Acquire(ctx context.Context) error

	// Release gives the resource back.
	Release(ctx context.Context) error

	// Name identifies the resource in logs.
	Name() string
}

// ResourceFunc adapts a pair of functions into a Resource.
type ResourceFunc struct {
	ResourceName string
	AcquireFunc  func(ctx context.Context) error
	ReleaseFunc  func(ctx context.Context) error
}

func (r ResourceFunc) Acquire(ctx context.Context) error {
	if r.AcquireFunc == nil {
		return nil
	}
	return r.AcquireFunc(ctx)
}

func (r ResourceFunc) Release(ctx context.Context) error {
	if r.ReleaseFunc == nil {
		return nil
	}
	return r.ReleaseFunc(ctx)
}

func (r ResourceFunc) Name() string {
	if r.ResourceName == "" {
		return "resource"
	}
	return r.ResourceName
}

// AcquireOnly wraps an acquire function into a Resource with a no-op
// release, for resources that need no teardown.
func AcquireOnly(name string, acquire func(ctx context.Context) error) Resource {
	return ResourceFunc{ResourceName: name, AcquireFunc: acquire}
}

// Scope acquires an ordered list of resources and releases them in
// reverse order.
//
// A Scope is single-use: Enter then Exit once. It is not safe for
// concurrent use; each caller owns its own Scope.
type Scope struct {
	resources []Resource
	entered   []Resource // stack of successfully acquired resources
	logger    observe.Logger
}

// NewScope creates a scope over the given resources. Acquisition follows
// declaration order.
func NewScope(logger observe.Logger, resources ...Resource) *Scope {
	if logger == nil {
		logger = observe.Nop()
	}
	return &Scope{
		resources: resources,
		entered:   make([]Resource, 0, len(resources)),
		logger:    logger,
	}
}

// Enter acquires every resource in order. If an acquisition fails, the
// resources acquired so far are released in reverse order (release errors
// are logged, not propagated) and the original acquisition error is
// returned.
func (s *Scope) Enter(ctx context.Context) error {
	for _, r := range s.resources {
		if err := r.Acquire(ctx); err != nil {
			s.unwind(ctx)
			return fmt.Errorf("resilience: acquire %s: %w", r.Name(), err)
		}
		s.entered = append(s.entered, r)
	}
	return nil
}

// Exit releases every entered resource in reverse order. A release error
// on one resource is logged and does not prevent releasing the rest.
func (s *Scope) Exit(ctx context.Context) {
	s.unwind(ctx)
}

func (s *Scope) unwind(ctx context.Context) {
	for i := len(s.entered) - 1; i >= 0; i-- {
		r := s.entered[i]
		if err := r.Release(ctx); err != nil {
			s.logger.Warn(ctx, "resource release failed",
				observe.Field{Key: "resource", Value: r.Name()},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
	s.entered = s.entered[:0]
}

// With runs fn inside a scope over the given resources: Enter, fn, Exit.
// The resources are released even when fn fails or panics.
func With(ctx context.Context, logger observe.Logger, fn func(ctx context.Context) error, resources ...Resource) error {
	s := NewScope(logger, resources...)
	if err := s.Enter(ctx); err != nil {
		return err
	}
	defer s.Exit(ctx)
	return fn(ctx)
}
