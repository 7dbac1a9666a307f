package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/proxyops/observe"
)

// State is the lifecycle state of a Janitor.
type State int

const (
	// StateNotStarted means Start has not been called.
	StateNotStarted State = iota
	// StateRunning means the cleanup loop is active.
	StateRunning
	// StateStopping means Stop has signalled the loop to exit.
	StateStopping
	// StateStopped means the loop has exited (or was forced out).
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Default janitor timings.
const (
	DefaultCleanupInterval = 60 * time.Second
	DefaultErrorCooldown   = 5 * time.Second
	DefaultStopGrace       = 5 * time.Second
)

// JanitorConfig configures the background cleanup loop.
type JanitorConfig struct {
	// Interval between cleanup passes. Default: 60s.
	Interval time.Duration

	// ErrorCooldown is the wait after a failed pass before the loop
	// continues, distinct from Interval. Default: 5s.
	ErrorCooldown time.Duration

	// StopGrace is how long Stop waits for a clean exit before forcing
	// cancellation. Default: 5s.
	StopGrace time.Duration
}

// Janitor periodically purges expired entries from one TTLCache.
//
// Lifecycle: not_started -> running -> stopping -> stopped. Start and
// Stop are idempotent; Stop on a never-started janitor is a no-op.
type Janitor struct {
	cache  *TTLCache
	config JanitorConfig
	logger observe.Logger

	mu     sync.Mutex
	state  State
	stop   chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
}

// NewJanitor creates a janitor bound to the given cache.
func NewJanitor(c *TTLCache, cfg JanitorConfig, logger observe.Logger) *Janitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCleanupInterval
	}
	if cfg.ErrorCooldown <= 0 {
		cfg.ErrorCooldown = DefaultErrorCooldown
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = DefaultStopGrace
	}
	if logger == nil {
		logger = observe.Nop()
	}

	return &Janitor{
		cache:  c,
		config: cfg,
		logger: logger.With(observe.Field{Key: "component", Value: "cache.janitor"}),
		state:  StateNotStarted,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (j *Janitor) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Start spawns the cleanup loop. It returns immediately if the janitor is
// already running or has already been stopped.
func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state != StateNotStarted {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.state = StateRunning

	go j.loop(ctx)
	j.logger.Info(ctx, "cache cleanup task started",
		observe.Field{Key: "interval", Value: j.config.Interval.String()})
}

// loop runs cleanup passes until stopped or cancelled.
func (j *Janitor) loop(ctx context.Context) {
	defer close(j.done)

	for {
		wait := j.config.Interval
		if !j.runOnce(ctx) {
			// A failed pass must not kill the loop; back off briefly.
			wait = j.config.ErrorCooldown
		}

		select {
		case <-j.stop:
			return
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// runOnce performs a single cleanup pass, containing any panic from the
// scan so a misbehaving pass cannot crash the loop.
func (j *Janitor) runOnce(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			j.logger.Error(ctx, "cleanup pass failed",
				observe.Field{Key: "error", Value: fmt.Sprint(r)},
				observe.Field{Key: "cooldown", Value: j.config.ErrorCooldown.String()})
		}
	}()

	removed := j.cache.CleanupExpired(ctx)
	j.cache.Metrics().RecordCleanupRun(ctx)
	if removed > 0 {
		j.logger.Debug(ctx, "removed expired cache entries",
			observe.Field{Key: "count", Value: removed})
	}
	return true
}

// Stop signals the loop to exit and waits up to StopGrace for it to do so
// cleanly; past the grace period the loop is forcibly cancelled. Stop on a
// never-started janitor is a no-op, and repeated calls are safe.
func (j *Janitor) Stop() {
	j.mu.Lock()
	switch j.state {
	case StateNotStarted, StateStopped:
		j.mu.Unlock()
		return
	case StateStopping:
		j.mu.Unlock()
		<-j.done
		return
	}
	j.state = StateStopping
	close(j.stop)
	j.mu.Unlock()

	ctx := context.Background()
	select {
	case <-j.done:
	case <-time.After(j.config.StopGrace):
		j.logger.Warn(ctx, "cleanup task did not stop in time, cancelling")
		j.cancel()
		<-j.done
	}

	j.mu.Lock()
	j.state = StateStopped
	j.mu.Unlock()
	j.logger.Info(ctx, "cache cleanup task stopped")
}
