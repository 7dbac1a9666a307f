package cache

import (
	"sync"

	"github.com/jonwraymond/proxyops/observe"
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Cache   Config
	Janitor JanitorConfig
	Logger  observe.Logger
}

// Manager owns the process-wide cache and its cleanup task.
//
// It is the explicit handle consumers receive by injection instead of
// reaching for a package-level global: construct one at process start,
// call Init, pass it down, and call Shutdown on the way out.
type Manager struct {
	cache   *TTLCache
	janitor *Janitor

	mu      sync.Mutex
	started bool
}

// NewManager builds one TTLCache and one Janitor bound to it.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = observe.Nop()
	}
	if cfg.Cache.Logger == nil {
		cfg.Cache.Logger = cfg.Logger
	}

	c := New(cfg.Cache)
	return &Manager{
		cache:   c,
		janitor: NewJanitor(c, cfg.Janitor, cfg.Logger),
	}
}

// Cache returns the shared cache instance.
func (m *Manager) Cache() *TTLCache {
	return m.cache
}

// Janitor returns the cleanup task bound to the shared cache.
func (m *Manager) Janitor() *Janitor {
	return m.janitor
}

// Init starts the background cleanup task. Safe to call multiple times.
func (m *Manager) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.janitor.Start()
	m.started = true
}

// Shutdown stops the background cleanup task. Safe to call multiple
// times, and a no-op if Init was never called.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return
	}
	m.janitor.Stop()
	m.started = false
}

// InvalidateConfig removes every cached operation for the named config
// (pattern config:*:<name>) and returns the count removed.
func (m *Manager) InvalidateConfig(name string) (int, error) {
	return m.cache.InvalidatePattern("config:*:" + name)
}

// InvalidateLists removes every cached listing (pattern list:*) and
// returns the count removed.
func (m *Manager) InvalidateLists() (int, error) {
	return m.cache.InvalidatePattern("list:*")
}
