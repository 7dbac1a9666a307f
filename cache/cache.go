package cache

import (
	"context"
	"sync"
	"time"

	"github.com/agilira/go-timecache"

	"github.com/jonwraymond/proxyops/observe"
)

// Default configuration values.
const (
	DefaultTTL     = 5 * time.Minute
	DefaultMaxSize = 1000
)

// Config configures a TTLCache.
type Config struct {
	// DefaultTTL is the TTL applied when Set or GetOrSet is called with a
	// zero TTL. Default: 5 minutes.
	DefaultTTL time.Duration

	// MaxSize bounds the number of entries. Inserting a new key at
	// capacity evicts the least recently used entry. Default: 1000.
	MaxSize int

	// Clock supplies the current time. Defaults to the cached system
	// clock. Tests inject a manual clock here.
	Clock func() time.Time

	// Logger for cache events. Defaults to a no-op logger.
	Logger observe.Logger

	// Metrics records hits, misses, evictions and expirations. Optional.
	Metrics *observe.CacheMetrics
}

// entry is a single cached value with its expiry bookkeeping.
type entry struct {
	value     any
	ttl       time.Duration
	createdAt time.Time
}

// expired reports whether the entry is past its TTL at now.
func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) >= e.ttl
}

// TTLCache is a concurrency-safe mapping from string key to arbitrary
// value with per-entry TTL and LRU eviction at a size cap.
//
// One coarse mutex guards all state, and GetOrSet holds it across the
// compute function. That serializes all cache traffic while any compute
// is running, which guarantees a factory runs at most once per miss
// window at the cost of blocking unrelated keys during a slow compute.
type TTLCache struct {
	mu          sync.Mutex
	entries     map[string]*entry
	accessTimes map[string]time.Time

	defaultTTL time.Duration
	maxSize    int
	clock      func() time.Time
	logger     observe.Logger
	metrics    *observe.CacheMetrics
}

// New creates a TTLCache with the given configuration.
func New(cfg Config) *TTLCache {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.Clock == nil {
		cfg.Clock = cachedClock
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.Nop()
	}

	return &TTLCache{
		entries:     make(map[string]*entry),
		accessTimes: make(map[string]time.Time),
		defaultTTL:  cfg.DefaultTTL,
		maxSize:     cfg.MaxSize,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// cachedClock reads the cached system clock instead of calling time.Now
// on every cache operation.
func cachedClock() time.Time {
	return time.Unix(0, timecache.CachedTimeNano())
}

// Get retrieves a value. Returns (nil, false) on miss or expiry; an
// expired entry is purged as a side effect. A hit refreshes the entry's
// last-access time.
func (c *TTLCache) Get(ctx context.Context, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	e, ok := c.entries[key]
	if !ok {
		c.metrics.RecordMiss(ctx)
		return nil, false
	}
	if e.expired(now) {
		c.removeLocked(key)
		c.metrics.RecordExpirations(ctx, 1)
		c.metrics.RecordMiss(ctx)
		return nil, false
	}

	c.accessTimes[key] = now
	c.metrics.RecordHit(ctx)
	return e.value, true
}

// Set inserts or overwrites a value. A zero or negative ttl means the
// cache default. Inserting a new key at capacity first evicts the entry
// with the smallest last-access time.
func (c *TTLCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setLocked(ctx, key, value, ttl)
	return nil
}

// setLocked stores key=value, evicting if needed. Caller holds c.mu.
func (c *TTLCache) setLocked(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	now := c.clock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLRULocked(ctx)
	}

	c.entries[key] = &entry{
		value:     value,
		ttl:       ttl,
		createdAt: now,
	}
	c.accessTimes[key] = now
}

// evictLRULocked removes the entry with the oldest last-access time.
// O(n) over current entries; acceptable at the target size of hundreds
// to thousands, so no ordering index is maintained beyond the timestamp
// map. Caller holds c.mu.
func (c *TTLCache) evictLRULocked(ctx context.Context) {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for key, at := range c.accessTimes {
		if !found || at.Before(oldest) {
			victim = key
			oldest = at
			found = true
		}
	}
	if !found {
		return
	}

	c.removeLocked(victim)
	c.metrics.RecordEviction(ctx)
	c.logger.Debug(ctx, "evicted least recently used entry",
		observe.Field{Key: "key", Value: victim})
}

// removeLocked drops key from both maps. Caller holds c.mu.
func (c *TTLCache) removeLocked(key string) {
	delete(c.entries, key)
	delete(c.accessTimes, key)
}

// GetOrSet returns the cached value for key, computing and storing it on
// a miss. The compute function runs while the cache mutex is held, so at
// most one compute runs at a time across all keys and a factory runs at
// most once per miss window. If compute fails, nothing is cached and the
// error propagates to the caller that triggered it.
func (c *TTLCache) GetOrSet(ctx context.Context, key string, compute func(ctx context.Context) (any, error), ttl time.Duration) (any, error) {
	if compute == nil {
		return nil, ErrNilCompute
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if e, ok := c.entries[key]; ok && !e.expired(now) {
		c.accessTimes[key] = now
		c.metrics.RecordHit(ctx)
		return e.value, nil
	}
	c.metrics.RecordMiss(ctx)

	start := time.Now()
	value, err := compute(ctx)
	c.metrics.RecordCompute(ctx, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.setLocked(ctx, key, value, ttl)
	return value, nil
}

// CleanupExpired scans all entries and removes those past their TTL,
// returning the number removed.
func (c *TTLCache) CleanupExpired(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(key)
			removed++
		}
	}

	c.metrics.RecordExpirations(ctx, removed)
	return removed
}

// Stats is a read-only snapshot of cache state.
type Stats struct {
	// Total is the number of stored entries, expired or not.
	Total int

	// Active is the number of entries that have not expired.
	Active int

	// Expired is the number of entries past their TTL but not yet purged.
	Expired int

	// MaxSize is the configured entry cap.
	MaxSize int

	// DefaultTTL is the TTL applied when none is given.
	DefaultTTL time.Duration
}

// Stats returns a snapshot without mutating or evicting anything.
func (c *TTLCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	expired := 0
	for _, e := range c.entries {
		if e.expired(now) {
			expired++
		}
	}

	return Stats{
		Total:      len(c.entries),
		Active:     len(c.entries) - expired,
		Expired:    expired,
		MaxSize:    c.maxSize,
		DefaultTTL: c.defaultTTL,
	}
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DefaultTTL returns the cache-wide default TTL.
func (c *TTLCache) DefaultTTL() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultTTL
}

// SetDefaultTTL changes the cache-wide default TTL. Existing entries keep
// the TTL they were stored with.
func (c *TTLCache) SetDefaultTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultTTL = ttl
}

// MaxSize returns the configured entry cap.
func (c *TTLCache) MaxSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSize
}

// SetMaxSize changes the entry cap, evicting least recently used entries
// until the cache fits when shrinking.
func (c *TTLCache) SetMaxSize(ctx context.Context, size int) {
	if size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxSize = size
	for len(c.entries) > c.maxSize {
		c.evictLRULocked(ctx)
	}
}

// Metrics returns the metrics recorder the cache was built with (may be nil).
func (c *TTLCache) Metrics() *observe.CacheMetrics {
	return c.metrics
}
