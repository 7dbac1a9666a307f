package cache

import (
	"context"
	"errors"
	"time"

	"github.com/agilira/argus"

	"github.com/jonwraymond/proxyops/observe"
)

// HotReloadOptions configures dynamic cache reconfiguration.
type HotReloadOptions struct {
	// ConfigPath is the configuration file to watch. Argus infers the
	// format from the extension (JSON, YAML, TOML, ...).
	ConfigPath string

	// PollInterval is how often to check for changes.
	// Default: 1s. Minimum: 100ms.
	PollInterval time.Duration

	// Logger for reload events.
	Logger observe.Logger
}

// HotReload watches a configuration file and applies cache settings when
// it changes.
//
// Supported keys (top level or under a "cache" section):
//   - default_ttl (duration string, e.g. "5m"): cache-wide default TTL
//   - max_size (int): entry cap; shrinking evicts LRU entries down to fit
type HotReload struct {
	cache   *TTLCache
	watcher *argus.Watcher
	logger  observe.Logger
}

// NewHotReload creates a watcher that reconfigures the cache from the
// given file. Call Start to begin watching.
func NewHotReload(c *TTLCache, opts HotReloadOptions) (*HotReload, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if opts.ConfigPath == "" {
		return nil, errors.New("cache: hot reload config path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = observe.Nop()
	}

	hr := &HotReload{
		cache:  c,
		logger: opts.Logger.With(observe.Field{Key: "component", Value: "cache.hotreload"}),
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(
		opts.ConfigPath,
		hr.handleConfigChange,
		argus.Config{PollInterval: opts.PollInterval},
	)
	if err != nil {
		return nil, err
	}
	hr.watcher = watcher

	return hr, nil
}

// Start begins watching the configuration file. Safe to call when
// already running.
func (hr *HotReload) Start() error {
	if hr.watcher.IsRunning() {
		return nil
	}
	return hr.watcher.Start()
}

// Stop stops watching the configuration file.
func (hr *HotReload) Stop() error {
	return hr.watcher.Stop()
}

// handleConfigChange is called by Argus when the file changes.
func (hr *HotReload) handleConfigChange(data map[string]any) {
	ctx := context.Background()

	section, ok := data["cache"].(map[string]any)
	if !ok {
		section = data
	}

	if ttl, ok := parseDuration(section["default_ttl"]); ok {
		hr.cache.SetDefaultTTL(ttl)
		hr.logger.Info(ctx, "default TTL reloaded",
			observe.Field{Key: "default_ttl", Value: ttl.String()})
	}

	if size, ok := parsePositiveInt(section["max_size"]); ok {
		hr.cache.SetMaxSize(ctx, size)
		hr.logger.Info(ctx, "max size reloaded",
			observe.Field{Key: "max_size", Value: size})
	}
}

// parsePositiveInt extracts a positive integer. YAML/JSON decoders may
// hand back int or float64.
func parsePositiveInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case int64:
		if v > 0 {
			return int(v), true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseDuration extracts a duration from a string value like "5m".
func parseDuration(value any) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(str); err == nil && d > 0 {
			return d, true
		}
	}
	return 0, false
}
