package cache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/proxyops/cache"
)

func ExampleTTLCache_GetOrSet() {
	c := cache.New(cache.Config{DefaultTTL: time.Minute, MaxSize: 100})
	ctx := context.Background()

	render := func(ctx context.Context) (any, error) {
		return "server { listen 80; }", nil
	}

	// First call computes and stores.
	v, _ := c.GetOrSet(ctx, cache.ConfigKey("view", "mysite"), render, 0)
	fmt.Println(v)

	// Second call is served from cache; render does not run again.
	v, _ = c.GetOrSet(ctx, cache.ConfigKey("view", "mysite"), func(ctx context.Context) (any, error) {
		return "never computed", nil
	}, 0)
	fmt.Println(v)

	// Output:
	// server { listen 80; }
	// server { listen 80; }
}

func ExampleManager() {
	m := cache.NewManager(cache.ManagerConfig{
		Cache:   cache.Config{DefaultTTL: 5 * time.Minute, MaxSize: 500},
		Janitor: cache.JanitorConfig{Interval: time.Minute},
	})
	m.Init()
	defer m.Shutdown()

	ctx := context.Background()
	c := m.Cache()

	c.Set(ctx, cache.ConfigKey("view", "mysite"), "rendered config", 0)
	c.Set(ctx, cache.ConfigKey("health", "mysite"), "healthy", 0)

	// Editing a config invalidates every cached operation for it.
	n, _ := m.InvalidateConfig("mysite")
	fmt.Println(n)

	// Output:
	// 2
}

func ExampleMemoize() {
	c := cache.New(cache.Config{DefaultTTL: time.Minute})

	calls := 0
	probe := cache.Memoize(c, "healthcheck", 30*time.Second,
		func(ctx context.Context, args ...any) (any, error) {
			calls++
			return fmt.Sprintf("%s: ok", args[0]), nil
		})

	ctx := context.Background()
	r1, _ := probe(ctx, "mysite")
	r2, _ := probe(ctx, "mysite")

	fmt.Println(r1, r2, calls)

	// Output:
	// mysite: ok mysite: ok 1
}
