package cache

import (
	"regexp"
	"strings"
	"time"
)

// Invalidate removes every entry and returns the prior count.
func (c *TTLCache) Invalidate() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]*entry)
	c.accessTimes = make(map[string]time.Time)
	return n
}

// InvalidatePattern removes every key matching the glob-style pattern and
// returns the count removed.
//
// Only `*` is special-cased: it is rewritten to an unanchored `.*`. Every
// other character is passed to the regexp engine as-is, so regexp
// metacharacters in the pattern (`.`, `[`, `+`, ...) keep their regexp
// meaning rather than matching literally. Callers relying on that behavior
// exist, so it is kept; use InvalidateRegexp for full control.
func (c *TTLCache) InvalidatePattern(pattern string) (int, error) {
	re, err := regexp.Compile(strings.ReplaceAll(pattern, "*", ".*"))
	if err != nil {
		return 0, err
	}
	return c.InvalidateRegexp(re), nil
}

// InvalidateRegexp removes every key matched by the precompiled pattern
// and returns the count removed. The match is unanchored.
func (c *TTLCache) InvalidateRegexp(re *regexp.Regexp) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if re.MatchString(key) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}
