package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// memoArgPrefix is how many leading arguments appear verbatim in a
// memoization key. The rest are covered by the argument hash.
const memoArgPrefix = 2

// memoArgMaxLen truncates each verbatim argument so oversized inputs
// cannot blow past MaxKeyLength.
const memoArgMaxLen = 40

// MemoFunc is an operation whose result can be memoized.
type MemoFunc func(ctx context.Context, args ...any) (any, error)

// Memoize returns a function equivalent to fn whose result is cached in c
// under the given TTL. The key derives from name, a bounded prefix of the
// arguments, and a hash of the canonical JSON encoding of all arguments,
// so distinct argument lists get distinct entries.
//
// Arguments that cannot be canonicalized (channels, functions) make the
// call bypass the cache rather than fail.
func Memoize(c *TTLCache, name string, ttl time.Duration, fn MemoFunc) MemoFunc {
	return func(ctx context.Context, args ...any) (any, error) {
		key, err := memoKey(name, args)
		if err != nil {
			return fn(ctx, args...)
		}
		return c.GetOrSet(ctx, key, func(ctx context.Context) (any, error) {
			return fn(ctx, args...)
		}, ttl)
	}
}

// memoKey builds a memoization key.
// Format: memo:<name>[:arg0[:arg1]]:<hash>
// where hash is the first 16 hex characters of SHA-256(canonical JSON(args)).
func memoKey(name string, args []any) (string, error) {
	canonical, err := canonicalize(args)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize arguments: %w", err)
	}

	hash := sha256.Sum256(canonical)
	hashStr := hex.EncodeToString(hash[:8])

	parts := make([]string, 0, memoArgPrefix+2)
	parts = append(parts, "memo", name)
	for i, arg := range args {
		if i >= memoArgPrefix {
			break
		}
		repr := fmt.Sprintf("%v", arg)
		if len(repr) > memoArgMaxLen {
			repr = repr[:memoArgMaxLen]
		}
		repr = strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' {
				return '_'
			}
			return r
		}, repr)
		parts = append(parts, repr)
	}
	parts = append(parts, hashStr)

	return strings.Join(parts, ":"), nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	// For maps, sort keys for determinism
	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		// For other types, use standard JSON encoding
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	// Sort keys
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Build ordered JSON object
	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		// Key
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		// Value (recursively canonicalize)
		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}
