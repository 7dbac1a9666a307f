package cache

import (
	"fmt"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// ListKey builds the key for a config listing with the given filter,
// bucketed to the minute so listings refresh at most once a minute.
// Format: list:<filter>:<minute-bucket>
func ListKey(filter string, at time.Time) string {
	if filter == "" {
		filter = "all"
	}
	return fmt.Sprintf("list:%s:%s", filter, at.UTC().Format("2006-01-02T15:04"))
}

// ConfigKey builds the key for a single config operation.
// Format: config:<operation>:<name>
func ConfigKey(operation, name string) string {
	return fmt.Sprintf("config:%s:%s", operation, name)
}
