// Handles on-disk caching of API responses
package cache

import "time"

// Cache interface for caching operations
type Cache interface {
	// retrieves cached data if it exists and is not older than ttl.
	// returns nil, nil when not found or expired
	Get(group, key string, ttl time.Duration) ([]byte, error)
	// stores data under the given group (empty for the root), overwriting any previous value
	Set(group, key string, value []byte) error
	// removes every entry stored under a group
	ClearGroup(group string) error
	// removes root-level entries older than maxAge, returns how many were removed
	Sweep(maxAge time.Duration) (int, error)
	// initializes the cache (e.g., creates necessary directories)
	Init() error
}
