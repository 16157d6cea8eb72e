// Package cache stores extraction results keyed by document content.
//
// Batch extraction over a folder of drawings re-parses every SVG on each run.
// A Cache lets unchanged documents be served from a previous run: the key is
// derived from the document bytes and the extraction options, so editing
// either invalidates the entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
