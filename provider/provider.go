// Package provider defines the backing store the read-through cache writes through.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// bytes previously passed to Set for a key. No metadata may be prepended or
// appended and no re-encoding may happen. A store that compresses internally
// must fully reverse that before returning from Get.
//
// The cache owns expiry decisions only through the TTL it passes to Set; a
// provider must report an expired entry as absent and never hand it back.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. It must be safe for concurrent
// use and give read-your-writes visibility to a single process.
type Provider interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL, replacing any previous value and
	// deadline. Cost may be ignored. ok=false means the store refused the write
	// under pressure, which is not an error.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// TTLValidator is implemented by providers that cannot honour every TTL.
// The cache calls it once from New; an error there is a configuration error.
type TTLValidator interface {
	ValidateTTL(ttl time.Duration) error
}
