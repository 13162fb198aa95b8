// Package genstore keeps a generation counter per storage key.
//
// The cache bumps a key's generation on Evict and stamps every entry it writes
// with the generation it observed before loading. A write whose generation
// moved in the meantime is skipped, and an entry whose stamp is no longer
// current is treated as absent. This is what lets Evict win against a fallback
// load that was already in flight.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where generations live.
// Use Local for a single process or Redis when several replicas share a store.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, storageKey string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, storageKey string) (uint64, error)
	// Cleanup prunes old metadata if applicable (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
