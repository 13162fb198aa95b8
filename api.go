package rtcache

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	c "github.com/unkn0wn-root/rtcache/codec"
	gen "github.com/unkn0wn-root/rtcache/genstore"
	pr "github.com/unkn0wn-root/rtcache/provider"
)

// SetCostFunc computes the cost passed to Provider.Set for cost-aware stores
// (ristretto). raw is the exact byte slice being stored.
type SetCostFunc func(storageKey string, raw []byte) int64

// Cache is a read-through cache for values of type V.
// All methods are safe for concurrent use.
type Cache[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Get returns the cached value for key, or loads it through the Loader on
	// a miss, stores it with the configured TTL and returns it. Concurrent
	// misses for one key share a single Load call.
	Get(ctx context.Context, key string) (V, error)

	// Peek is a cache-only lookup: it never calls the Loader.
	Peek(ctx context.Context, key string) (v V, ok bool, err error)

	// Put encodes value and stores it with the configured TTL, replacing any
	// existing entry and restarting its deadline.
	Put(ctx context.Context, key string, value V) error

	// Evict deletes key from the store. Evicting an absent key is a no-op.
	Evict(ctx context.Context, key string) error
}

// Options configure a Cache. Provider, Codec, Loader and a positive TTL are
// required; New fails with ErrConfig without them.
type Options[V any] struct {
	// Required
	Provider pr.Provider
	Codec    c.Codec[V]
	Loader   Loader[V]
	TTL      time.Duration // applied to every write; must be > 0

	Namespace   string        // storage key is "<ns>:<key>"; empty => raw keys
	LoadTimeout time.Duration // bound for one fallback load; 0 => none

	// GenStore fences fallback writes against Evict: a load that was in
	// flight when its key was evicted does not repopulate the entry.
	// nil => no fencing, the in-flight load writes its result.
	GenStore gen.GenStore

	// Raw stores codec output without the rtcache frame. Use it to share
	// keys with non-Go writers; corruption is then detected by the codec only.
	// Raw and GenStore are mutually exclusive.
	Raw bool

	// StrictPopulate makes Get fail when the loaded value cannot be written
	// back. By default the loaded value is returned and the failure is
	// reported through Hooks and Logger.
	StrictPopulate bool

	Disabled bool // Get goes straight to the Loader; Put and Evict are no-ops

	Logger         Logger               // nil => NopLogger
	Hooks          Hooks                // nil => NopHooks
	TracerProvider trace.TracerProvider // nil => otel global provider
	ComputeSetCost SetCostFunc          // nil => 1
}

func New[V any](opts Options[V]) (Cache[V], error) {
	cc, err := newCache[V](opts)
	if err != nil {
		return nil, err
	}
	return cc, nil
}
