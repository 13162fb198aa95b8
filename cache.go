package rtcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"tailscale.com/util/singleflight"

	c "github.com/unkn0wn-root/rtcache/codec"
	gen "github.com/unkn0wn-root/rtcache/genstore"
	"github.com/unkn0wn-root/rtcache/internal/wire"
	pr "github.com/unkn0wn-root/rtcache/provider"
)

const (
	opGet      = "get"
	opPeek     = "peek"
	opPut      = "put"
	opPopulate = "populate"
	opEvict    = "evict"
)

// self-heal reasons
const (
	reasonCorrupt  = "corrupt"
	reasonChecksum = "checksum"
	reasonDecode   = "value_decode"
	reasonStaleGen = "stale_gen"
)

type cache[V any] struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[V]
	loader         Loader[V]
	gen            gen.GenStore // nil => no fencing
	log            Logger
	hooks          Hooks
	tracer         trace.Tracer
	computeSetCost SetCostFunc

	ttl         time.Duration
	loadTimeout time.Duration
	raw         bool
	strict      bool
	enabled     bool

	// in-flight fallback loads, keyed by storage key
	flights singleflight.Group[string, V]
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrConfig)
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("%w: codec is required", ErrConfig)
	}
	if opts.Loader == nil {
		return nil, fmt.Errorf("%w: loader is required", ErrConfig)
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("%w: ttl must be > 0, got %s", ErrConfig, opts.TTL)
	}
	if opts.LoadTimeout < 0 {
		return nil, fmt.Errorf("%w: load timeout must be >= 0, got %s", ErrConfig, opts.LoadTimeout)
	}
	if v, ok := opts.Provider.(pr.TTLValidator); ok {
		if err := v.ValidateTTL(opts.TTL); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}
	if opts.Raw && opts.GenStore != nil {
		// raw entries carry no generation stamp to validate
		return nil, fmt.Errorf("%w: raw entries cannot be fenced by a generation store", ErrConfig)
	}

	cc := &cache[V]{
		ns:          opts.Namespace,
		provider:    opts.Provider,
		codec:       opts.Codec,
		loader:      opts.Loader,
		gen:         opts.GenStore,
		ttl:         opts.TTL,
		loadTimeout: opts.LoadTimeout,
		raw:         opts.Raw,
		strict:      opts.StrictPopulate,
		enabled:     !opts.Disabled,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	tp := coalesce[trace.TracerProvider](opts.TracerProvider, otel.GetTracerProvider())
	cc.tracer = tp.Tracer(tracerName)

	if opts.ComputeSetCost != nil {
		cc.computeSetCost = opts.ComputeSetCost
	} else {
		cc.computeSetCost = unitCost
	}
	return cc, nil
}

func (cc *cache[V]) Enabled() bool { return cc.enabled }

func (cc *cache[V]) Close(ctx context.Context) error {
	// gen store first (best effort)
	if cc.gen != nil {
		_ = cc.gen.Close(ctx)
	}
	return cc.provider.Close(ctx)
}

func (cc *cache[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	if key == "" {
		return zero, newError(opGet, key, ErrInvalidKey, nil)
	}
	ctx, span := cc.tracer.Start(ctx, "rtcache.Get", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	if !cc.enabled {
		v, err := cc.load(ctx, key)
		recordError(span, err)
		return v, err
	}

	k := cc.storageKey(key)
	v, ok, err := cc.lookup(ctx, k)
	if err != nil {
		err = newError(opGet, key, ErrStoreUnavailable, err)
		recordError(span, err)
		return zero, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", ok))
	if ok {
		cc.hooks.Hit(k)
		cc.log.Debug("cache hit", Fields{"key": key})
		return v, nil
	}

	cc.hooks.Miss(k)
	cc.log.Debug("cache miss; loading", Fields{"key": key})
	v, err = cc.fill(ctx, key, k)
	recordError(span, err)
	return v, err
}

func (cc *cache[V]) Peek(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, newError(opPeek, key, ErrInvalidKey, nil)
	}
	if !cc.enabled {
		return zero, false, nil
	}
	k := cc.storageKey(key)
	v, ok, err := cc.lookup(ctx, k)
	if err != nil {
		return zero, false, newError(opPeek, key, ErrStoreUnavailable, err)
	}
	if ok {
		cc.hooks.Hit(k)
	}
	return v, ok, nil
}

func (cc *cache[V]) Put(ctx context.Context, key string, value V) error {
	if key == "" {
		return newError(opPut, key, ErrInvalidKey, nil)
	}
	if !cc.enabled {
		return nil
	}
	ctx, span := cc.tracer.Start(ctx, "rtcache.Put", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	k := cc.storageKey(key)
	var g uint64
	if cc.gen != nil {
		var err error
		if g, err = cc.gen.Snapshot(ctx, k); err != nil {
			cc.hooks.GenError(k, err)
			err = newError(opPut, key, ErrStoreUnavailable, err)
			recordError(span, err)
			return err
		}
	}
	err := cc.write(ctx, opPut, key, k, value, g)
	recordError(span, err)
	return err
}

// Evict deletes the entry. With a GenStore the key's generation is bumped
// first, so a fallback load already in flight will not write its result.
// Without one, that load repopulates the entry when it completes.
func (cc *cache[V]) Evict(ctx context.Context, key string) error {
	if key == "" {
		return newError(opEvict, key, ErrInvalidKey, nil)
	}
	if !cc.enabled {
		return nil
	}
	ctx, span := cc.tracer.Start(ctx, "rtcache.Evict", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	k := cc.storageKey(key)
	var bumpErr error
	if cc.gen != nil {
		if _, bumpErr = cc.gen.Bump(ctx, k); bumpErr != nil {
			cc.hooks.GenError(k, bumpErr)
		}
	}
	delErr := cc.provider.Del(ctx, k)

	var err error
	switch {
	case bumpErr != nil && delErr != nil:
		cc.hooks.EvictOutage(k, bumpErr, delErr)
		cc.log.Error("evict failed: gen bump and delete failed", Fields{"key": key, "bumpErr": bumpErr, "delErr": delErr})
		err = &EvictError{Key: key, BumpErr: bumpErr, DelErr: delErr}
	case delErr != nil && cc.gen != nil:
		// the bumped generation already hides the entry from readers
		cc.log.Warn("evict: delete failed, entry fenced by generation", Fields{"key": key, "err": delErr})
	case delErr != nil:
		err = newError(opEvict, key, ErrStoreUnavailable, delErr)
	case bumpErr != nil:
		cc.log.Warn("evict: gen bump failed, in-flight load may repopulate", Fields{"key": key, "err": bumpErr})
	default:
		cc.log.Debug("cache evict", Fields{"key": key})
	}
	recordError(span, err)
	return err
}

// fill runs the fallback load for a miss. Callers that miss on the same key
// while a load is in flight wait for that load instead of starting their own.
// A caller whose ctx ends stops waiting; the load itself keeps going for the
// others, bounded by LoadTimeout.
func (cc *cache[V]) fill(ctx context.Context, key, storageKey string) (V, error) {
	// set only when this caller's func runs, i.e. it started the flight;
	// read after the result arrives, which is sent once the func returned
	leader := false
	ch := cc.flights.DoChan(storageKey, func() (V, error) {
		leader = true
		lctx := context.WithoutCancel(ctx)
		if cc.loadTimeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(lctx, cc.loadTimeout)
			defer cancel()
		}
		return cc.loadAndPopulate(lctx, key, storageKey)
	})

	select {
	case res := <-ch:
		if res.Shared && !leader {
			cc.hooks.LoadCoalesced(storageKey)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		var zero V
		return zero, newError(opGet, key, ctx.Err(), nil)
	}
}

func (cc *cache[V]) loadAndPopulate(ctx context.Context, key, storageKey string) (V, error) {
	var zero V

	// Snapshot before the load so an Evict during the load is detected.
	var obs uint64
	writable := cc.gen == nil
	if cc.gen != nil {
		g, err := cc.gen.Snapshot(ctx, storageKey)
		if err != nil {
			cc.hooks.GenError(storageKey, err)
			cc.log.Warn("gen snapshot failed; loaded value will not be cached", Fields{"key": key, "err": err})
		} else {
			obs, writable = g, true
		}
	}

	// A flight that finished between our miss and this one has already
	// written the entry.
	if v, ok, err := cc.lookup(ctx, storageKey); err == nil && ok {
		return v, nil
	}

	v, err := cc.load(ctx, key)
	if err != nil {
		return zero, err
	}
	if !writable {
		return v, nil
	}

	if err := cc.populate(ctx, key, storageKey, v, obs); err != nil {
		cc.hooks.PopulateFailed(storageKey, err)
		cc.log.Warn("failed to cache loaded value", Fields{"key": key, "err": err})
		if cc.strict {
			return zero, err
		}
	}
	return v, nil
}

func (cc *cache[V]) load(ctx context.Context, key string) (V, error) {
	ctx, span := cc.tracer.Start(ctx, "rtcache.Load", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	v, err := cc.loader.Load(ctx, key)
	if err == nil {
		return v, nil
	}
	var zero V
	if errors.Is(err, ErrNotFound) {
		// not an error for the span; the key simply has no value
		return zero, newError(opGet, key, ErrNotFound, err)
	}
	cc.hooks.LoadFailed(cc.storageKey(key), err)
	cc.log.Debug("loader failed", Fields{"key": key, "err": err})
	err = newError(opGet, key, ErrLoad, err)
	recordError(span, err)
	return zero, err
}

// populate writes a loaded value unless the key's generation moved since obs.
func (cc *cache[V]) populate(ctx context.Context, key, storageKey string, v V, obs uint64) error {
	if cc.gen != nil {
		cur, err := cc.gen.Snapshot(ctx, storageKey)
		if err != nil {
			cc.hooks.GenError(storageKey, err)
			return newError(opPopulate, key, ErrStoreUnavailable, err)
		}
		if cur != obs {
			cc.log.Debug("populate skipped (evicted during load)", Fields{"key": key, "obs": obs, "gen": cur})
			return nil
		}
	}
	return cc.write(ctx, opPopulate, key, storageKey, v, obs)
}

// write encodes v completely before touching the store, so an encode failure
// never leaves a partial entry behind.
func (cc *cache[V]) write(ctx context.Context, op, key, storageKey string, v V, g uint64) error {
	payload, err := cc.codec.Encode(v)
	if err != nil {
		return newError(op, key, ErrEncode, err)
	}
	b := payload
	if !cc.raw {
		b = wire.Encode(g, payload)
	}
	ok, err := cc.provider.Set(ctx, storageKey, b, cc.computeSetCost(storageKey, b), cc.ttl)
	if err != nil {
		return newError(op, key, ErrStoreUnavailable, err)
	}
	if !ok {
		cc.hooks.ProviderSetRejected(storageKey)
		cc.log.Debug("write rejected by provider (pressure)", Fields{"key": key})
		return nil
	}
	cc.log.Debug("cache put", Fields{"key": key, "ttl": cc.ttl})
	return nil
}

// lookup reads and validates one entry. Unusable entries are deleted and
// reported as a miss; only provider errors are returned.
func (cc *cache[V]) lookup(ctx context.Context, storageKey string) (V, bool, error) {
	var zero V
	raw, ok, err := cc.provider.Get(ctx, storageKey)
	if err != nil || !ok {
		return zero, false, err
	}

	payload := raw
	if !cc.raw {
		e, err := wire.Decode(raw)
		if err != nil {
			reason := reasonCorrupt
			if errors.Is(err, wire.ErrChecksum) {
				reason = reasonChecksum
			}
			cc.selfHeal(ctx, storageKey, reason, err)
			return zero, false, nil
		}
		if cc.gen != nil {
			cur, err := cc.gen.Snapshot(ctx, storageKey)
			if err != nil {
				// can't tell whether the entry is current; don't serve it, don't drop it
				cc.hooks.GenError(storageKey, err)
				cc.log.Warn("gen snapshot failed; treating entry as a miss", Fields{"key": storageKey, "err": err})
				return zero, false, nil
			}
			if e.Gen != cur {
				cc.selfHeal(ctx, storageKey, reasonStaleGen, nil)
				return zero, false, nil
			}
		}
		payload = e.Payload
	}

	v, err := cc.codec.Decode(payload)
	if err != nil {
		cc.selfHeal(ctx, storageKey, reasonDecode, fmt.Errorf("%w: %w", ErrDecode, err))
		return zero, false, nil
	}
	return v, true, nil
}

func (cc *cache[V]) selfHeal(ctx context.Context, storageKey, reason string, cause error) {
	cc.hooks.SelfHeal(storageKey, reason)
	cc.log.Warn("dropping unusable cache entry", Fields{"key": storageKey, "reason": reason, "err": cause})
	if err := cc.provider.Del(ctx, storageKey); err != nil {
		cc.log.Debug("self-heal delete failed", Fields{"key": storageKey, "err": err})
	}
}

func (cc *cache[V]) storageKey(userKey string) string {
	if cc.ns == "" {
		return userKey
	}
	return cc.ns + ":" + userKey
}
