package rtcache

import "context"

// Loader produces the authoritative value for a key, e.g. from a database.
// It is called at most once at a time per key, and only on a miss.
//
// To report that no value exists, return an error wrapping ErrNotFound:
//
//	return User{}, fmt.Errorf("user %s: %w", key, rtcache.ErrNotFound)
//
// Not-found results are never cached.
type Loader[V any] interface {
	Load(ctx context.Context, key string) (V, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc[V any] func(ctx context.Context, key string) (V, error)

func (f LoaderFunc[V]) Load(ctx context.Context, key string) (V, error) { return f(ctx, key) }
