// Package rtcache implements a provider-agnostic read-through cache.
//
// Get serves a key from the backing store while the entry is present. On a
// miss it calls the Loader, writes the result with the cache's TTL and returns
// it. Concurrent misses on one key share a single Load call, and an entry that
// cannot be decoded is dropped and reloaded instead of failing the read.
//
// Components:
//   - Provider: byte store with TTL (Redis, Ristretto, BigCache, ttlcache, memory).
//   - Codec[V]: (de)serializes V <-> []byte (JSON, CBOR, msgpack, protobuf, zstd).
//   - Loader[V]: the authoritative source consulted on a miss.
//   - GenStore: optional per-key generations; lets Evict fence out a load that
//     was already in flight. Local (in-process) or Redis (shared).
//   - Hooks / Logger: observability, no-ops by default.
//
// Entry lifecycle:
//
//	absent --Put / Get miss + successful Load--> present(deadline)
//	present --TTL elapsed in the store / Evict--> absent
//
// Expiry belongs to the provider; the cache never tracks deadlines itself.
//
// Errors: every failure matches one kind with errors.Is: ErrNotFound,
// ErrInvalidKey, ErrStoreUnavailable, ErrEncode, ErrLoad; New fails with
// ErrConfig. The cache retries nothing.
package rtcache
