package rtcache

// Hooks are lightweight callbacks for cache events, meant for metrics and
// sampled logging. Implementations MUST be cheap and non-blocking; the cache
// calls them on hot paths. All keys passed are storage keys (namespaced).
type Hooks interface {
	// Hit: a Get or Peek was served from the store.
	Hit(storageKey string)
	// Miss: a Get found nothing usable and will fall back to the Loader.
	Miss(storageKey string)

	// SelfHeal: an unusable entry was dropped on read and treated as a miss.
	// reason ∈ {"corrupt", "checksum", "value_decode", "stale_gen"}
	SelfHeal(storageKey, reason string)

	// LoadCoalesced: a Get joined a load another caller had already started.
	// The caller that started the load is not reported.
	LoadCoalesced(storageKey string)
	// LoadFailed: the Loader returned an error other than ErrNotFound.
	LoadFailed(storageKey string, err error)
	// PopulateFailed: a loaded value could not be written back.
	PopulateFailed(storageKey string, err error)

	// ProviderSetRejected: the provider returned ok=false on Set (pressure).
	ProviderSetRejected(storageKey string)

	// GenError: the generation store failed a snapshot or bump.
	GenError(storageKey string, err error)
	// EvictOutage: both gen bump and delete failed during Evict.
	EvictOutage(storageKey string, bumpErr, delErr error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Hit(string)                       {}
func (NopHooks) Miss(string)                      {}
func (NopHooks) SelfHeal(string, string)          {}
func (NopHooks) LoadCoalesced(string)             {}
func (NopHooks) LoadFailed(string, error)         {}
func (NopHooks) PopulateFailed(string, error)     {}
func (NopHooks) ProviderSetRejected(string)       {}
func (NopHooks) GenError(string, error)           {}
func (NopHooks) EvictOutage(string, error, error) {}
