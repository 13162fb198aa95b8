// Package asynchook moves hook calls off the cache's hot path.
//
// Events are queued to a bounded channel and delivered by worker goroutines.
// When the queue is full the event is dropped; the cache never blocks on it.
//
//	raw := sloghook.New(slog.Default(), sloghook.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000)
//	defer hooks.Close()
//
//	cache, _ := rtcache.New[User](rtcache.Options[User]{
//	    Namespace: "app:prod:user",
//	    Provider:  provider,
//	    Codec:     codec.JSON[User]{},
//	    Loader:    loader,
//	    TTL:       10 * time.Minute,
//	    Hooks:     hooks,
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/rtcache"
)

type Hooks struct {
	inner rtcache.Hooks
	q     chan func()
	wg    sync.WaitGroup

	mu      sync.RWMutex // guards closed vs. sends on q
	closed  bool
	dropped atomic.Uint64
}

var _ rtcache.Hooks = (*Hooks)(nil)

// New starts workers goroutines draining a queue of qlen events into inner.
func New(inner rtcache.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = rtcache.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events and waits for queued ones to be delivered.
func (h *Hooks) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.q)
	h.mu.Unlock()
	h.wg.Wait()
}

// Dropped reports how many events were discarded because the queue was full
// or the hooks were closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Hit(k string)           { h.try(func() { h.inner.Hit(k) }) }
func (h *Hooks) Miss(k string)          { h.try(func() { h.inner.Miss(k) }) }
func (h *Hooks) SelfHeal(k, r string)   { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) LoadCoalesced(k string) { h.try(func() { h.inner.LoadCoalesced(k) }) }
func (h *Hooks) LoadFailed(k string, err error) {
	h.try(func() { h.inner.LoadFailed(k, err) })
}
func (h *Hooks) PopulateFailed(k string, err error) {
	h.try(func() { h.inner.PopulateFailed(k, err) })
}
func (h *Hooks) ProviderSetRejected(k string) { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) GenError(k string, err error) { h.try(func() { h.inner.GenError(k, err) }) }
func (h *Hooks) EvictOutage(k string, be, de error) {
	h.try(func() { h.inner.EvictOutage(k, be, de) })
}
