// Package promhook exports cache events as Prometheus counters.
//
// Counters are labelled by cache name only; storage keys are unbounded and
// never become label values.
package promhook

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/rtcache"
)

type Options struct {
	Namespace string // metric namespace; "" => "rtcache"
	Cache     string // value of the "cache" label, e.g. "user"
	// Registerer receives the collectors; nil => prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

type Hooks struct {
	hits, misses, coalesced      prometheus.Counter
	loadFailures, popFailures    prometheus.Counter
	rejected, genErrors, outages prometheus.Counter
	selfHeals                    *prometheus.CounterVec
}

var _ rtcache.Hooks = (*Hooks)(nil)

// New registers the cache counters. Registering the same Cache name twice on
// one Registerer reuses the existing collectors.
func New(opts Options) (*Hooks, error) {
	ns := opts.Namespace
	if ns == "" {
		ns = "rtcache"
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"cache": opts.Cache}

	counter := func(name, help string) (prometheus.Counter, error) {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		return register(reg, c)
	}

	h := &Hooks{}
	var err error
	for _, m := range []struct {
		dst        *prometheus.Counter
		name, help string
	}{
		{&h.hits, "hits_total", "Reads served from the store."},
		{&h.misses, "misses_total", "Reads that fell back to the loader."},
		{&h.coalesced, "loads_coalesced_total", "Reads that shared an in-flight load."},
		{&h.loadFailures, "load_failures_total", "Loader errors other than not-found."},
		{&h.popFailures, "populate_failures_total", "Loaded values that could not be written back."},
		{&h.rejected, "set_rejected_total", "Writes dropped by the provider under pressure."},
		{&h.genErrors, "gen_errors_total", "Generation store failures."},
		{&h.outages, "evict_outages_total", "Evicts where both gen bump and delete failed."},
	} {
		if *m.dst, err = counter(m.name, m.help); err != nil {
			return nil, err
		}
	}

	heals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Name:        "self_heals_total",
		Help:        "Unusable entries dropped on read, by reason.",
		ConstLabels: labels,
	}, []string{"reason"})
	if h.selfHeals, err = register(reg, heals); err != nil {
		return nil, err
	}
	return h, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (h *Hooks) Hit(string)                       { h.hits.Inc() }
func (h *Hooks) Miss(string)                      { h.misses.Inc() }
func (h *Hooks) SelfHeal(_, reason string)        { h.selfHeals.WithLabelValues(reason).Inc() }
func (h *Hooks) LoadCoalesced(string)             { h.coalesced.Inc() }
func (h *Hooks) LoadFailed(string, error)         { h.loadFailures.Inc() }
func (h *Hooks) PopulateFailed(string, error)     { h.popFailures.Inc() }
func (h *Hooks) ProviderSetRejected(string)       { h.rejected.Inc() }
func (h *Hooks) GenError(string, error)           { h.genErrors.Inc() }
func (h *Hooks) EvictOutage(string, error, error) { h.outages.Inc() }
