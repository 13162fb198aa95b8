package promhook

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersTrackEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(Options{Cache: "user", Registerer: reg})
	if err != nil {
		t.Fatal(err)
	}

	h.Hit("user:1")
	h.Hit("user:2")
	h.Miss("user:3")
	h.SelfHeal("user:3", "checksum")
	h.SelfHeal("user:4", "checksum")
	h.SelfHeal("user:5", "stale_gen")
	h.LoadFailed("user:6", errors.New("db"))
	h.EvictOutage("user:7", errors.New("a"), errors.New("b"))

	if got := testutil.ToFloat64(h.hits); got != 2 {
		t.Fatalf("hits = %v", got)
	}
	if got := testutil.ToFloat64(h.misses); got != 1 {
		t.Fatalf("misses = %v", got)
	}
	if got := testutil.ToFloat64(h.selfHeals.WithLabelValues("checksum")); got != 2 {
		t.Fatalf("checksum self-heals = %v", got)
	}
	if got := testutil.ToFloat64(h.selfHeals.WithLabelValues("stale_gen")); got != 1 {
		t.Fatalf("stale_gen self-heals = %v", got)
	}
	if got := testutil.ToFloat64(h.loadFailures); got != 1 {
		t.Fatalf("load failures = %v", got)
	}
	if got := testutil.ToFloat64(h.outages); got != 1 {
		t.Fatalf("outages = %v", got)
	}

	n, err := testutil.GatherAndCount(reg, "rtcache_hits_total")
	if err != nil || n != 1 {
		t.Fatalf("expected one rtcache_hits_total series, n=%d err=%v", n, err)
	}
}

func TestRegisteringTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(Options{Cache: "user", Registerer: reg})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(Options{Cache: "user", Registerer: reg})
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	a.Hit("k")
	b.Hit("k")
	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Fatalf("collectors not shared, hits = %v", got)
	}
}

func TestCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(Options{Namespace: "svc_cache", Cache: "session", Registerer: reg})
	if err != nil {
		t.Fatal(err)
	}
	h.Miss("k")
	n, err := testutil.GatherAndCount(reg, "svc_cache_misses_total")
	if err != nil || n != 1 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}
