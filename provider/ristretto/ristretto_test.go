package ristretto

import (
	"context"
	"testing"
	"time"
)

func mustNew(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{NumCounters: 10_000, MaxCost: 1_000, BufferItems: 64, Metrics: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}

func TestReadYourWrites(t *testing.T) {
	p := mustNew(t)
	ctx := context.Background()

	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected miss")
	}
	ok, err := p.Set(ctx, "k", []byte("v1"), 1, time.Minute)
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	v, ok, err := p.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v1" {
		t.Fatalf("Get right after Set: v=%q ok=%v err=%v", v, ok, err)
	}

	// overwrite
	if _, err := p.Set(ctx, "k", []byte("v2"), 1, time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := p.Get(ctx, "k"); string(v) != "v2" {
		t.Fatalf("overwrite not visible: %q", v)
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after Del")
	}
	if p.Metrics() == nil {
		t.Fatalf("metrics enabled but nil")
	}
}

func TestTTLExpires(t *testing.T) {
	p := mustNew(t)
	ctx := context.Background()

	if _, err := p.Set(ctx, "ttl", []byte("temp"), 1, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := p.Get(ctx, "ttl"); !ok {
		t.Fatalf("expected hit before TTL")
	}
	time.Sleep(200 * time.Millisecond)
	if _, ok, _ := p.Get(ctx, "ttl"); ok {
		t.Fatalf("expected miss after TTL")
	}
}
