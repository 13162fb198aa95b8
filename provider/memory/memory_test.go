package memory

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestMemoryTTLWithMockClock(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	p := New(clk)

	if _, err := p.Set(ctx, "k", []byte("v"), 1, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	clk.Add(59 * time.Second)
	if v, ok, err := p.Get(ctx, "k"); err != nil || !ok || string(v) != "v" {
		t.Fatalf("before deadline: v=%q ok=%v err=%v", v, ok, err)
	}

	clk.Add(time.Second)
	if _, ok, err := p.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("at deadline should miss: ok=%v err=%v", ok, err)
	}
	if p.Len() != 0 {
		t.Fatalf("expired entry should be dropped on read, len=%d", p.Len())
	}
}

func TestMemorySetRefreshesDeadline(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	p := New(clk)

	_, _ = p.Set(ctx, "k", []byte("v"), 1, time.Minute)
	first, _ := p.Deadline("k")

	clk.Add(30 * time.Second)
	_, _ = p.Set(ctx, "k", []byte("v"), 1, time.Minute)
	second, ok := p.Deadline("k")
	if !ok {
		t.Fatalf("entry missing after refresh")
	}
	if got := second.Sub(first); got != 30*time.Second {
		t.Fatalf("deadline moved by %v, want 30s", got)
	}

	clk.Add(45 * time.Second)
	if _, ok, _ := p.Get(ctx, "k"); !ok {
		t.Fatalf("refreshed entry expired early")
	}
}

func TestMemoryNoTTL(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	p := New(clk)

	_, _ = p.Set(ctx, "k", []byte("v"), 1, 0)
	clk.Add(24 * 365 * time.Hour)
	if _, ok, _ := p.Get(ctx, "k"); !ok {
		t.Fatalf("ttl<=0 should never expire")
	}
	if exp, _ := p.Deadline("k"); !exp.IsZero() {
		t.Fatalf("expected zero deadline, got %v", exp)
	}
}

func TestMemoryIsByteTransparentAndIsolated(t *testing.T) {
	ctx := context.Background()
	p := New(nil)

	in := []byte{0, 1, 2, 0xff}
	_, _ = p.Set(ctx, "k", in, 1, time.Minute)
	in[0] = 9 // caller reuses its buffer

	got, ok, err := p.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte{0, 1, 2, 0xff}) {
		t.Fatalf("stored bytes changed: %x", got)
	}
	got[1] = 7
	again, _, _ := p.Get(ctx, "k")
	if again[1] != 1 {
		t.Fatalf("Get must not hand out the stored slice")
	}
}

func TestMemoryDelAbsent(t *testing.T) {
	p := New(nil)
	if err := p.Del(context.Background(), "nope"); err != nil {
		t.Fatalf("Del of absent key: %v", err)
	}
}
