package bigcache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func mustNew(t *testing.T, window time.Duration) *Provider {
	t.Helper()
	p, err := New(context.Background(), Config{LifeWindow: window, Shards: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestBigcacheSetGetDel(t *testing.T) {
	p := mustNew(t, time.Minute)
	ctx := context.Background()

	if _, ok, err := p.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected miss: ok=%v err=%v", ok, err)
	}
	if ok, err := p.Set(ctx, "k", []byte("v"), 1, time.Minute); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	if v, ok, err := p.Get(ctx, "k"); err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del of absent key should be a no-op: %v", err)
	}
}

func TestBigcacheRejectsShortTTL(t *testing.T) {
	p := mustNew(t, time.Minute)
	_, err := p.Set(context.Background(), "k", []byte("v"), 1, time.Second)
	if !errors.Is(err, ErrTTLTooShort) {
		t.Fatalf("want ErrTTLTooShort, got %v", err)
	}
}

func TestBigcacheRequiresWindow(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for zero life window")
	}
}

func TestValidateTTL(t *testing.T) {
	p := mustNew(t, time.Minute)

	cases := []struct {
		ttl     time.Duration
		wantErr bool
	}{
		{30 * time.Second, true},
		{time.Minute, false},
		{time.Hour, false},
		{0, false}, // no expiry requested
	}
	for _, tc := range cases {
		err := p.ValidateTTL(tc.ttl)
		if tc.wantErr != errors.Is(err, ErrTTLTooShort) {
			t.Fatalf("ttl %s: err=%v wantErr=%v", tc.ttl, err, tc.wantErr)
		}
	}
}
