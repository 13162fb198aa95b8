package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func redisProvider(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}
	p, err := New(Config{Client: goredis.NewClient(&goredis.Options{Addr: addr}), CloseClient: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("cannot reach Redis at %s: %v", addr, err)
	}
	return p
}

func TestNewNilClient(t *testing.T) {
	if _, err := New(Config{}); err != ErrNilClient {
		t.Fatalf("want ErrNilClient, got %v", err)
	}
}

func TestRedisSetGetDel(t *testing.T) {
	p := redisProvider(t)
	ctx := context.Background()
	key := "rtcache:test:" + t.Name()
	t.Cleanup(func() { _ = p.Del(ctx, key) })

	if _, ok, err := p.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss: ok=%v err=%v", ok, err)
	}
	if ok, err := p.Set(ctx, key, []byte{0, 1, 0xff}, 1, 10*time.Second); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	v, ok, err := p.Get(ctx, key)
	if err != nil || !ok || string(v) != string([]byte{0, 1, 0xff}) {
		t.Fatalf("Get: v=%x ok=%v err=%v", v, ok, err)
	}
	if err := p.Del(ctx, key); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Del(ctx, key); err != nil {
		t.Fatalf("Del absent: %v", err)
	}
}

func TestRedisTTLExpires(t *testing.T) {
	p := redisProvider(t)
	ctx := context.Background()
	key := "rtcache:test:" + t.Name()

	if _, err := p.Set(ctx, key, []byte("temp"), 1, 100*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(250 * time.Millisecond)
	if _, ok, _ := p.Get(ctx, key); ok {
		t.Fatalf("expected miss after TTL")
	}
}

func TestRedisUnreachableSurfacesError(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:1", MaxRetries: -1})
	p, err := New(Config{Client: rdb, CloseClient: true})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, _, err := p.Get(ctx, "k"); err == nil {
		t.Fatalf("expected an error from an unreachable server")
	}
}
