package genstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func redisGenStore(t *testing.T, ttl time.Duration) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("cannot reach Redis at %s: %v", addr, err)
	}
	s, err := NewRedis(RedisConfig{Client: rdb, Namespace: "test:" + t.Name(), TTL: ttl, CloseClient: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = rdb.Del(context.Background(), s.key("k")).Err()
		_ = s.Close(context.Background())
	})
	return s
}

func TestNewRedisNilClient(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestRedisBumpAndSnapshot(t *testing.T) {
	for _, ttl := range []time.Duration{0, time.Minute} {
		s := redisGenStore(t, ttl)
		ctx := context.Background()

		if g, err := s.Snapshot(ctx, "k"); err != nil || g != 0 {
			t.Fatalf("ttl=%v fresh key: g=%d err=%v", ttl, g, err)
		}
		if g, err := s.Bump(ctx, "k"); err != nil || g != 1 {
			t.Fatalf("ttl=%v first bump: g=%d err=%v", ttl, g, err)
		}
		if g, err := s.Bump(ctx, "k"); err != nil || g != 2 {
			t.Fatalf("ttl=%v second bump: g=%d err=%v", ttl, g, err)
		}
		if g, err := s.Snapshot(ctx, "k"); err != nil || g != 2 {
			t.Fatalf("ttl=%v snapshot: g=%d err=%v", ttl, g, err)
		}
		_ = s.rdb.Del(ctx, s.key("k")).Err()
	}
}
