// Package ttlcache keeps cache entries in a jellydator/ttlcache instance,
// which honours per-entry TTLs and can bound the number of items.
package ttlcache

import (
	"bytes"
	"context"
	"time"

	tc "github.com/jellydator/ttlcache/v3"

	pr "github.com/unkn0wn-root/rtcache/provider"
)

type Provider struct {
	c       *tc.Cache[string, []byte]
	started bool
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	// Capacity bounds the number of entries; 0 = unbounded.
	Capacity uint64
	// Sweep starts ttlcache's background expiry loop. Without it expired
	// entries are still never returned, they only linger in memory until read.
	Sweep bool
}

func New(cfg Config) *Provider {
	var opts []tc.Option[string, []byte]
	if cfg.Capacity > 0 {
		opts = append(opts, tc.WithCapacity[string, []byte](cfg.Capacity))
	}
	// reads must not extend an entry's deadline
	opts = append(opts, tc.WithDisableTouchOnHit[string, []byte]())

	p := &Provider{c: tc.New[string, []byte](opts...)}
	if cfg.Sweep {
		go p.c.Start()
		p.started = true
	}
	return p
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := p.c.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return bytes.Clone(item.Value()), true, nil
}

// Set with ttl <= 0 stores the value without expiry.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = tc.NoTTL
	}
	p.c.Set(key, bytes.Clone(value), ttl)
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Delete(key)
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	if p.started {
		p.c.Stop()
	}
	return nil
}
