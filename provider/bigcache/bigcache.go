// Package bigcache keeps cache entries in an allegro/bigcache instance.
//
// BigCache has one life window for every entry; it cannot honour per-entry
// TTLs. Set therefore refuses TTLs shorter than the window, because such an
// entry would be served after its deadline. Longer TTLs are accepted: the entry
// simply disappears early, which a cache is always allowed to do.
package bigcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	bc "github.com/allegro/bigcache/v3"

	pr "github.com/unkn0wn-root/rtcache/provider"
)

var ErrTTLTooShort = errors.New("bigcache provider: ttl shorter than life window")

type Provider struct {
	c      *bc.BigCache
	window time.Duration
}

var (
	_ pr.Provider     = (*Provider)(nil)
	_ pr.TTLValidator = (*Provider)(nil)
)

type Config struct {
	LifeWindow         time.Duration // should equal the cache TTL
	CleanWindow        time.Duration
	Shards             int
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.LifeWindow <= 0 {
		return nil, errors.New("bigcache provider: life window must be > 0")
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	conf.Verbose = false
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c, window: cfg.LifeWindow}, nil
}

// Get treats entries past the life window as absent even before the cleaner
// has removed them.
func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, resp, err := p.c.GetWithInfo(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if resp.EntryStatus == bc.Expired {
		return nil, false, nil
	}
	return b, true, nil
}

// ValidateTTL rejects TTLs shorter than the life window.
func (p *Provider) ValidateTTL(ttl time.Duration) error {
	if ttl > 0 && ttl < p.window {
		return fmt.Errorf("%w: %s < %s", ErrTTLTooShort, ttl, p.window)
	}
	return nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if err := p.ValidateTTL(ttl); err != nil {
		return false, err
	}
	if err := p.c.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	if err := p.c.Delete(key); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	return p.c.Close()
}
