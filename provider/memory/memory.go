// Package memory is an in-process provider with lazy expiry and an injectable
// clock. Tests drive TTL expiry by advancing a clock.Mock instead of sleeping.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	pr "github.com/unkn0wn-root/rtcache/provider"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no expiry
}

// Memory keeps entries in a map. It has no capacity bound and no background
// sweeper; expired entries are dropped when read or overwritten.
type Memory struct {
	clock clock.Clock

	mu sync.RWMutex
	m  map[string]entry
}

var _ pr.Provider = (*Memory)(nil)

// New returns an empty store. A nil clock means the wall clock.
func New(c clock.Clock) *Memory {
	if c == nil {
		c = clock.New()
	}
	return &Memory{clock: c, m: make(map[string]entry)}
}

func (p *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.RLock()
	e, ok := p.m[key]
	p.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && !p.clock.Now().Before(e.exp) {
		p.mu.Lock()
		// re-check: a concurrent Set may have replaced it
		if cur, ok := p.m[key]; ok && cur.exp.Equal(e.exp) {
			delete(p.m, key)
		}
		p.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.v...), true, nil
}

// Set with ttl <= 0 stores the value without expiry.
func (p *Memory) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = p.clock.Now().Add(ttl)
	}
	v := append([]byte(nil), value...)
	p.mu.Lock()
	p.m[key] = entry{v: v, exp: exp}
	p.mu.Unlock()
	return true, nil
}

func (p *Memory) Del(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (p *Memory) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m)
}

// Deadline returns the expiry of key and whether it is stored at all.
// A zero time means the entry never expires.
func (p *Memory) Deadline(key string) (time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.m[key]
	return e.exp, ok
}

func (p *Memory) Close(_ context.Context) error { return nil }
