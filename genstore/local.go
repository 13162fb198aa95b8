package genstore

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type localEntry struct {
	Gen       uint64
	UpdatedAt time.Time
}

// Local keeps generations in-process.
// An optional sweeper prunes keys that have not been bumped within the
// retention window; a pruned key reads as generation 0 again, which at worst
// turns a later read of an old entry into a miss.
type Local struct {
	clock clock.Clock

	mu   sync.RWMutex
	gens map[string]localEntry

	ticker    *clock.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ GenStore = (*Local)(nil)

type LocalConfig struct {
	CleanupInterval time.Duration // 0 disables the sweeper
	Retention       time.Duration // 0 disables pruning
	Clock           clock.Clock   // nil => wall clock
}

func NewLocal(cfg LocalConfig) *Local {
	s := &Local{
		clock: cfg.Clock,
		gens:  make(map[string]localEntry),
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if cfg.CleanupInterval > 0 && cfg.Retention > 0 {
		s.ticker = s.clock.Ticker(cfg.CleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Cleanup(cfg.Retention)
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Local) Snapshot(_ context.Context, k string) (uint64, error) {
	s.mu.RLock()
	e := s.gens[k]
	s.mu.RUnlock()
	return e.Gen, nil
}

func (s *Local) Bump(_ context.Context, k string) (uint64, error) {
	now := s.clock.Now()
	s.mu.Lock()
	e := s.gens[k]
	e.Gen++
	e.UpdatedAt = now
	s.gens[k] = e
	s.mu.Unlock()
	return e.Gen, nil
}

func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := s.clock.Now().Add(-retention)

	s.mu.Lock()
	for k, e := range s.gens {
		if e.UpdatedAt.Before(cutoff) {
			delete(s.gens, k)
		}
	}
	s.mu.Unlock()
}

func (s *Local) Close(_ context.Context) error {
	s.closeOnce.Do(func() {
		if s.stopCh != nil {
			s.ticker.Stop()
			close(s.stopCh)
			s.wg.Wait()
		}
	})
	return nil
}
