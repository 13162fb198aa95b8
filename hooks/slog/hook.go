// Package sloghook logs cache events through log/slog.
//
// High-volume events (hit, miss, self-heal) are sampled and keys are redacted
// before they reach the log, since storage keys often embed user identifiers.
package sloghook

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/rtcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	// Hit and miss are only logged when their rate is set.
	HitEvery      uint64
	MissEvery     uint64
	SelfHealEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr      atomic.Uint64
	missCtr     atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ rtcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n <= 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(storageKey string) {
	if h.l == nil || h.opts.HitEvery == 0 || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("rtcache.hit", "key", h.redact(storageKey))
}

func (h *Hooks) Miss(storageKey string) {
	if h.l == nil || h.opts.MissEvery == 0 || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("rtcache.miss", "key", h.redact(storageKey))
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Warn("rtcache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) LoadCoalesced(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("rtcache.load_coalesced", "key", h.redact(storageKey))
}

func (h *Hooks) LoadFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("rtcache.load_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) PopulateFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("rtcache.populate_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("rtcache.provider_set_rejected", "key", h.redact(storageKey))
}

func (h *Hooks) GenError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("rtcache.gen_error",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) EvictOutage(storageKey string, bumpErr, delErr error) {
	if h.l == nil {
		return
	}
	h.l.Error("rtcache.evict_outage",
		"key", h.redact(storageKey),
		"bump_err", bumpErr,
		"del_err", delErr)
}
