package sloghook

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad json %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func newHooks(buf *bytes.Buffer, opts Options) *Hooks {
	l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(l, opts)
}

func TestSelfHealRedactsKey(t *testing.T) {
	var buf bytes.Buffer
	h := newHooks(&buf, Options{})

	h.SelfHeal("user:42", "checksum")

	recs := records(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r["msg"] != "rtcache.self_heal" || r["reason"] != "checksum" {
		t.Fatalf("record: %v", r)
	}
	if key, _ := r["key"].(string); len(key) != 16 || key == "user:42" {
		t.Fatalf("key not redacted: %q", key)
	}
}

func TestCustomRedactor(t *testing.T) {
	var buf bytes.Buffer
	h := newHooks(&buf, Options{Redact: func(string) string { return "***" }})

	h.LoadFailed("user:1", errors.New("db down"))

	r := records(t, &buf)[0]
	if r["key"] != "***" || r["err"] != "db down" {
		t.Fatalf("record: %v", r)
	}
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := newHooks(&buf, Options{SelfHealEvery: 5, HitEvery: 2})

	for i := 0; i < 10; i++ {
		h.SelfHeal("k", "corrupt")
		h.Hit("k")
		h.Miss("k") // MissEvery unset: never logged
	}

	var heals, hits, misses int
	for _, r := range records(t, &buf) {
		switch r["msg"] {
		case "rtcache.self_heal":
			heals++
		case "rtcache.hit":
			hits++
		case "rtcache.miss":
			misses++
		}
	}
	if heals != 2 || hits != 5 || misses != 0 {
		t.Fatalf("heals=%d hits=%d misses=%d", heals, hits, misses)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	h := New(nil, Options{})
	h.EvictOutage("k", errors.New("a"), errors.New("b"))
	h.SelfHeal("k", "corrupt")
}
