package rtcache

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a Cache method matches one of these with
// errors.Is, or context.Canceled / context.DeadlineExceeded when the caller's
// ctx ended while waiting for a load. It also matches its underlying cause.
var (
	// ErrNotFound means the Loader reported that no value exists for the key.
	// Loaders signal it by returning an error that wraps ErrNotFound.
	ErrNotFound = errors.New("rtcache: not found")
	// ErrInvalidKey is returned for an empty key.
	ErrInvalidKey = errors.New("rtcache: invalid key")
	// ErrStoreUnavailable wraps a provider (backing store) failure.
	ErrStoreUnavailable = errors.New("rtcache: store unavailable")
	// ErrEncode means the codec could not encode a value; nothing was written.
	ErrEncode = errors.New("rtcache: encode failed")
	// ErrDecode is never returned by Get or Peek: an undecodable entry is
	// treated as a miss. It only appears in self-heal logs.
	ErrDecode = errors.New("rtcache: decode failed")
	// ErrLoad wraps a Loader failure other than ErrNotFound.
	ErrLoad = errors.New("rtcache: load failed")
	// ErrConfig is returned by New for invalid Options.
	ErrConfig = errors.New("rtcache: invalid config")
)

// Error describes a failed cache operation.
type Error struct {
	Op   string // "get", "peek", "put", "populate", "evict"
	Key  string // caller key, not the namespaced storage key
	Kind error  // one of the Err* kinds above, or ctx.Err()
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Key != "" {
		fmt.Fprintf(&b, " %q", e.Key)
	}
	b.WriteString(": ")
	switch {
	case e.Err == nil:
		b.WriteString(e.Kind.Error())
	case errors.Is(e.Err, e.Kind):
		// cause already carries the kind text
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.Error())
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, key string, kind, cause error) *Error {
	if cause == kind {
		cause = nil
	}
	return &Error{Op: op, Key: key, Kind: kind, Err: cause}
}

// EvictError is returned when both the generation bump and the delete failed,
// i.e. the key may still be served from the store. It matches
// ErrStoreUnavailable and both causes.
type EvictError struct {
	Key     string
	BumpErr error
	DelErr  error
}

func (e *EvictError) Error() string {
	return fmt.Sprintf("evict %q failed: gen bump and delete failed: bump=%v; delete=%v",
		e.Key, e.BumpErr, e.DelErr)
}

func (e *EvictError) Unwrap() []error {
	errs := make([]error, 0, 3)
	errs = append(errs, ErrStoreUnavailable)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}
