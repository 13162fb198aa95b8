// Package wire frames cache entries so that foreign or truncated bytes under a
// cache key are recognised as corruption instead of being fed to a codec.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"
)

const (
	version    byte = 1
	kindSingle byte = 1

	// magic(4) | ver(1) | kind(1) | gen(8) | sum(8) | vlen(4)
	headerLen = 4 + 1 + 1 + 8 + 8 + 4
)

var (
	ErrCorrupt  = errors.New("rtcache: corrupt entry")
	ErrChecksum = errors.New("rtcache: entry checksum mismatch")

	magic4 = [...]byte{'R', 'T', 'C', 'E'}
)

// Entry is a decoded frame. Payload aliases the input slice.
type Entry struct {
	Gen     uint64
	Payload []byte
}

// Encode frames payload:
//
//	magic "RTCE" | ver | kind | gen(u64 be) | xxhash64(payload)(u64 be) | vlen(u32 be) | payload
func Encode(gen uint64, payload []byte) []byte {
	buf := make([]byte, headerLen, headerLen+len(payload))
	copy(buf, magic4[:])
	buf[4] = version
	buf[5] = kindSingle
	binary.BigEndian.PutUint64(buf[6:14], gen)
	binary.BigEndian.PutUint64(buf[14:22], xxhash.Sum64(payload))
	binary.BigEndian.PutUint32(buf[22:26], uint32(len(payload)))
	return append(buf, payload...)
}

// Decode validates a frame. Anything other than exactly one well-formed frame
// (wrong magic, unknown version, short read, trailing bytes) is ErrCorrupt;
// a payload that does not match its checksum is ErrChecksum.
func Decode(b []byte) (Entry, error) {
	if len(b) < headerLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != version || b[5] != kindSingle {
		return Entry{}, ErrCorrupt
	}
	gen := binary.BigEndian.Uint64(b[6:14])
	sum := binary.BigEndian.Uint64(b[14:22])
	vlen := binary.BigEndian.Uint32(b[22:26])
	if uint64(vlen) != uint64(len(b)-headerLen) {
		return Entry{}, ErrCorrupt
	}
	payload := b[headerLen:]
	if xxhash.Sum64(payload) != sum {
		return Entry{}, ErrChecksum
	}
	return Entry{Gen: gen, Payload: payload}, nil
}
