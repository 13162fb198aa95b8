package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses the output of an inner codec. Worth it for large, repetitive
// values (JSON documents, rendered pages); for small values the frame overhead
// outweighs the gain.
//
// The zero value is NOT ready to use. Construct with NewZstd.
type Zstd[V any] struct {
	inner Codec[V]
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

var _ Codec[string] = (*Zstd[string])(nil)

// ZstdConfig tunes NewZstd. The zero value picks zstd defaults.
type ZstdConfig struct {
	Level zstd.EncoderLevel
	// MaxDecodedSize bounds the decompressed size of one entry; 0 means 64 MiB.
	MaxDecodedSize uint64
}

func NewZstd[V any](inner Codec[V], cfg ZstdConfig) (*Zstd[V], error) {
	if inner == nil {
		return nil, fmt.Errorf("codec: zstd inner codec is nil")
	}
	level := cfg.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	maxSize := cfg.MaxDecodedSize
	if maxSize == 0 {
		maxSize = 64 << 20
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxSize), zstd.WithDecoderConcurrency(0))
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	return &Zstd[V]{inner: inner, enc: enc, dec: dec}, nil
}

func (c *Zstd[V]) Encode(v V) ([]byte, error) {
	b, err := c.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(b, make([]byte, 0, len(b)/2)), nil
}

func (c *Zstd[V]) Decode(b []byte) (V, error) {
	raw, err := c.dec.DecodeAll(b, nil)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("codec: zstd: %w", err)
	}
	return c.inner.Decode(raw)
}

// Close releases the decoder's goroutines. The codec must not be used afterwards.
func (c *Zstd[V]) Close() {
	_ = c.enc.Close()
	c.dec.Close()
}
