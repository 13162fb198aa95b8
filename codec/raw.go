package codec

var (
	_ Codec[[]byte] = Bytes{}
	_ Codec[string] = String{}
)

// Bytes passes []byte values through unchanged. Get returns a slice the cache
// no longer references, so callers may modify it.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String stores Go strings as their UTF-8 bytes. No validation is done.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
