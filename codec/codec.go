// Package codec converts cached values to and from the bytes a provider stores.
//
// A codec must be symmetric: Decode(Encode(v)) yields a value equal to v for
// every v the codec accepts. Decode errors are how the cache recognises a
// corrupt entry, so implementations should fail loudly rather than return a
// half-filled value.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
