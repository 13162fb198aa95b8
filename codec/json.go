package codec

import "encoding/json"

// JSON encodes values with encoding/json. The zero value is ready to use.
//
// It is the codec to pick with Options.Raw when other services read or write
// the same keys: the stored bytes are exactly what json.Marshal produced.
// Unknown fields in stored documents are ignored on Decode, so writers may add
// fields before readers know about them.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
