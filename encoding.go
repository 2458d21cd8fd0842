package hive

import (
	"encoding/json"
)

// Marshaler interface specifies encoding to byte array and back to the object.
// The client uses it for wire bodies and for canonicalizing claimed transfer
// payloads before they are memoized.
type Marshaler interface {
	// Encodes any object to byte array.
	Marshal(v any) ([]byte, error)
	// Decodes byte array back to its Object type.
	Unmarshal(data []byte, v any) error
}

// DefaultMarshaler is the global default marshaler. The wire request builders
// encode through it; replace it to swap the JSON codec process-wide.
var DefaultMarshaler = NewMarshaler()

type jsonMarshaler struct{}

// NewMarshaler returns the default marshaler which uses golang's json package.
func NewMarshaler() Marshaler {
	return &jsonMarshaler{}
}

func (m jsonMarshaler) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (m jsonMarshaler) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
