package client

import "github.com/bytedance/sonic"

// Serializer turns values into payload bytes and back.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONSerializer encodes values as JSON. Encoded values never contain a raw
// line break and integers are stored as plain decimals, which keeps them
// usable with Increment and Decrement.
type JSONSerializer struct{}

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (JSONSerializer) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}
