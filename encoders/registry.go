package encoders

import "github.com/sebtreedb/sebtree/base"

// Registry is the EncoderRegistry a node consults for every encoder it
// needs: the caller-supplied key/value encoders, plus the fixed
// position/pointer/flags encoders every page uses regardless of K and V.
type Registry[K, V any] struct {
	Key      Provider[K]
	Value    Provider[V]
	Position Provider[base.Position]
	Pointer  Provider[base.PageIndex]
	Flags    Provider[byte]
}

// NewRegistry builds a Registry from key/value providers, filling in the
// well-known fixed encoders for position, pointer and flags.
func NewRegistry[K, V any](key Provider[K], value Provider[V]) Registry[K, V] {
	return Registry[K, V]{
		Key:      key,
		Value:    value,
		Position: PositionProvider,
		Pointer:  PointerProvider,
		Flags:    FlagsProvider,
	}
}

func (r Registry[K, V]) KeyEncoder(version base.EncodersVersion) Encoder[K] {
	return r.Key.Encoder(version)
}

func (r Registry[K, V]) ValueEncoder(version base.EncodersVersion) Encoder[V] {
	return r.Value.Encoder(version)
}

func (r Registry[K, V]) PositionEncoder(version base.EncodersVersion) Encoder[base.Position] {
	return r.Position.Encoder(version)
}

func (r Registry[K, V]) PointerEncoder(version base.EncodersVersion) Encoder[base.PageIndex] {
	return r.Pointer.Encoder(version)
}

func (r Registry[K, V]) FlagsEncoder(version base.EncodersVersion) Encoder[byte] {
	return r.Flags.Encoder(version)
}
