// Package encoders provides the generic Encoder abstraction that node
// pages use to read and write keys, values and the small set of internal
// primitives (positions, pointers, record-flag bytes) they are built from.
//
// A node never hard-codes a wire format: it is parameterized over
// Encoder[K] and Encoder[V] supplied by the caller, and it asks the
// registry for the position/pointer/byte encoders that belong to a given
// encoders version. This is what lets the same node implementation back a
// tree of int64 keys and one of string keys without any type-switching in
// the hot path.
package encoders

import "github.com/sebtreedb/sebtree/base"

// Cursor is the minimal read/write/seek surface an Encoder needs. A page
// implements Cursor directly, so encoders operate on the page buffer
// without knowing anything about slots, headers or markers.
type Cursor interface {
	GetPosition() int
	SetPosition(pos int)
	Seek(delta int)
	Read(n int) []byte
	Write(p []byte)
}

// Encoder reads and writes values of type T against a Cursor.
//
// ExactSizeInStream must determine the number of bytes the next encoded
// value occupies by looking at the stream starting at the cursor's current
// position, without relying on any state beyond what is reachable from the
// cursor. Implementations are free to leave the cursor anywhere after the
// call; callers always reposition before decoding.
type Encoder[T any] interface {
	Encode(value T, cur Cursor)
	Decode(cur Cursor) T
	ExactSizeInStream(cur Cursor) int
	IsOfBoundSize() bool
	MaximumSize() int
}

// Provider resolves the Encoder that a given encoders version implies.
// Most providers in this package are version-independent and simply
// return the same encoder for every version; a real deployment that
// changes wire formats across versions would branch here.
type Provider[T any] interface {
	Encoder(version base.EncodersVersion) Encoder[T]
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc[T any] func(version base.EncodersVersion) Encoder[T]

func (f ProviderFunc[T]) Encoder(version base.EncodersVersion) Encoder[T] {
	return f(version)
}

// Constant returns a Provider that ignores the version and always answers
// with the same encoder. Almost every built-in encoder in this package is
// used this way.
func Constant[T any](enc Encoder[T]) Provider[T] {
	return ProviderFunc[T](func(base.EncodersVersion) Encoder[T] { return enc })
}
