package encoders

import "encoding/binary"

// BytesEncoder encodes a []byte as a two-byte big-endian length prefix
// followed by the raw bytes. It reports a bounded maximum size (the cap it
// was constructed with) even though most encoded values are far smaller —
// this is exactly the shape the inlining decision in nodes needs: a
// bounded-but-variable-length encoder whose actual size must be read back
// from the stream.
type BytesEncoder struct {
	maxLen int
}

// NewBytesEncoder returns a BytesEncoder whose MaximumSize is 2+maxLen.
// Encode does not check the value's length: a value longer than maxLen
// is written in full and takes more than MaximumSize bytes.
func NewBytesEncoder(maxLen int) BytesEncoder {
	return BytesEncoder{maxLen: maxLen}
}

func (e BytesEncoder) Encode(value []byte, cur Cursor) {
	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(value)))
	cur.Write(header[:])
	cur.Write(value)
}

func (e BytesEncoder) Decode(cur Cursor) []byte {
	n := binary.BigEndian.Uint16(cur.Read(2))
	return cur.Read(int(n))
}

func (e BytesEncoder) ExactSizeInStream(cur Cursor) int {
	n := binary.BigEndian.Uint16(cur.Read(2))
	return 2 + int(n)
}

func (e BytesEncoder) IsOfBoundSize() bool { return true }
func (e BytesEncoder) MaximumSize() int    { return 2 + e.maxLen }

// BytesProvider returns the well-known provider for a BytesEncoder capped
// at maxLen bytes.
func BytesProvider(maxLen int) Provider[[]byte] {
	return Constant[[]byte](NewBytesEncoder(maxLen))
}

// StringEncoder is BytesEncoder specialised to string, saved the
// []byte<->string conversion at the call site.
type StringEncoder struct {
	inner BytesEncoder
}

// NewStringEncoder returns a StringEncoder whose MaximumSize is 2+maxLen.
// As with NewBytesEncoder, Encode does not check the value's length.
func NewStringEncoder(maxLen int) StringEncoder {
	return StringEncoder{inner: NewBytesEncoder(maxLen)}
}

func (e StringEncoder) Encode(value string, cur Cursor) {
	e.inner.Encode([]byte(value), cur)
}

func (e StringEncoder) Decode(cur Cursor) string {
	return string(e.inner.Decode(cur))
}

func (e StringEncoder) ExactSizeInStream(cur Cursor) int { return e.inner.ExactSizeInStream(cur) }
func (e StringEncoder) IsOfBoundSize() bool              { return e.inner.IsOfBoundSize() }
func (e StringEncoder) MaximumSize() int                 { return e.inner.MaximumSize() }

// StringProvider returns the well-known provider for a StringEncoder
// capped at maxLen bytes.
func StringProvider(maxLen int) Provider[string] {
	return Constant[string](NewStringEncoder(maxLen))
}
