package encoders

import "encoding/binary"

// Int64Encoder is a fixed eight-byte, bounded encoder for int64 keys or
// values. It is the simplest concrete Encoder and is used throughout the
// tests as a stand-in for whatever fixed-width key type a real deployment
// plugs in (row ids, timestamps, ...).
type Int64Encoder struct{}

func (Int64Encoder) Encode(value int64, cur Cursor) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(value))
	cur.Write(buf[:])
}

func (Int64Encoder) Decode(cur Cursor) int64 {
	return int64(binary.BigEndian.Uint64(cur.Read(8)))
}

func (Int64Encoder) ExactSizeInStream(Cursor) int { return 8 }
func (Int64Encoder) IsOfBoundSize() bool          { return true }
func (Int64Encoder) MaximumSize() int             { return 8 }

// Int64Provider is the well-known provider for Int64Encoder.
var Int64Provider = Constant[int64](Int64Encoder{})
