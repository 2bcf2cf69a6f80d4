package encoders

import (
	"encoding/binary"

	"github.com/sebtreedb/sebtree/base"
)

// PositionEncoder is the fixed two-byte encoder used for in-page offsets:
// slot key/value position pointers and the pointerIndex/blockPagesUsed
// fields of a marker.
type PositionEncoder struct{}

func (PositionEncoder) Encode(value base.Position, cur Cursor) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(value))
	cur.Write(buf[:])
}

func (PositionEncoder) Decode(cur Cursor) base.Position {
	return base.Position(binary.BigEndian.Uint16(cur.Read(2)))
}

func (PositionEncoder) ExactSizeInStream(Cursor) int { return 2 }
func (PositionEncoder) IsOfBoundSize() bool          { return true }
func (PositionEncoder) MaximumSize() int             { return 2 }

// PointerEncoder is the fixed eight-byte encoder used for child pointers
// (internal node values) and marker block indexes.
type PointerEncoder struct{}

func (PointerEncoder) Encode(value base.PageIndex, cur Cursor) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(value))
	cur.Write(buf[:])
}

func (PointerEncoder) Decode(cur Cursor) base.PageIndex {
	return base.PageIndex(binary.BigEndian.Uint64(cur.Read(8)))
}

func (PointerEncoder) ExactSizeInStream(Cursor) int { return 8 }
func (PointerEncoder) IsOfBoundSize() bool          { return true }
func (PointerEncoder) MaximumSize() int             { return 8 }

// FlagsEncoder is the fixed one-byte encoder used for the optional
// per-record flags byte (currently only the tombstone bit).
type FlagsEncoder struct{}

func (FlagsEncoder) Encode(value byte, cur Cursor) {
	cur.Write([]byte{value})
}

func (FlagsEncoder) Decode(cur Cursor) byte {
	return cur.Read(1)[0]
}

func (FlagsEncoder) ExactSizeInStream(Cursor) int { return 1 }
func (FlagsEncoder) IsOfBoundSize() bool          { return true }
func (FlagsEncoder) MaximumSize() int             { return 1 }

var (
	// PositionProvider is the well-known provider for in-page offsets.
	PositionProvider = Constant[base.Position](PositionEncoder{})

	// PointerProvider is the well-known provider for child pointers.
	PointerProvider = Constant[base.PageIndex](PointerEncoder{})

	// FlagsProvider is the well-known provider for the record-flags byte.
	FlagsProvider = Constant[byte](FlagsEncoder{})
)
