package nodes

import "github.com/sebtreedb/sebtree/base"

// Fixed header offsets. Every page reserves this much space up front
// regardless of whether it ends up a leaf or an internal node, so the
// layout stays bit-exact across the two node kinds.
const (
	freeDataPositionOffset = 0
	flagsOffset            = freeDataPositionOffset + 4
	sizeOffset             = flagsOffset + 4
	treeSizeOffset         = sizeOffset + 4
	leftPointerOffset      = treeSizeOffset + 8
	markerCountOffset      = leftPointerOffset + 8
	leftSiblingOffset      = markerCountOffset + 4
	rightSiblingOffset     = leftSiblingOffset + 8

	// recordsOffset is the byte offset of the first slot: the start of
	// the forward-growing slot array.
	recordsOffset = rightSiblingOffset + 8
)

// Header flag bits, packed into the single uint32 flags field.
const (
	leafFlagMask           uint32 = 1 << 0
	continuedFromFlagMask  uint32 = 1 << 1
	continuedToFlagMask    uint32 = 1 << 2
	hasRecordFlagsFlagMask uint32 = 1 << 3
	extensionFlagMask      uint32 = 1 << 15
	encodersVersionMask    uint32 = 0xFF << 24
	encodersVersionShift          = 24
)

// Header field dirty/loaded bits. Only these five fields are cached on the
// node with lazy loading and dirty tracking; leftPointer, leftSibling and
// rightSibling are read and written straight through to the page on every
// access since callers touch them rarely enough that caching would not
// pay for itself.
const (
	freeDataPositionField uint8 = 1 << iota
	flagsField
	sizeField
	treeSizeField
	markerCountField
)

// Record-flags byte, only present when hasRecordFlags is set.
const tombstoneRecordFlagMask byte = 1 << 0

// pageSpace returns the number of bytes available to slots, markers and
// the data heap once the fixed header is accounted for.
func pageSpace() int {
	return base.PageSize - recordsOffset
}

// MaxEntrySize is the largest fullEntrySize a record may report; entries
// larger than this can never fit even in a freshly split, otherwise-empty
// page and must be rejected by the caller before insertion is attempted.
func MaxEntrySize() int {
	return pageSpace() / 3
}

// halfSize is the free-byte target countEntriesToMoveUntilHalfFree moves
// towards: half of the space available for slots/markers/heap.
func halfSize() int {
	return pageSpace() / 2
}
