// Package nodes implements the page node of an SEB-tree: the fixed-size
// unit of storage, caching and locking that a B+-tree built on top of it
// treats as a black box exposing search, insert, update, delete and
// split-tail primitives.
//
// A page is laid out as:
//
//	+--------+------------------+-------------------+
//	| header |   slot array ->  |  marker array ->   |
//	+--------+------------------+-------------------+
//	|                <- data heap                    |
//	+-------------------------------------------------+
//
// The slot array grows forward from the header, one fixed-width slot per
// live record. Internal nodes keep a marker array immediately after the
// live slots, also forward-growing. The data heap holds out-of-line key
// and value bytes and grows backward from the end of the page. Everything
// in between is free space.
package nodes

import (
	"github.com/sebtreedb/sebtree/base"
	"github.com/sebtreedb/sebtree/encoders"
	"github.com/sebtreedb/sebtree/page"
)

// nodeHeader is the cached, dirty-tracked view over the fixed-offset
// header fields described in layout.go. Only the five fields below are
// cached; leftPointer, leftSibling and rightSibling are read/written
// straight through to the page.
type nodeHeader struct {
	freeDataPosition int
	flags            uint32
	size             int
	treeSize         uint64
	markerCount      int

	loaded uint8
	dirty  uint8
}

func (h *nodeHeader) absent(field uint8) bool { return h.loaded&field == 0 }
func (h *nodeHeader) isDirty(field uint8) bool { return h.dirty&field != 0 }
func (h *nodeHeader) markLoaded(field uint8)   { h.loaded |= field }
func (h *nodeHeader) markChanged(field uint8) {
	h.dirty |= field
	h.loaded |= field
}

// Node is a session over a single page, parameterized by the key and
// value types it stores. A caller obtains a Node from a page handle,
// calls BeginRead/BeginWrite/BeginCreate to latch the page, performs
// operations, then calls the matching End method.
type Node[K, V any] struct {
	pg              *page.Page
	registry        encoders.Registry[K, V]
	cfg             Config
	compare         func(a, b K) int
	tombstoneDelete bool

	header nodeHeader

	keyEncoder      encoders.Encoder[K]
	valueEncoder    encoders.Encoder[V]
	positionEncoder encoders.Encoder[base.Position]
	pointerEncoder  encoders.Encoder[base.PageIndex]
	flagsEncoder    encoders.Encoder[byte]

	keysInlined   bool
	valuesInlined bool
	recordSize    int
	markerSize    int
}

// New creates a Node session over pg. compare must be a strict total order
// over K; see NaturalOrder for a ready-made comparator over ordered
// primitive types.
func New[K, V any](pg *page.Page, registry encoders.Registry[K, V], cfg Config, compare func(a, b K) int) *Node[K, V] {
	return &Node[K, V]{
		pg:              pg,
		registry:        registry,
		cfg:             cfg,
		compare:         compare,
		tombstoneDelete: cfg.TombstoneDelete,
	}
}

// GetPageIndex returns the identity of the underlying page.
func (n *Node[K, V]) GetPageIndex() base.PageIndex {
	return n.pg.GetPageIndex()
}

func (n *Node[K, V]) getFlag(mask uint32) bool {
	return n.header.flags&mask != 0
}

func (n *Node[K, V]) setFlag(mask uint32, value bool) {
	if value {
		n.setFlags(n.header.flags | mask)
	} else {
		n.setFlags(n.header.flags &^ mask)
	}
}

func (n *Node[K, V]) getFlags() uint32 { return n.header.flags }

func (n *Node[K, V]) setFlags(value uint32) {
	n.header.markChanged(flagsField)
	n.header.flags = value
}

// IsLeaf reports whether this node stores values (true) or child pointers
// and markers (false).
func (n *Node[K, V]) IsLeaf() bool { return n.getFlag(leafFlagMask) }

func (n *Node[K, V]) setLeaf(value bool) { n.setFlag(leafFlagMask, value) }

// IsContinuedFrom reports whether this node continues an over-length
// entry chain from its predecessor. The bit is opaque to the node core:
// it is stored and surfaced only.
func (n *Node[K, V]) IsContinuedFrom() bool { return n.getFlag(continuedFromFlagMask) }

// SetContinuedFrom sets the continued-from flag.
func (n *Node[K, V]) SetContinuedFrom(value bool) { n.setFlag(continuedFromFlagMask, value) }

// IsContinuedTo reports whether this node's last entry continues onto its
// successor.
func (n *Node[K, V]) IsContinuedTo() bool { return n.getFlag(continuedToFlagMask) }

// SetContinuedTo sets the continued-to flag.
func (n *Node[K, V]) SetContinuedTo(value bool) { n.setFlag(continuedToFlagMask, value) }

func (n *Node[K, V]) hasRecordFlags() bool { return n.getFlag(hasRecordFlagsFlagMask) }

func (n *Node[K, V]) setHasRecordFlags(value bool) { n.setFlag(hasRecordFlagsFlagMask, value) }

// GetEncodersVersion returns the encoders version this page was stamped
// with, extracted from the high byte of the flags field.
func (n *Node[K, V]) GetEncodersVersion() base.EncodersVersion {
	return base.EncodersVersion((n.getFlags() & encodersVersionMask) >> encodersVersionShift)
}

func (n *Node[K, V]) setEncodersVersion(value base.EncodersVersion) {
	n.setFlags((uint32(value) << encodersVersionShift & encodersVersionMask) | (n.getFlags() &^ encodersVersionMask))
}

// GetSize returns the number of live slots.
func (n *Node[K, V]) GetSize() int { return n.header.size }

func (n *Node[K, V]) setSize(value int) {
	n.header.markChanged(sizeField)
	n.header.size = value
}

// GetTreeSize returns the subtree record count. The node only stores this
// value; maintaining it across inserts/deletes/splits is the caller's
// responsibility.
func (n *Node[K, V]) GetTreeSize() uint64 {
	if n.header.absent(treeSizeField) {
		n.header.treeSize = n.pg.GetLongValue(treeSizeOffset)
		n.header.markLoaded(treeSizeField)
	}
	return n.header.treeSize
}

// SetTreeSize overwrites the subtree record count.
func (n *Node[K, V]) SetTreeSize(value uint64) {
	n.header.markChanged(treeSizeField)
	n.header.treeSize = value
}

// GetMarkerCount returns the number of markers currently stored. Always
// zero on a leaf.
func (n *Node[K, V]) GetMarkerCount() int {
	if n.header.absent(markerCountField) {
		n.header.markerCount = int(n.pg.GetIntValue(markerCountOffset))
		n.header.markLoaded(markerCountField)
	}
	return n.header.markerCount
}

func (n *Node[K, V]) setMarkerCount(value int) {
	n.header.markChanged(markerCountField)
	n.header.markerCount = value
}

// GetFreeDataPosition returns the first byte of the data heap.
func (n *Node[K, V]) GetFreeDataPosition() int {
	if n.header.absent(freeDataPositionField) {
		n.header.freeDataPosition = int(n.pg.GetIntValue(freeDataPositionOffset))
		n.header.markLoaded(freeDataPositionField)
	}
	return n.header.freeDataPosition
}

func (n *Node[K, V]) setFreeDataPosition(value int) {
	n.header.markChanged(freeDataPositionField)
	n.header.freeDataPosition = value
}

// GetLeftPointer returns the child pointer for keys strictly less than
// keyAt(0). Only valid on an internal node.
func (n *Node[K, V]) GetLeftPointer() base.PageIndex {
	if n.IsLeaf() {
		panicInvariant("GetLeftPointer called on a leaf")
	}
	return base.PageIndex(n.pg.GetLongValue(leftPointerOffset))
}

// SetLeftPointer overwrites the left pointer. Only valid on an internal
// node.
func (n *Node[K, V]) SetLeftPointer(pointer base.PageIndex) {
	if n.IsLeaf() {
		panicInvariant("SetLeftPointer called on a leaf")
	}
	n.pg.SetLongValue(leftPointerOffset, uint64(pointer))
}

// GetLeftSibling returns the left sibling pointer, or base.InvalidPageIndex
// if this is the leftmost node at its level.
func (n *Node[K, V]) GetLeftSibling() base.PageIndex {
	return base.PageIndex(n.pg.GetLongValue(leftSiblingOffset))
}

// SetLeftSibling overwrites the left sibling pointer.
func (n *Node[K, V]) SetLeftSibling(pointer base.PageIndex) {
	n.pg.SetLongValue(leftSiblingOffset, uint64(pointer))
}

// GetRightSibling returns the right sibling pointer, or
// base.InvalidPageIndex if this is the rightmost node at its level.
func (n *Node[K, V]) GetRightSibling() base.PageIndex {
	return base.PageIndex(n.pg.GetLongValue(rightSiblingOffset))
}

// SetRightSibling overwrites the right sibling pointer.
func (n *Node[K, V]) SetRightSibling(pointer base.PageIndex) {
	n.pg.SetLongValue(rightSiblingOffset, uint64(pointer))
}

// IsLeftmost reports whether this node has no left sibling.
func (n *Node[K, V]) IsLeftmost() bool { return n.GetLeftSibling() == base.InvalidPageIndex }

// IsRightmost reports whether this node has no right sibling.
func (n *Node[K, V]) IsRightmost() bool { return n.GetRightSibling() == base.InvalidPageIndex }

// initialize computes the derived layout constants (which encoders apply,
// whether keys/values are inlined, record and marker sizes) once per latch
// session, or unconditionally when force is set by Create/ConvertToNonLeaf
// since the flags that drive these constants just changed.
func (n *Node[K, V]) initialize(force bool) {
	if n.keyEncoder != nil && !force {
		return
	}

	version := n.GetEncodersVersion()
	n.keyEncoder = n.registry.KeyEncoder(version)
	n.valueEncoder = n.registry.ValueEncoder(version)
	n.positionEncoder = n.registry.PositionEncoder(version)
	n.pointerEncoder = n.registry.PointerEncoder(version)

	n.keysInlined = n.keyEncoder.IsOfBoundSize() && n.keyEncoder.MaximumSize() <= n.cfg.InlineKeysSizeThreshold
	n.valuesInlined = n.valueEncoder.IsOfBoundSize() && n.valueEncoder.MaximumSize() <= n.cfg.InlineValuesSizeThreshold

	if n.keysInlined {
		n.recordSize = n.keyEncoder.MaximumSize()
	} else {
		n.recordSize = n.positionEncoder.MaximumSize()
	}

	if n.IsLeaf() {
		if n.valuesInlined {
			n.recordSize += n.valueEncoder.MaximumSize()
		} else {
			n.recordSize += n.positionEncoder.MaximumSize()
		}
	} else {
		n.recordSize += n.pointerEncoder.MaximumSize()
		n.markerSize = n.positionEncoder.MaximumSize() + n.pointerEncoder.MaximumSize() + n.positionEncoder.MaximumSize()
	}

	if n.hasRecordFlags() {
		n.flagsEncoder = n.registry.FlagsEncoder(version)
		n.recordSize += n.flagsEncoder.MaximumSize()
	}
}
