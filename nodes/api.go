package nodes

import "github.com/sebtreedb/sebtree/base"

// This file collects the small read-only accessors and marker operations
// that round out the public surface: everything a caller needs beyond the
// mutating operations already exported from ops.go.

// IndexOf searches for key among the live slots and returns a signed
// search result: a non-negative hit index, or a negative miss encoding
// the insertion point (see ToIndex/ToInsertionPoint).
func (n *Node[K, V]) IndexOf(key K) int { return indexOf(n, key) }

// KeyAt decodes the key stored at slot i.
func (n *Node[K, V]) KeyAt(i int) K { return n.keyAt(i) }

// ValueAt decodes the value stored at leaf slot i. Undefined on a
// tombstoned slot; check IsTombstoneRecord first.
func (n *Node[K, V]) ValueAt(i int) V { return n.valueAt(i) }

// PointerAt decodes the child pointer stored at internal-node slot i.
func (n *Node[K, V]) PointerAt(i int) base.PageIndex { return n.pointerAt(i) }

// PointerAtResult resolves a search result to the child pointer a
// descending search should follow: on a hit, the pointer at that index;
// on a miss, the pointer of the closest key below it, or the node's left
// pointer if the key is smaller than every live key.
func (n *Node[K, V]) PointerAtResult(result int) base.PageIndex { return pointerAtResult(n, result) }

// KeySizeAt returns the number of bytes the key at slot i occupies,
// inline or in the data heap.
func (n *Node[K, V]) KeySizeAt(i int) int { return n.keySizeAt(i) }

// ValueSizeAt returns the number of bytes the value at leaf slot i
// occupies. When tombstone is true it reports zero without reading the
// slot, since a tombstone's value blob (if it ever had one) has already
// been freed; the slot's own tombstone bit is not consulted.
func (n *Node[K, V]) ValueSizeAt(i int, tombstone bool) int {
	if tombstone {
		return 0
	}
	return n.valueSizeAt(i)
}

// IsTombstoneRecord reports whether slot i is a tombstoned leaf record.
func (n *Node[K, V]) IsTombstoneRecord(i int) bool { return n.isTombstoneAt(i) }

// MarkerAt decodes the marker at marker-array index i.
func (n *Node[K, V]) MarkerAt(i int) Marker { return n.markerAt(i) }

// MarkerForPointerAt returns the marker whose PointerIndex equals j, if
// one exists.
func (n *Node[K, V]) MarkerForPointerAt(j int) (Marker, bool) { return n.markerForPointerAt(j) }

// NearestMarker returns the marker with the largest PointerIndex <=
// pointerIndex, clamped to marker 0.
func (n *Node[K, V]) NearestMarker(pointerIndex int) Marker { return n.nearestMarker(pointerIndex) }

// GetLastPointerIndexOfMarkerAt returns the last child-pointer index
// covered by marker i.
func (n *Node[K, V]) GetLastPointerIndexOfMarkerAt(i int) int {
	return n.getLastPointerIndexOfMarkerAt(i)
}

// InsertMarker inserts a marker at marker-array index i.
func (n *Node[K, V]) InsertMarker(i, pointerIndex int, blockIndex base.PageIndex, blockPagesUsed base.Position) {
	n.insertMarker(i, pointerIndex, blockIndex, blockPagesUsed)
}

// InsertMarkerForPointerAt locates the correct marker-array slot for
// pointerIndex and inserts the marker there.
func (n *Node[K, V]) InsertMarkerForPointerAt(pointerIndex int, blockIndex base.PageIndex, blockPagesUsed base.Position) {
	n.insertMarkerForPointerAt(pointerIndex, blockIndex, blockPagesUsed)
}

// UpdateMarkerBlockIndex overwrites marker i's BlockIndex in place.
func (n *Node[K, V]) UpdateMarkerBlockIndex(i int, blockIndex base.PageIndex) {
	n.updateMarkerBlockIndex(i, blockIndex)
}

// UpdateMarkerBlockPagesUsed overwrites marker i's BlockPagesUsed in
// place.
func (n *Node[K, V]) UpdateMarkerBlockPagesUsed(i int, blockPagesUsed base.Position) {
	n.updateMarkerBlockPagesUsed(i, blockPagesUsed)
}

// BinarySearchMarker searches the marker array for pointerIndex, using
// the same signed search-result convention as IndexOf.
func (n *Node[K, V]) BinarySearchMarker(pointerIndex int) int { return n.binarySearchMarker(pointerIndex) }

// GetFreeBytes returns how many bytes remain between the live
// slot/marker area and the data heap.
func (n *Node[K, V]) GetFreeBytes() int { return n.getFreeBytes() }

// DeltaFits reports whether bytes more of heap/slot space is currently
// available.
func (n *Node[K, V]) DeltaFits(bytes int) bool { return n.deltaFits(bytes) }

// MarkerFits reports whether one more marker fits in the current free
// space.
func (n *Node[K, V]) MarkerFits() bool { return n.markerFits() }

// FullEntrySize returns the number of bytes a leaf entry (or, for an
// internal node, a key/pointer pair passed as valueSize=pointer width)
// with the given sizes costs once inserted.
func (n *Node[K, V]) FullEntrySize(keySize, valueSize int) int { return n.fullEntrySize(keySize, valueSize) }

// FullTombstoneSize returns the space a tombstoned leaf record occupies.
func (n *Node[K, V]) FullTombstoneSize(keySize int) int { return n.fullTombstoneSize(keySize) }
