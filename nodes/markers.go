package nodes

import "github.com/sebtreedb/sebtree/base"

// Marker annotates a contiguous run of child pointers in an internal node
// with the block metadata a caller's block allocator assigned them:
// pointerIndex is the first slot index the run covers, running up to
// (but not including) the next marker's pointerIndex or the end of the
// node. blockIndex and blockPagesUsed are opaque to the node core.
type Marker struct {
	PointerIndex   int
	BlockIndex     base.PageIndex
	BlockPagesUsed base.Position
}

func (n *Node[K, V]) markerOffset(i int) int {
	return recordsOffset + n.GetSize()*n.recordSize + i*n.markerSize
}

// markerAt decodes the marker at index i.
func (n *Node[K, V]) markerAt(i int) Marker {
	n.pg.SetPosition(n.markerOffset(i))
	pointerIndex := n.positionEncoder.Decode(n.pg)
	blockIndex := n.pointerEncoder.Decode(n.pg)
	blockPagesUsed := n.positionEncoder.Decode(n.pg)
	return Marker{
		PointerIndex:   int(pointerIndex),
		BlockIndex:     blockIndex,
		BlockPagesUsed: blockPagesUsed,
	}
}

func (n *Node[K, V]) writeMarkerAt(i int, m Marker) {
	n.pg.SetPosition(n.markerOffset(i))
	n.positionEncoder.Encode(base.Position(m.PointerIndex), n.pg)
	n.pointerEncoder.Encode(m.BlockIndex, n.pg)
	n.positionEncoder.Encode(m.BlockPagesUsed, n.pg)
}

// binarySearchMarker returns the same signed search-result convention as
// indexOf, but over the marker array keyed by pointerIndex.
func (n *Node[K, V]) binarySearchMarker(pointerIndex int) int {
	lo, hi := 0, n.GetMarkerCount()-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		p := n.markerAt(mid).PointerIndex
		switch {
		case p < pointerIndex:
			lo = mid + 1
		case p > pointerIndex:
			hi = mid - 1
		default:
			return mid
		}
	}
	return ToInsertionPoint(lo)
}

// markerForPointerAt returns the marker whose PointerIndex equals j, and
// whether one exists.
func (n *Node[K, V]) markerForPointerAt(j int) (Marker, bool) {
	r := n.binarySearchMarker(j)
	if IsInsertionPoint(r) {
		return Marker{}, false
	}
	return n.markerAt(r), true
}

// nearestMarker returns the marker with the largest PointerIndex <=
// pointerIndex, clamped to marker 0 when pointerIndex falls before every
// marker. It panics if there are no markers at all; callers must check
// GetMarkerCount() first.
func (n *Node[K, V]) nearestMarker(pointerIndex int) Marker {
	if n.GetMarkerCount() == 0 {
		panicInvariant("nearestMarker called on a node with no markers")
	}
	r := n.binarySearchMarker(pointerIndex)
	i := ToMinusOneBasedIndex(r)
	if i < 0 {
		i = 0
	}
	return n.markerAt(i)
}

// getLastPointerIndexOfMarkerAt returns the last pointer index covered by
// marker i: size-1 for the last marker, otherwise one less than the next
// marker's PointerIndex.
func (n *Node[K, V]) getLastPointerIndexOfMarkerAt(i int) int {
	if i == n.GetMarkerCount()-1 {
		return n.GetSize() - 1
	}
	return n.markerAt(i+1).PointerIndex - 1
}

// insertMarker opens a gap at marker index i by shifting markers
// [i, markerCount) one marker to the right, writes the new triple there,
// and grows markerCount by one.
func (n *Node[K, V]) insertMarker(i, pointerIndex int, blockIndex base.PageIndex, blockPagesUsed base.Position) {
	count := n.GetMarkerCount()
	if tail := count - i; tail > 0 {
		src := n.markerOffset(i)
		dst := n.markerOffset(i + 1)
		n.pg.MoveData(src, dst, tail*n.markerSize)
	}
	n.setMarkerCount(count + 1)
	n.writeMarkerAt(i, Marker{PointerIndex: pointerIndex, BlockIndex: blockIndex, BlockPagesUsed: blockPagesUsed})
}

// insertMarkerForPointerAt locates the insertion point for pointerIndex
// via binarySearchMarker and inserts the marker there. It panics if a
// marker already exists at that pointer index, matching invariant 4: no
// two markers share a PointerIndex.
func (n *Node[K, V]) insertMarkerForPointerAt(pointerIndex int, blockIndex base.PageIndex, blockPagesUsed base.Position) {
	r := n.binarySearchMarker(pointerIndex)
	if !IsInsertionPoint(r) {
		panicInvariant("marker already exists for pointer index %d", pointerIndex)
	}
	n.insertMarker(ToIndex(r), pointerIndex, blockIndex, blockPagesUsed)
}

// updateMarkerBlockIndex overwrites marker i's BlockIndex only.
func (n *Node[K, V]) updateMarkerBlockIndex(i int, blockIndex base.PageIndex) {
	n.pg.SetPosition(n.markerOffset(i) + n.positionEncoder.MaximumSize())
	n.pointerEncoder.Encode(blockIndex, n.pg)
}

// updateMarkerBlockPagesUsed overwrites marker i's BlockPagesUsed only.
func (n *Node[K, V]) updateMarkerBlockPagesUsed(i int, blockPagesUsed base.Position) {
	n.pg.SetPosition(n.markerOffset(i) + n.positionEncoder.MaximumSize() + n.pointerEncoder.MaximumSize())
	n.positionEncoder.Encode(blockPagesUsed, n.pg)
}

// reindexMarkersAfterInsertPointer bumps every marker's PointerIndex by
// one wherever it was >= the index a new pointer was just inserted at,
// walking from the highest marker down and stopping at the first marker
// that does not need to move since markers stay sorted by PointerIndex.
func (n *Node[K, V]) reindexMarkersAfterInsertPointer(index int) {
	for i := n.GetMarkerCount() - 1; i >= 0; i-- {
		m := n.markerAt(i)
		if m.PointerIndex < index {
			break
		}
		n.pg.SetPosition(n.markerOffset(i))
		n.positionEncoder.Encode(base.Position(m.PointerIndex+1), n.pg)
	}
}
