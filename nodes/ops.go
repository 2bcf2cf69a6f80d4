package nodes

import "github.com/sebtreedb/sebtree/base"

func (n *Node[K, V]) writeFlagsAt(i int, flags byte) {
	n.pg.SetPosition(n.flagsOffsetIn(n.slotOffset(i)))
	n.flagsEncoder.Encode(flags, n.pg)
}

// InsertValue inserts a leaf key/value record at index, which the caller
// obtained from ToIndex on a miss search result. Space accounting is the
// caller's responsibility via CheckEntrySize/deltaFits before calling.
func (n *Node[K, V]) InsertValue(index int, key K, keySize int, value V, valueSize int) {
	n.allocateRecord(index)

	if n.keysInlined {
		n.setKeyAt(index, key, 0)
	} else {
		n.setKeyAt(index, key, n.allocateData(keySize))
	}

	if n.valuesInlined {
		n.setValueAt(index, value, 0)
	} else {
		n.setValueAt(index, value, n.allocateData(valueSize))
	}

	if n.hasRecordFlags() {
		n.writeFlagsAt(index, 0)
	}
}

// InsertTombstone inserts a leaf record whose value is logically deleted:
// the key is stored as usual but no value is encoded and the tombstone
// bit is set. Only legal on a node built with hasRecordFlags.
func (n *Node[K, V]) InsertTombstone(index int, key K, keySize int) {
	if !n.hasRecordFlags() {
		panicInvariant("insertTombstone requires HAS_RECORD_FLAGS")
	}

	n.allocateRecord(index)

	if n.keysInlined {
		n.setKeyAt(index, key, 0)
	} else {
		n.setKeyAt(index, key, n.allocateData(keySize))
	}

	n.writeFlagsAt(index, tombstoneRecordFlagMask)
}

// InsertPointer inserts an internal-node key/child-pointer record at
// index, then reindexes every marker whose PointerIndex was >= index.
func (n *Node[K, V]) InsertPointer(index int, key K, keySize int, childPointer base.PageIndex) {
	n.allocateRecord(index)

	if n.keysInlined {
		n.setKeyAt(index, key, 0)
	} else {
		n.setKeyAt(index, key, n.allocateData(keySize))
	}
	n.setPointerAt(index, childPointer)

	n.reindexMarkersAfterInsertPointer(index)
}

// UpdateValue overwrites the value at a live leaf slot. currentValueSize
// and wasTombstone describe the value being replaced so the heap blob can
// be reused in place, resized, or allocated fresh as needed.
func (n *Node[K, V]) UpdateValue(index int, value V, valueSize, currentValueSize int, wasTombstone bool) {
	if n.valuesInlined {
		n.setValueAt(index, value, 0)
	} else if currentValueSize != valueSize || wasTombstone {
		if !wasTombstone {
			n.deleteData(n.valueHeapPositionAt(index), currentValueSize)
		}
		n.setValueAt(index, value, n.allocateData(valueSize))
	} else {
		pos := n.valueHeapPositionAt(index)
		n.pg.SetPosition(int(pos))
		n.valueEncoder.Encode(value, n.pg)
	}

	if wasTombstone {
		n.setTombstoneAt(index, false)
	}
}

// Delete removes the record at index. In tombstone mode on a leaf, it
// marks the slot dead and frees only the value blob; otherwise it frees
// the key blob and (on a leaf) the value blob, then closes the slot gap.
func (n *Node[K, V]) Delete(index, keySize, valueSize int) {
	if n.IsLeaf() && n.tombstoneDelete {
		if !n.valuesInlined {
			n.deleteData(n.valueHeapPositionAt(index), valueSize)
		}
		n.setTombstoneAt(index, true)
		return
	}

	if !n.keysInlined {
		n.deleteData(n.keyHeapPositionAt(index), keySize)
	}
	if n.IsLeaf() && !n.valuesInlined {
		n.deleteData(n.valueHeapPositionAt(index), valueSize)
	}
	n.deleteRecord(index)
}

// CountEntriesToMoveUntilHalfFree walks from the tail of the node summing
// the space each record would free, and returns the smallest record count
// that brings free bytes up to at least half of the page's usable space.
// It stops as soon as that target is met or the walk runs off the front
// of the node, whichever comes first.
func (n *Node[K, V]) CountEntriesToMoveUntilHalfFree() int {
	bytesFree := n.getFreeBytes()
	target := halfSize()
	count := 0

	for i := n.GetSize() - 1; i >= 0 && bytesFree < target; i-- {
		var sz int
		switch {
		case !n.IsLeaf():
			sz = n.fullEntrySize(n.keySizeAt(i), n.pointerEncoder.MaximumSize())
		case n.isTombstoneAt(i):
			sz = n.fullTombstoneSize(n.keySizeAt(i))
		default:
			sz = n.fullEntrySize(n.keySizeAt(i), n.valueSizeAt(i))
		}
		bytesFree += sz
		count++
	}
	return count
}

// clear resets the page to an empty node of the given kind, stamping the
// configured encoders version and tombstone-mode flag, then forces the
// derived layout constants to be recomputed.
func (n *Node[K, V]) clear(leaf bool) {
	flags := uint32(0)
	if leaf {
		flags |= leafFlagMask
		if n.cfg.TombstoneDelete {
			flags |= hasRecordFlagsFlagMask
		}
	}
	flags |= (uint32(n.cfg.EncodersVersion) << encodersVersionShift) & encodersVersionMask

	n.setFlags(flags)
	n.setSize(0)
	n.setMarkerCount(0)
	n.setFreeDataPosition(base.PageSize)
	n.SetTreeSize(0)
	n.SetLeftSibling(base.InvalidPageIndex)
	n.SetRightSibling(base.InvalidPageIndex)
	if !leaf {
		n.SetLeftPointer(base.InvalidPageIndex)
	}

	n.initialize(true)
}

// Create initializes a freshly allocated page as an empty leaf or
// internal node. Must be called exactly once, under beginCreate, before
// any other operation.
func (n *Node[K, V]) Create(leaf bool) {
	n.clear(leaf)
}

// ConvertToNonLeaf re-initializes an empty leaf page as an empty internal
// node in place. It panics if the node still holds records.
func (n *Node[K, V]) ConvertToNonLeaf() {
	if n.GetSize() != 0 {
		panicInvariant("convertToNonLeaf requires an empty node, got size %d", n.GetSize())
	}
	n.clear(false)
}

// CloneFrom overwrites this page with a bytewise copy of other's page,
// copied in fixed-size chunks, then reloads the header cache and derived
// layout constants from the freshly copied bytes.
func (n *Node[K, V]) CloneFrom(other *Node[K, V]) {
	const chunk = 256
	src := other.pg.Bytes()
	for off := 0; off < len(src); off += chunk {
		end := off + chunk
		if end > len(src) {
			end = len(src)
		}
		n.pg.SetPosition(off)
		n.pg.Write(src[off:end])
	}
	n.loadEager()
	n.initialize(true)
}

type leafSnapshot[K, V any] struct {
	key       K
	value     V
	tombstone bool
	keySize   int
	valueSize int
}

// MoveTailToLeaf moves the last length live records of this leaf into
// dest, appending them in order, then rebuilds this node's surviving
// prefix from a snapshot so the data heap ends up fully compacted.
func (n *Node[K, V]) MoveTailToLeaf(dest *Node[K, V], length int) {
	if !n.IsLeaf() || !dest.IsLeaf() {
		panicInvariant("MoveTailToLeaf requires two leaves")
	}

	size := n.GetSize()
	start := size - length

	for i := start; i < size; i++ {
		key := n.keyAt(i)
		keySize := n.keySizeAt(i)
		if n.isTombstoneAt(i) {
			dest.InsertTombstone(dest.GetSize(), key, keySize)
			continue
		}
		dest.InsertValue(dest.GetSize(), key, keySize, n.valueAt(i), n.valueSizeAt(i))
	}

	prefix := make([]leafSnapshot[K, V], start)
	for i := 0; i < start; i++ {
		s := leafSnapshot[K, V]{key: n.keyAt(i), tombstone: n.isTombstoneAt(i), keySize: n.keySizeAt(i)}
		if !s.tombstone {
			s.value = n.valueAt(i)
			s.valueSize = n.valueSizeAt(i)
		}
		prefix[i] = s
	}

	n.clear(true)

	for i, s := range prefix {
		if s.tombstone {
			n.InsertTombstone(i, s.key, s.keySize)
		} else {
			n.InsertValue(i, s.key, s.keySize, s.value, s.valueSize)
		}
	}
}

type pointerSnapshot[K any] struct {
	key     K
	pointer base.PageIndex
	keySize int
}

// MoveTailToNonLeaf moves the last length live records of this internal
// node into dest, along with every marker whose PointerIndex fell in that
// range (rebased to dest's numbering), then rebuilds the surviving
// prefix of both slots and markers from a snapshot.
//
// The first marker of the source, if any, must never be part of the
// moved range: it covers the node's leftPointer, which always stays
// behind. Callers must size splits so that holds; this only asserts it.
func (n *Node[K, V]) MoveTailToNonLeaf(dest *Node[K, V], length int) {
	if n.IsLeaf() || dest.IsLeaf() {
		panicInvariant("MoveTailToNonLeaf requires two internal nodes")
	}

	size := n.GetSize()
	start := size - length
	if n.GetMarkerCount() > 0 && n.markerAt(0).PointerIndex >= start {
		panicInvariant("MoveTailToNonLeaf would move the first marker out of the source")
	}

	for i := start; i < size; i++ {
		dest.InsertPointer(dest.GetSize(), n.keyAt(i), n.keySizeAt(i), n.pointerAt(i))
	}

	markerCount := n.GetMarkerCount()
	splitAt := markerCount
	for i := 0; i < markerCount; i++ {
		if n.markerAt(i).PointerIndex >= start {
			splitAt = i
			break
		}
	}
	movedMarkers := make([]Marker, markerCount-splitAt)
	for i := splitAt; i < markerCount; i++ {
		m := n.markerAt(i)
		m.PointerIndex -= start
		movedMarkers[i-splitAt] = m
	}

	prefix := make([]pointerSnapshot[K], start)
	for i := 0; i < start; i++ {
		prefix[i] = pointerSnapshot[K]{key: n.keyAt(i), pointer: n.pointerAt(i), keySize: n.keySizeAt(i)}
	}
	retainedMarkers := make([]Marker, splitAt)
	for i := 0; i < splitAt; i++ {
		retainedMarkers[i] = n.markerAt(i)
	}
	leftPointer := n.GetLeftPointer()

	n.clear(false)
	n.SetLeftPointer(leftPointer)

	for i, s := range prefix {
		n.InsertPointer(i, s.key, s.keySize, s.pointer)
	}
	for _, m := range retainedMarkers {
		n.insertMarker(n.GetMarkerCount(), m.PointerIndex, m.BlockIndex, m.BlockPagesUsed)
	}

	for _, m := range movedMarkers {
		dest.insertMarker(dest.GetMarkerCount(), m.PointerIndex, m.BlockIndex, m.BlockPagesUsed)
	}
}
