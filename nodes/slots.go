package nodes

import "github.com/sebtreedb/sebtree/base"

// slotOffset returns the byte offset of slot i's fixed-width record. The
// slot array always starts right after the header and grows forward, one
// record per live entry, regardless of node kind.
func (n *Node[K, V]) slotOffset(i int) int {
	return recordsOffset + i*n.recordSize
}

func (n *Node[K, V]) flagsOffsetIn(slot int) int {
	return slot + n.recordSize - n.flagsEncoder.MaximumSize()
}

// isTombstoneAt reports whether slot i carries the tombstone bit. Only
// meaningful on a leaf built with hasRecordFlags set.
func (n *Node[K, V]) isTombstoneAt(i int) bool {
	if !n.hasRecordFlags() {
		return false
	}
	n.pg.SetPosition(n.flagsOffsetIn(n.slotOffset(i)))
	flags := n.flagsEncoder.Decode(n.pg)
	return flags&tombstoneRecordFlagMask != 0
}

func (n *Node[K, V]) setTombstoneAt(i int, tombstone bool) {
	slot := n.slotOffset(i)
	var flags byte
	if n.hasRecordFlags() {
		n.pg.SetPosition(n.flagsOffsetIn(slot))
		flags = n.flagsEncoder.Decode(n.pg)
	}
	if tombstone {
		flags |= tombstoneRecordFlagMask
	} else {
		flags &^= tombstoneRecordFlagMask
	}
	n.pg.SetPosition(n.flagsOffsetIn(slot))
	n.flagsEncoder.Encode(flags, n.pg)
}

// keyAt decodes the key at slot i, following the out-of-line position
// indirection when keys are not inlined.
func (n *Node[K, V]) keyAt(i int) K {
	slot := n.slotOffset(i)
	if n.keysInlined {
		n.pg.SetPosition(slot)
		return n.keyEncoder.Decode(n.pg)
	}
	n.pg.SetPosition(slot)
	pos := n.positionEncoder.Decode(n.pg)
	n.pg.SetPosition(int(pos))
	return n.keyEncoder.Decode(n.pg)
}

// keyHeapPositionAt returns the data heap offset of an out-of-line key.
// Only valid when keys are not inlined.
func (n *Node[K, V]) keyHeapPositionAt(i int) base.Position {
	n.pg.SetPosition(n.slotOffset(i))
	return n.positionEncoder.Decode(n.pg)
}

// setKeyAt writes key into slot i. When keys are inlined the key is
// encoded directly into the slot; otherwise heapPos must already point at
// a heap allocation big enough to hold it, and the slot stores only that
// position.
func (n *Node[K, V]) setKeyAt(i int, key K, heapPos base.Position) {
	slot := n.slotOffset(i)
	if n.keysInlined {
		n.pg.SetPosition(slot)
		n.keyEncoder.Encode(key, n.pg)
		return
	}
	n.pg.SetPosition(slot)
	n.positionEncoder.Encode(heapPos, n.pg)
	n.pg.SetPosition(int(heapPos))
	n.keyEncoder.Encode(key, n.pg)
}

func (n *Node[K, V]) keyOffsetInSlot() int { return 0 }

func (n *Node[K, V]) valueOffsetInSlot() int {
	if n.keysInlined {
		return n.keyEncoder.MaximumSize()
	}
	return n.positionEncoder.MaximumSize()
}

// valueAt decodes the value stored in leaf slot i, following the
// out-of-line indirection when values are not inlined.
func (n *Node[K, V]) valueAt(i int) V {
	slot := n.slotOffset(i) + n.valueOffsetInSlot()
	if n.valuesInlined {
		n.pg.SetPosition(slot)
		return n.valueEncoder.Decode(n.pg)
	}
	n.pg.SetPosition(slot)
	pos := n.positionEncoder.Decode(n.pg)
	n.pg.SetPosition(int(pos))
	return n.valueEncoder.Decode(n.pg)
}

func (n *Node[K, V]) valueHeapPositionAt(i int) base.Position {
	n.pg.SetPosition(n.slotOffset(i) + n.valueOffsetInSlot())
	return n.positionEncoder.Decode(n.pg)
}

// setValueAt writes value into leaf slot i, mirroring setKeyAt's inline /
// out-of-line split.
func (n *Node[K, V]) setValueAt(i int, value V, heapPos base.Position) {
	slot := n.slotOffset(i) + n.valueOffsetInSlot()
	if n.valuesInlined {
		n.pg.SetPosition(slot)
		n.valueEncoder.Encode(value, n.pg)
		return
	}
	n.pg.SetPosition(slot)
	n.positionEncoder.Encode(heapPos, n.pg)
	n.pg.SetPosition(int(heapPos))
	n.valueEncoder.Encode(value, n.pg)
}

// pointerAt decodes the child pointer stored in internal-node slot i.
func (n *Node[K, V]) pointerAt(i int) base.PageIndex {
	n.pg.SetPosition(n.slotOffset(i) + n.valueOffsetInSlot())
	return n.pointerEncoder.Decode(n.pg)
}

// setPointerAt overwrites the child pointer stored in internal-node slot
// i, without disturbing the key.
func (n *Node[K, V]) setPointerAt(i int, pointer base.PageIndex) {
	n.pg.SetPosition(n.slotOffset(i) + n.valueOffsetInSlot())
	n.pointerEncoder.Encode(pointer, n.pg)
}

// keySizeAt returns the number of bytes the key at slot i occupies
// wherever it actually lives: inline in the slot, or as an out-of-line
// blob in the data heap.
func (n *Node[K, V]) keySizeAt(i int) int {
	if n.keysInlined {
		return n.keyEncoder.MaximumSize()
	}
	n.pg.SetPosition(int(n.keyHeapPositionAt(i)))
	return n.keyEncoder.ExactSizeInStream(n.pg)
}

// valueSizeAt is keySizeAt's counterpart for leaf values.
func (n *Node[K, V]) valueSizeAt(i int) int {
	if n.valuesInlined {
		return n.valueEncoder.MaximumSize()
	}
	n.pg.SetPosition(int(n.valueHeapPositionAt(i)))
	return n.valueEncoder.ExactSizeInStream(n.pg)
}

// markerRegionSize returns the number of bytes currently occupied by the
// marker array. Always zero on a leaf.
func (n *Node[K, V]) markerRegionSize() int {
	if n.IsLeaf() {
		return 0
	}
	return n.GetMarkerCount() * n.markerSize
}

// allocateRecord opens a one-slot gap at index by shifting every slot from
// index onward, together with the whole trailing marker region (markers
// sit immediately after the last live slot), one record to the right.
// Then it grows the live size by one. The caller is responsible for
// filling the new slot's bytes.
func (n *Node[K, V]) allocateRecord(index int) {
	size := n.GetSize()
	tailBytes := (size-index)*n.recordSize + n.markerRegionSize()
	if tailBytes > 0 {
		src := n.slotOffset(index)
		dst := n.slotOffset(index + 1)
		n.pg.MoveData(src, dst, tailBytes)
	}
	n.setSize(size + 1)
}

// deleteRecord closes the one-slot gap at index by shifting every slot
// after it, together with the trailing marker region, one record to the
// left. Then it shrinks the live size by one.
func (n *Node[K, V]) deleteRecord(index int) {
	size := n.GetSize()
	tailBytes := (size-index-1)*n.recordSize + n.markerRegionSize()
	if tailBytes > 0 {
		src := n.slotOffset(index + 1)
		dst := n.slotOffset(index)
		n.pg.MoveData(src, dst, tailBytes)
	}
	n.setSize(size - 1)
}
