package nodes

import "github.com/sebtreedb/sebtree/base"

// allocateData carves size bytes off the top of the data heap and returns
// the position callers should write to. The heap grows backward from the
// end of the page, so freeDataPosition only ever moves down.
func (n *Node[K, V]) allocateData(size int) base.Position {
	pos := n.GetFreeDataPosition() - size
	n.setFreeDataPosition(pos)
	return base.Position(pos)
}

// deleteData frees a size-byte blob previously returned by allocateData at
// position. The heap has no free list: freeing anything but the most
// recent allocation leaves a hole in the middle of the heap, so deleteData
// always compacts by sliding every byte below position up by size, then
// walks every slot rewriting whichever out-of-line positions pointed into
// the shifted region. This is O(size of the node), which is why deletes on
// a node with many out-of-line entries are more expensive than the
// slot-array shift alone.
func (n *Node[K, V]) deleteData(position base.Position, size int) {
	if size <= 0 {
		return
	}
	free := n.GetFreeDataPosition()
	shiftLen := int(position) - free
	if shiftLen > 0 {
		n.pg.MoveData(free, free+size, shiftLen)
	}
	n.setFreeDataPosition(free + size)
	n.shiftHeapPositionsBelow(position, size)
}

// shiftHeapPositionsBelow adds delta to every out-of-line key/value
// position strictly less than boundary, matching the compaction deleteData
// just performed.
func (n *Node[K, V]) shiftHeapPositionsBelow(boundary base.Position, delta int) {
	size := n.GetSize()
	for i := 0; i < size; i++ {
		if !n.keysInlined {
			if pos := n.keyHeapPositionAt(i); pos < boundary {
				n.rewriteKeyHeapPosition(i, pos+base.Position(delta))
			}
		}
		if n.IsLeaf() && !n.valuesInlined {
			if pos := n.valueHeapPositionAt(i); pos < boundary {
				n.rewriteValueHeapPosition(i, pos+base.Position(delta))
			}
		}
	}
}

func (n *Node[K, V]) rewriteKeyHeapPosition(i int, pos base.Position) {
	n.pg.SetPosition(n.slotOffset(i))
	n.positionEncoder.Encode(pos, n.pg)
}

func (n *Node[K, V]) rewriteValueHeapPosition(i int, pos base.Position) {
	n.pg.SetPosition(n.slotOffset(i) + n.valueOffsetInSlot())
	n.positionEncoder.Encode(pos, n.pg)
}
