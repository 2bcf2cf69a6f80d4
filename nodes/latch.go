package nodes

// BeginRead acquires the page's shared latch and eagerly loads the flags
// and size header fields, since almost every read touches both. The
// remaining cached fields are loaded lazily on first access.
func (n *Node[K, V]) BeginRead() {
	n.pg.AcquireSharedLock()
	n.loadEager()
	n.initialize(false)
}

// EndRead releases the shared latch. It panics with LatchProtocolMisuse
// if a read session somehow left dirty fields behind, since a shared
// session must never have mutated the header.
func (n *Node[K, V]) EndRead() {
	if n.header.dirty != 0 {
		panicLatchMisuse("endRead called with dirty header fields")
	}
	n.pg.ReleaseSharedLock()
}

// BeginWrite acquires the page's exclusive latch and eagerly loads flags
// and size, the same as BeginRead.
func (n *Node[K, V]) BeginWrite() {
	n.pg.AcquireExclusiveLock()
	n.loadEager()
	n.initialize(false)
}

// EndWrite flushes every dirty header field back to the page, clears the
// dirty bits, and releases the exclusive latch.
func (n *Node[K, V]) EndWrite() {
	n.flushDirty()
	n.pg.ReleaseExclusiveLock()
}

// BeginCreate acquires the exclusive latch for a page's first
// initialization. The caller must follow it with Create or
// ConvertToNonLeaf and then EndWrite; there is nothing to load since the
// page has no prior header to read.
func (n *Node[K, V]) BeginCreate() {
	n.pg.AcquireExclusiveLock()
}

func (n *Node[K, V]) loadEager() {
	n.header = nodeHeader{}
	// Drop the derived layout constants so initialize recomputes them
	// from the freshly loaded flags.
	n.keyEncoder = nil
	n.header.flags = n.pg.GetIntValue(flagsOffset)
	n.header.size = int(n.pg.GetIntValue(sizeOffset))
	n.header.markLoaded(flagsField)
	n.header.markLoaded(sizeField)
}

func (n *Node[K, V]) flushDirty() {
	h := &n.header
	if h.isDirty(freeDataPositionField) {
		n.pg.SetIntValue(freeDataPositionOffset, uint32(h.freeDataPosition))
	}
	if h.isDirty(flagsField) {
		n.pg.SetIntValue(flagsOffset, h.flags)
	}
	if h.isDirty(sizeField) {
		n.pg.SetIntValue(sizeOffset, uint32(h.size))
	}
	if h.isDirty(treeSizeField) {
		n.pg.SetLongValue(treeSizeOffset, h.treeSize)
	}
	if h.isDirty(markerCountField) {
		n.pg.SetIntValue(markerCountOffset, uint32(h.markerCount))
	}
	h.dirty = 0
}
