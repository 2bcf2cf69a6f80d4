// Package page implements the fixed-size byte buffer a node is built on
// top of: primitive integer reads/writes at a byte offset, a session-local
// cursor that encoders consume, raw data moves for the slot array and data
// heap, and the shared/exclusive latch that guards concurrent access.
//
// This is the "page-buffer contract" the node layer consumes; a real
// deployment would hand out Pages from a buffer pool backed by disk (see
// package cache for a minimal example). Nothing here knows about slots,
// headers or markers — that is the node package's job.
package page

import (
	"encoding/binary"
	"sync"

	"github.com/sebtreedb/sebtree/base"
	"github.com/sebtreedb/sebtree/pool"
)

// Page is a fixed-size byte buffer with a session-local cursor and a
// reader/writer latch. It is exactly base.PageSize bytes long for the
// lifetime of the page.
type Page struct {
	mu sync.RWMutex

	id  base.PageIndex
	buf []byte
	pos int
}

// New allocates a zeroed page of base.PageSize bytes for the given index.
func New(id base.PageIndex) *Page {
	return &Page{id: id, buf: make([]byte, base.PageSize)}
}

// NewFromPool allocates a page backed by a buffer taken from p, zeroing
// it first since a pooled buffer may carry a previous page's bytes.
func NewFromPool(id base.PageIndex, p *pool.Pool) *Page {
	buf := p.Get(uint32(base.PageSize))[:base.PageSize]
	clear(buf)
	return &Page{id: id, buf: buf}
}

// Release returns this page's buffer to p. The Page must not be used
// afterwards.
func (p *Page) Release(pl *pool.Pool) {
	pl.Put(p.buf)
	p.buf = nil
}

// GetPageIndex returns the page's identity within the backing store.
func (p *Page) GetPageIndex() base.PageIndex {
	return p.id
}

// Bytes exposes the raw backing array. Callers that need a full-page copy
// (cloning, checksumming, writing to storage) use this; node operations
// never rely on it directly, going through the accessors below instead.
func (p *Page) Bytes() []byte {
	return p.buf
}

// GetIntValue reads a big-endian uint32 at a fixed byte offset.
func (p *Page) GetIntValue(off int) uint32 {
	return binary.BigEndian.Uint32(p.buf[off:])
}

// SetIntValue writes a big-endian uint32 at a fixed byte offset.
func (p *Page) SetIntValue(off int, v uint32) {
	binary.BigEndian.PutUint32(p.buf[off:], v)
}

// GetLongValue reads a big-endian uint64 at a fixed byte offset.
func (p *Page) GetLongValue(off int) uint64 {
	return binary.BigEndian.Uint64(p.buf[off:])
}

// SetLongValue writes a big-endian uint64 at a fixed byte offset.
func (p *Page) SetLongValue(off int, v uint64) {
	binary.BigEndian.PutUint64(p.buf[off:], v)
}

// GetPosition returns the cursor's current byte offset.
func (p *Page) GetPosition() int {
	return p.pos
}

// SetPosition moves the cursor to an absolute byte offset.
func (p *Page) SetPosition(pos int) {
	p.pos = pos
}

// Seek moves the cursor by a relative number of bytes, which may be
// negative.
func (p *Page) Seek(delta int) {
	p.pos += delta
}

// Read returns the next n bytes starting at the cursor and advances it.
// The returned slice aliases the page buffer.
func (p *Page) Read(n int) []byte {
	b := p.buf[p.pos : p.pos+n]
	p.pos += n
	return b
}

// Write copies b into the page starting at the cursor and advances it by
// len(b).
func (p *Page) Write(b []byte) {
	copy(p.buf[p.pos:], b)
	p.pos += len(b)
}

// MoveData shifts length bytes from src to dst within the page. Source and
// destination ranges may overlap, matching memmove semantics.
func (p *Page) MoveData(src, dst, length int) {
	if length <= 0 {
		return
	}
	copy(p.buf[dst:dst+length], p.buf[src:src+length])
}

// AcquireSharedLock takes the page's reader latch.
func (p *Page) AcquireSharedLock() { p.mu.RLock() }

// ReleaseSharedLock releases the page's reader latch.
func (p *Page) ReleaseSharedLock() { p.mu.RUnlock() }

// AcquireExclusiveLock takes the page's writer latch.
func (p *Page) AcquireExclusiveLock() { p.mu.Lock() }

// ReleaseExclusiveLock releases the page's writer latch.
func (p *Page) ReleaseExclusiveLock() { p.mu.Unlock() }
