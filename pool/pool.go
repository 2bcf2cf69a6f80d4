// Package pool provides a power-of-two bucketed byte-slice pool, used by
// the page cache to recycle page buffers instead of letting the
// allocator churn every time a page enters or leaves the working set.
package pool

import "sync"

var multiplyDeBruijnBitPosition = [32]int{
	0, 1, 28, 2, 29, 14, 24, 3, 30, 22, 20, 15, 25, 17, 4, 8,
	31, 27, 13, 23, 21, 19, 16, 7, 26, 12, 18, 6, 11, 5, 10, 9,
}

// LogBaseTwo returns floor(log2(x)) for a power-of-two x via a De Bruijn
// sequence lookup.
func LogBaseTwo(x uint32) int {
	return multiplyDeBruijnBitPosition[x*0x077CB531>>27]
}

// AlignUpPowerOfTwo rounds x up to the next power of two.
func AlignUpPowerOfTwo(x uint32) uint32 {
	x -= 1
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	return x + 1
}

// AlignDownPowerOfTwo rounds x down to the previous power of two.
func AlignDownPowerOfTwo(x uint32) uint32 {
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	return x - (x >> 1)
}

// Pool buckets byte slices into power-of-two size classes between minSize
// and maxSize, each backed by its own sync.Pool. Requests below minSize
// are served from the smallest class; requests above maxSize fall through
// to a fresh allocation that is never pooled.
type Pool struct {
	minSize uint32
	maxSize uint32
	base    int
	buckets []sync.Pool
}

// New builds a Pool covering [minSize, maxSize], both rounded to powers
// of two.
func New(minSize, maxSize uint32) *Pool {
	minSize = AlignUpPowerOfTwo(minSize)
	maxSize = AlignDownPowerOfTwo(maxSize)
	minLog := LogBaseTwo(minSize)
	maxLog := LogBaseTwo(maxSize)

	p := &Pool{
		minSize: minSize,
		maxSize: maxSize,
		base:    minLog,
		buckets: make([]sync.Pool, maxLog-minLog+1),
	}
	for i := minLog; i <= maxLog; i++ {
		size := 1 << i
		p.buckets[i-p.base].New = func() any {
			buf := make([]byte, size)
			return &buf
		}
	}
	return p
}

// Get returns a byte slice of at least size bytes. Slices bigger than the
// pool's maxSize are allocated directly and never returned to a bucket.
func (p *Pool) Get(size uint32) []byte {
	if size > p.maxSize {
		return make([]byte, size)
	}
	if size <= p.minSize {
		buf := p.buckets[0].Get().(*[]byte)
		return *buf
	}
	rounded := AlignUpPowerOfTwo(size)
	buf := p.buckets[LogBaseTwo(rounded)-p.base].Get().(*[]byte)
	return *buf
}

// Put returns buf to its size bucket, based on its capacity. Slices
// outside [minSize, maxSize] are dropped for the garbage collector to
// reclaim.
func (p *Pool) Put(buf []byte) {
	size := uint32(cap(buf))
	if size < p.minSize || size > p.maxSize {
		return
	}
	p.buckets[LogBaseTwo(size)-p.base].Put(&buf)
}
