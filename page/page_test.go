package page_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sebtreedb/sebtree/base"
	"github.com/sebtreedb/sebtree/page"
	"github.com/sebtreedb/sebtree/pool"
)

func TestIntAndLongValueRoundTrip(t *testing.T) {
	p := page.New(1)
	p.SetIntValue(0, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), p.GetIntValue(0))

	p.SetLongValue(4, 0x0102030405060708)
	assert.Equal(t, uint64(0x0102030405060708), p.GetLongValue(4))
}

func TestCursorReadWriteAdvancesPosition(t *testing.T) {
	p := page.New(1)
	p.SetPosition(10)
	p.Write([]byte("hello"))
	assert.Equal(t, 15, p.GetPosition())

	p.SetPosition(10)
	got := p.Read(5)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, 15, p.GetPosition())

	p.Seek(-5)
	assert.Equal(t, 10, p.GetPosition())
}

func TestMoveDataHandlesOverlappingRanges(t *testing.T) {
	p := page.New(1)
	p.SetPosition(0)
	p.Write([]byte("abcdefgh"))

	// shift "cdefgh" (offset 2, length 6) right by 2, overlapping its own
	// source range.
	p.MoveData(2, 4, 6)

	got := p.Bytes()[:10]
	assert.Equal(t, "abcdcdefgh", string(got))
}

func TestNewFromPoolZeroesReusedBuffer(t *testing.T) {
	pl := pool.New(uint32(base.PageSize), uint32(base.PageSize))

	p1 := page.NewFromPool(base.PageIndex(1), pl)
	p1.SetIntValue(0, 0xFFFFFFFF)
	p1.Release(pl)

	p2 := page.NewFromPool(base.PageIndex(2), pl)
	assert.Equal(t, uint32(0), p2.GetIntValue(0))
}

func TestLatchExcludesConcurrentWriters(t *testing.T) {
	p := page.New(1)
	p.AcquireExclusiveLock()

	acquired := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.AcquireExclusiveLock()
		close(acquired)
		p.ReleaseExclusiveLock()
	}()

	select {
	case <-acquired:
		t.Fatal("second exclusive lock acquired while the first was still held")
	default:
	}

	p.ReleaseExclusiveLock()
	wg.Wait()
}
