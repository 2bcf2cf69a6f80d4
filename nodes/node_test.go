package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebtreedb/sebtree/base"
	"github.com/sebtreedb/sebtree/encoders"
	"github.com/sebtreedb/sebtree/nodes"
	"github.com/sebtreedb/sebtree/page"
)

func newLeaf(cfg nodes.Config) *nodes.Node[int64, int64] {
	pg := page.New(1)
	registry := encoders.NewRegistry[int64, int64](encoders.Int64Provider, encoders.Int64Provider)
	n := nodes.New(pg, registry, cfg, nodes.NaturalOrder[int64]())
	n.BeginCreate()
	n.Create(true)
	n.EndWrite()
	return n
}

func newInternal(cfg nodes.Config) *nodes.Node[int64, int64] {
	pg := page.New(1)
	registry := encoders.NewRegistry[int64, int64](encoders.Int64Provider, encoders.Int64Provider)
	n := nodes.New(pg, registry, cfg, nodes.NaturalOrder[int64]())
	n.BeginCreate()
	n.Create(false)
	n.EndWrite()
	return n
}

func newLeafBytesValues(cfg nodes.Config) *nodes.Node[int64, []byte] {
	pg := page.New(1)
	registry := encoders.NewRegistry[int64, []byte](encoders.Int64Provider, encoders.BytesProvider(64))
	n := nodes.New(pg, registry, cfg, nodes.NaturalOrder[int64]())
	n.BeginCreate()
	n.Create(true)
	n.EndWrite()
	return n
}

func TestSearchResultConventionRoundTrips(t *testing.T) {
	for i := 0; i < 10; i++ {
		r := nodes.ToInsertionPoint(i)
		assert.True(t, nodes.IsInsertionPoint(r))
		assert.Equal(t, i, nodes.ToIndex(r))
	}
	assert.False(t, nodes.IsInsertionPoint(3))
	assert.Equal(t, 3, nodes.ToMinusOneBasedIndex(3))
	assert.Equal(t, -1, nodes.ToMinusOneBasedIndex(nodes.ToInsertionPoint(0)))
	assert.Equal(t, 4, nodes.ToMinusOneBasedIndex(nodes.ToInsertionPoint(5)))
}

func TestInsertAndSearchSortedKeys(t *testing.T) {
	n := newLeaf(nodes.DefaultConfig())

	n.BeginWrite()
	keys := []int64{10, 20, 30, 40, 50}
	for _, k := range keys {
		r := n.IndexOf(k)
		require.True(t, nodes.IsInsertionPoint(r))
		n.InsertValue(nodes.ToIndex(r), k, 8, k*100, 8)
	}
	require.Equal(t, len(keys), n.GetSize())
	for i, k := range keys {
		assert.Equal(t, k, n.KeyAt(i))
		assert.Equal(t, k*100, n.ValueAt(i))
	}

	r := n.IndexOf(25)
	assert.True(t, nodes.IsInsertionPoint(r))
	assert.Equal(t, 2, nodes.ToIndex(r))

	hit := n.IndexOf(30)
	assert.Equal(t, 2, hit)
	n.EndWrite()
}

func TestUpdateValueInPlaceForInlinedValues(t *testing.T) {
	n := newLeaf(nodes.DefaultConfig())

	n.BeginWrite()
	n.InsertValue(0, int64(1), 8, int64(100), 8)
	n.UpdateValue(0, int64(999), 8, 8, false)
	assert.Equal(t, int64(999), n.ValueAt(0))
	n.EndWrite()
}

func TestHardDeleteClosesSlotGap(t *testing.T) {
	n := newLeaf(nodes.DefaultConfig())

	n.BeginWrite()
	n.InsertValue(0, int64(1), 8, int64(10), 8)
	n.InsertValue(1, int64(2), 8, int64(20), 8)
	n.InsertValue(2, int64(3), 8, int64(30), 8)

	n.Delete(1, 8, 8)

	require.Equal(t, 2, n.GetSize())
	assert.Equal(t, int64(1), n.KeyAt(0))
	assert.Equal(t, int64(3), n.KeyAt(1))
	n.EndWrite()
}

func TestTombstoneDeleteKeepsSlotAndFreesValue(t *testing.T) {
	cfg := nodes.DefaultConfig()
	cfg.TombstoneDelete = true
	n := newLeaf(cfg)

	n.BeginWrite()
	n.InsertValue(0, int64(1), 8, int64(100), 8)
	n.InsertValue(1, int64(2), 8, int64(200), 8)

	n.Delete(0, 8, 8)

	require.Equal(t, 2, n.GetSize())
	assert.True(t, n.IsTombstoneRecord(0))
	assert.Equal(t, int64(1), n.KeyAt(0))
	assert.False(t, n.IsTombstoneRecord(1))
	assert.Equal(t, int64(2), n.KeyAt(1))
	n.EndWrite()
}

func TestUpdateValueClearsTombstone(t *testing.T) {
	cfg := nodes.DefaultConfig()
	cfg.TombstoneDelete = true
	n := newLeaf(cfg)

	n.BeginWrite()
	n.InsertValue(0, int64(1), 8, int64(100), 8)
	n.Delete(0, 8, 8)
	require.True(t, n.IsTombstoneRecord(0))

	n.UpdateValue(0, int64(555), 8, 0, true)
	assert.False(t, n.IsTombstoneRecord(0))
	assert.Equal(t, int64(555), n.ValueAt(0))
	n.EndWrite()
}

func TestHardDeleteCompactsHeapAndReclaimsSpace(t *testing.T) {
	cfg := nodes.DefaultConfig()
	cfg.InlineValuesSizeThreshold = 0
	n := newLeafBytesValues(cfg)

	n.BeginWrite()
	v1 := []byte("first-out-of-line-value")
	v2 := []byte("second-out-of-line-value")
	n.InsertValue(0, int64(1), 8, v1, len(v1)+2)
	n.InsertValue(1, int64(2), 8, v2, len(v2)+2)
	freeAfterInsert := n.GetFreeBytes()

	n.Delete(0, 8, len(v1)+2)
	freeAfterDelete := n.GetFreeBytes()
	assert.Greater(t, freeAfterDelete, freeAfterInsert)

	require.Equal(t, 1, n.GetSize())
	assert.Equal(t, int64(2), n.KeyAt(0))
	assert.Equal(t, v2, n.ValueAt(0))

	v3 := []byte("third")
	n.InsertValue(1, int64(3), 8, v3, len(v3)+2)
	assert.Equal(t, v3, n.ValueAt(1))
	n.EndWrite()
}

func TestInsertPointerReindexesMarkers(t *testing.T) {
	n := newInternal(nodes.DefaultConfig())

	n.BeginWrite()
	n.SetLeftPointer(base.PageIndex(1))
	n.InsertPointer(0, int64(10), 8, base.PageIndex(2))
	n.InsertPointer(1, int64(20), 8, base.PageIndex(3))
	n.InsertPointer(2, int64(30), 8, base.PageIndex(4))

	n.InsertMarkerForPointerAt(1, base.PageIndex(100), base.Position(5))
	n.InsertMarkerForPointerAt(2, base.PageIndex(200), base.Position(6))

	// inserting a new pointer at index 1 must shift every marker whose
	// PointerIndex was >= 1 one slot to the right.
	n.InsertPointer(1, int64(15), 8, base.PageIndex(9))

	require.Equal(t, 2, n.GetMarkerCount())
	assert.Equal(t, 2, n.MarkerAt(0).PointerIndex)
	assert.Equal(t, 3, n.MarkerAt(1).PointerIndex)
	assert.Equal(t, base.PageIndex(100), n.MarkerAt(0).BlockIndex)
	assert.Equal(t, base.PageIndex(200), n.MarkerAt(1).BlockIndex)
	n.EndWrite()
}

func TestMarkerLookupHelpers(t *testing.T) {
	n := newInternal(nodes.DefaultConfig())

	n.BeginWrite()
	n.SetLeftPointer(base.PageIndex(1))
	for i := int64(0); i < 5; i++ {
		n.InsertPointer(int(i), i*10, 8, base.PageIndex(i+2))
	}
	n.InsertMarkerForPointerAt(1, base.PageIndex(101), base.Position(1))
	n.InsertMarkerForPointerAt(3, base.PageIndex(103), base.Position(3))

	m, ok := n.MarkerForPointerAt(3)
	require.True(t, ok)
	assert.Equal(t, base.PageIndex(103), m.BlockIndex)

	_, ok = n.MarkerForPointerAt(2)
	assert.False(t, ok)

	nearest := n.NearestMarker(2)
	assert.Equal(t, 1, nearest.PointerIndex)

	assert.Equal(t, 2, n.GetLastPointerIndexOfMarkerAt(0))
	assert.Equal(t, 4, n.GetLastPointerIndexOfMarkerAt(1))

	n.UpdateMarkerBlockIndex(0, base.PageIndex(999))
	assert.Equal(t, base.PageIndex(999), n.MarkerAt(0).BlockIndex)

	n.UpdateMarkerBlockPagesUsed(0, base.Position(42))
	assert.Equal(t, base.Position(42), n.MarkerAt(0).BlockPagesUsed)
	n.EndWrite()
}

func TestMoveTailToLeafSplitsInOrder(t *testing.T) {
	src := newLeaf(nodes.DefaultConfig())
	dest := newLeaf(nodes.DefaultConfig())

	src.BeginWrite()
	dest.BeginWrite()

	const total = 200
	for i := int64(0); i < total; i++ {
		src.InsertValue(int(i), i, 8, i*10, 8)
	}
	freeBefore := src.GetFreeBytes()

	count := src.CountEntriesToMoveUntilHalfFree()
	require.Greater(t, count, 0)
	require.LessOrEqual(t, count, total)

	src.MoveTailToLeaf(dest, count)

	assert.Equal(t, total-count, src.GetSize())
	assert.Equal(t, count, dest.GetSize())
	assert.Greater(t, src.GetFreeBytes(), freeBefore)

	for i := 0; i < src.GetSize(); i++ {
		assert.Equal(t, int64(i), src.KeyAt(i))
		assert.Equal(t, int64(i)*10, src.ValueAt(i))
	}
	for i := 0; i < dest.GetSize(); i++ {
		want := int64(total - count + i)
		assert.Equal(t, want, dest.KeyAt(i))
		assert.Equal(t, want*10, dest.ValueAt(i))
	}

	src.EndWrite()
	dest.EndWrite()
}

func TestMoveTailToNonLeafRebasesMarkers(t *testing.T) {
	src := newInternal(nodes.DefaultConfig())
	dest := newInternal(nodes.DefaultConfig())

	src.BeginWrite()
	dest.BeginWrite()

	src.SetLeftPointer(base.PageIndex(1))
	for i := int64(0); i < 6; i++ {
		src.InsertPointer(int(i), i*10, 8, base.PageIndex(i+100))
	}
	// marker 0 stays behind (PointerIndex 1 < start=4), marker 1 moves
	// (PointerIndex 4 >= start=4).
	src.InsertMarkerForPointerAt(1, base.PageIndex(201), base.Position(1))
	src.InsertMarkerForPointerAt(4, base.PageIndex(204), base.Position(4))

	dest.SetLeftPointer(base.PageIndex(999))
	src.MoveTailToNonLeaf(dest, 2)

	assert.Equal(t, 4, src.GetSize())
	assert.Equal(t, 2, dest.GetSize())

	require.Equal(t, 1, src.GetMarkerCount())
	assert.Equal(t, 1, src.MarkerAt(0).PointerIndex)

	require.Equal(t, 1, dest.GetMarkerCount())
	assert.Equal(t, 0, dest.MarkerAt(0).PointerIndex)
	assert.Equal(t, base.PageIndex(204), dest.MarkerAt(0).BlockIndex)

	assert.Equal(t, int64(40), dest.KeyAt(0))
	assert.Equal(t, int64(50), dest.KeyAt(1))

	src.EndWrite()
	dest.EndWrite()
}

func TestMoveTailToNonLeafPanicsWhenFirstMarkerWouldMove(t *testing.T) {
	src := newInternal(nodes.DefaultConfig())
	dest := newInternal(nodes.DefaultConfig())

	src.BeginWrite()
	dest.BeginWrite()

	src.SetLeftPointer(base.PageIndex(1))
	for i := int64(0); i < 4; i++ {
		src.InsertPointer(int(i), i*10, 8, base.PageIndex(i+100))
	}
	src.InsertMarkerForPointerAt(2, base.PageIndex(202), base.Position(2))

	assert.Panics(t, func() {
		src.MoveTailToNonLeaf(dest, 3) // start=1, marker 0 covers index 2 >= 1
	})

	src.EndWrite()
	dest.EndWrite()
}

func TestCheckEntrySizeRejectsOversizedEntries(t *testing.T) {
	n := newLeaf(nodes.DefaultConfig())
	err := n.CheckEntrySize(nodes.MaxEntrySize() + 1)
	require.Error(t, err)
	var tooLarge *nodes.TooLargeEntryError
	assert.ErrorAs(t, err, &tooLarge)

	assert.NoError(t, n.CheckEntrySize(nodes.MaxEntrySize()))
}

func TestGetLeftPointerOnLeafIsInvariantViolation(t *testing.T) {
	n := newLeaf(nodes.DefaultConfig())
	n.BeginWrite()
	defer n.EndWrite()

	assert.Panics(t, func() { n.GetLeftPointer() })
}

func TestEndReadWithDirtyFieldsIsLatchMisuse(t *testing.T) {
	n := newLeaf(nodes.DefaultConfig())
	n.BeginRead()
	n.SetTreeSize(1) // dirties the header while only holding the shared latch

	assert.Panics(t, func() { n.EndRead() })
}

func TestConvertToNonLeafRequiresEmptyNode(t *testing.T) {
	n := newLeaf(nodes.DefaultConfig())
	n.BeginWrite()
	n.InsertValue(0, int64(1), 8, int64(1), 8)

	assert.Panics(t, func() { n.ConvertToNonLeaf() })
}

func TestCloneFromCopiesRecordsAndHeader(t *testing.T) {
	src := newLeaf(nodes.DefaultConfig())
	dest := newLeaf(nodes.DefaultConfig())

	src.BeginWrite()
	src.InsertValue(0, int64(1), 8, int64(10), 8)
	src.InsertValue(1, int64(2), 8, int64(20), 8)
	src.EndWrite()

	dest.BeginWrite()
	dest.CloneFrom(src)
	require.Equal(t, 2, dest.GetSize())
	assert.Equal(t, int64(1), dest.KeyAt(0))
	assert.Equal(t, int64(20), dest.ValueAt(1))
	dest.EndWrite()
}
