package tape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadWidth(t *testing.T) {
	require.Panics(t, func() { New[int32, uint32](100, true) })  // not a power of two
	require.Panics(t, func() { New[int32, uint32](32, true) })   // not a multiple of 64
}

func TestInWindowInsertUpdateErase(t *testing.T) {
	tp := New[int32, uint32](256, true)
	tp.Reset(1000)
	sink := NullSink[int32, uint32]{}

	require.Equal(t, Insert, tp.SetQty(1005, 10, sink))
	require.Equal(t, int32(1005), tp.BestPx())
	require.Equal(t, uint32(10), tp.BestQty())

	require.Equal(t, Update, tp.SetQty(1005, 20, sink))
	require.Equal(t, uint32(20), tp.BestQty())

	require.Equal(t, Erase, tp.SetQty(1005, 0, sink))
	require.True(t, tp.IsEmpty())
}

func TestZeroQtyNoOpDeleteReturnsErase(t *testing.T) {
	tp := New[int32, uint32](256, true)
	tp.Reset(1000)
	require.Equal(t, Erase, tp.SetQty(1005, 0, NullSink[int32, uint32]{}))
	require.True(t, tp.IsEmpty())
}

func TestPromoteOnEmptyTape(t *testing.T) {
	tp := New[int32, uint32](256, true)
	tp.Reset(1000)
	require.Equal(t, Promote, tp.SetQty(2000, 20, NullSink[int32, uint32]{}))
	require.True(t, tp.IsEmpty()) // promote never mutates
}

func TestOutOfWindowWorseThanBestSpills(t *testing.T) {
	tp := New[int32, uint32](256, true)
	tp.Reset(1000)
	tp.SetQty(1100, 10, NullSink[int32, uint32]{})

	var pushed []Level[int32, uint32]
	sink := &recordingSink[int32, uint32]{pushed: &pushed}

	rc := tp.SetQty(500, 5, sink)
	require.Equal(t, Spill, rc)
	require.Equal(t, []Level[int32, uint32]{{Px: 500, Qty: 5}}, pushed)
}

func TestRecenterSpillsDisplacedAndKeepsOverlap(t *testing.T) {
	tp := New[int32, uint32](256, true)
	tp.Reset(1000)
	tp.SetQty(1005, 10, NullSink[int32, uint32]{})
	tp.SetQty(1200, 7, NullSink[int32, uint32]{}) // 1200 - 1000 = 200, in [0,256)

	var pushed []Level[int32, uint32]
	sink := &recordingSink[int32, uint32]{pushed: &pushed}
	tp.RecenterToAnchor(1100, sink)

	require.True(t, tp.VerifyInvariants())
	// 1005 falls below the new window [1100, 1355] and must have spilled.
	found := false
	for _, lv := range pushed {
		if lv.Px == 1005 && lv.Qty == 10 {
			found = true
		}
	}
	require.True(t, found, "expected 1005 to be spilled on recenter")

	// 1200 stays in-window.
	require.Equal(t, uint32(7), tp.BestQty())
	require.Equal(t, int32(1200), tp.BestPx())
}

func TestEraseBetterBid(t *testing.T) {
	tp := New[int32, uint32](256, true)
	tp.Reset(1000)
	ns := NullSink[int32, uint32]{}
	tp.SetQty(1000, 10, ns)
	tp.SetQty(1005, 15, ns)
	tp.SetQty(1010, 20, ns)

	tp.EraseBetter(1005, ns)

	require.Equal(t, int32(1000), tp.BestPx())
	require.Equal(t, uint32(10), tp.BestQty())
}

func TestBoundaryAnchoredAtMaxPrice(t *testing.T) {
	tp := New[int32, uint32](64, true)
	maxP := int32(1<<31 - 1)
	anchor := maxP - 63
	tp.Reset(anchor)

	ns := NullSink[int32, uint32]{}
	require.Equal(t, Insert, tp.SetQty(maxP, 10, ns))
	require.Equal(t, Insert, tp.SetQty(maxP-1, 5, ns))
	require.Equal(t, maxP, tp.BestPx())
	require.True(t, tp.VerifyInvariants())
}

type recordingSink[P Price, Q Qty] struct {
	pushed *[]Level[P, Q]
}

func (s *recordingSink[P, Q]) Push(isBid bool, px P, qty Q) {
	*s.pushed = append(*s.pushed, Level[P, Q]{Px: px, Qty: qty})
}
func (s *recordingSink[P, Q]) EraseBetter(isBid bool, threshold P) {}
func (s *recordingSink[P, Q]) IteratePending(isBid bool, fn func(px P, qty Q) bool) {}
func (s *recordingSink[P, Q]) Clear()                                              {}
