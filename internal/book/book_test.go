package book

import (
	"testing"

	"github.com/raddy/tape-book/internal/tape"
	"github.com/stretchr/testify/require"
)

func TestSetInWindowInsertUpdateErase(t *testing.T) {
	b := New[int32, uint32](64, 16, nil, nil)
	b.Reset(1000)

	require.Equal(t, tape.Insert, b.Set(true, 1005, 10))
	require.Equal(t, int32(1005), b.BestBidPx())
	require.Equal(t, uint32(10), b.BestBidQty())

	require.Equal(t, tape.Insert, b.Set(false, 1010, 5))
	require.Equal(t, int32(1010), b.BestAskPx())
	require.False(t, b.Crossed())

	require.Equal(t, tape.Update, b.Set(true, 1005, 20))
	require.Equal(t, uint32(20), b.BestBidQty())

	require.Equal(t, tape.Erase, b.Set(true, 1005, 0))
	require.True(t, b.VerifyInvariants())
}

func TestSetOutOfWindowTriggersPromoteAndRecenter(t *testing.T) {
	b := New[int32, uint32](64, 16, nil, nil)
	b.Reset(1000)
	b.Set(true, 1005, 10)

	rc := b.Set(true, 5000, 7)
	require.Equal(t, tape.Insert, rc) // caller never observes Promote
	require.Equal(t, int32(5000), b.BestBidPx())
	require.Equal(t, uint32(7), b.BestBidQty())
	require.True(t, b.VerifyInvariants())
}

func TestRecenterDrainsOverlappingSpillBackIn(t *testing.T) {
	b := New[int32, uint32](64, 16, nil, nil)
	b.Reset(1000)
	b.Set(true, 1005, 10)

	b.RecenterBid(2000) // window [2000, 2063]: 1005 leaves the tape for spill

	// Forcing a recenter to an anchor that still covers 1005 should drain
	// it back into the tape rather than leaving it stranded in spill.
	b.RecenterBid(1000)
	require.Equal(t, int32(0), b.bidSpill.Bid.Len())
	require.Equal(t, int32(1005), b.BestBidPx())
	require.Equal(t, uint32(10), b.BestBidQty())
	require.True(t, b.VerifyInvariants())
}

func TestCrossedDetection(t *testing.T) {
	b := New[int32, uint32](64, 16, nil, nil)
	b.Reset(1000)
	b.Set(true, 1010, 1)
	b.Set(false, 1005, 1)
	require.True(t, b.Crossed())
	require.True(t, b.CrossedOnTape())
}

func TestEraseBetterAppliesToBothTapeAndSpill(t *testing.T) {
	b := New[int32, uint32](64, 16, nil, nil)
	b.Reset(1000)
	b.Set(true, 1000, 1)
	b.Set(true, 1005, 1)
	b.Set(true, 1010, 1)
	b.Set(true, 1100, 1) // promotes: 1000, 1005 and 1010 move to spill

	b.EraseBetter(true, 1005)
	require.Equal(t, int32(1000), b.BestBidPx())
}

func TestResetClearsSpillAsWellAsTape(t *testing.T) {
	b := New[int32, uint32](64, 16, nil, nil)
	b.Reset(1000)
	b.Set(true, 1005, 10)
	b.Set(true, 5000, 7) // forces a spill + recenter

	b.Reset(0)
	require.Equal(t, tape.LowestPx[int32](), b.BestBidPx())
	require.Equal(t, uint32(0), b.BestBidQty())
}
