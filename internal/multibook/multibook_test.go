package multibook

import (
	"testing"

	"github.com/raddy/tape-book/internal/book"
	"github.com/raddy/tape-book/internal/tape"
	"github.com/stretchr/testify/require"
)

func testWidths() (high, medium, low TierWidths) {
	return TierWidths{N: 256, MaxCap: 64}, TierWidths{N: 128, MaxCap: 32}, TierWidths{N: 64, MaxCap: 16}
}

func TestAllocateGrowsPerTierIndependently(t *testing.T) {
	high, medium, low := testWidths()
	c := New[int32, uint32](high, medium, low, nil, nil)

	h0 := c.Allocate(High)
	h1 := c.Allocate(High)
	m0 := c.Allocate(Medium)

	require.Equal(t, Handle{Tier: High, Idx: 0}, h0)
	require.Equal(t, Handle{Tier: High, Idx: 1}, h1)
	require.Equal(t, Handle{Tier: Medium, Idx: 0}, m0)
	require.Equal(t, int32(2), c.Len(High))
	require.Equal(t, int32(1), c.Len(Medium))
	require.Equal(t, int32(0), c.Len(Low))
}

func TestWithBookDispatchesToTheSameInstance(t *testing.T) {
	high, medium, low := testWidths()
	c := New[int32, uint32](high, medium, low, nil, nil)

	h := c.Allocate(Medium)
	c.WithBook(h, func(b *book.Book[int32, uint32]) {
		b.Reset(1000)
		b.Set(true, 1005, 10)
	})

	require.Equal(t, int32(1005), c.Book(h).BestBidPx())
	require.Equal(t, uint32(10), c.Book(h).BestBidQty())
}

func TestHandlesToDistinctBooksAreIndependent(t *testing.T) {
	high, medium, low := testWidths()
	c := New[int32, uint32](high, medium, low, nil, nil)

	a := c.Allocate(Low)
	b := c.Allocate(Low)
	c.Book(a).Reset(0)
	c.Book(b).Reset(0)
	c.Book(a).Set(true, 5, 1)

	require.Equal(t, int32(5), c.Book(a).BestBidPx())
	require.Equal(t, tape.LowestPx[int32](), c.Book(b).BestBidPx())
}

func TestReleaseDoesNotPanicAcrossAllTiers(t *testing.T) {
	high, medium, low := testWidths()
	c := New[int32, uint32](high, medium, low, nil, nil)
	c.Allocate(High)
	c.Allocate(Medium)
	c.Allocate(Low)
	require.NotPanics(t, c.Release)
}
