package arena

import (
	"testing"

	"github.com/raddy/tape-book/internal/tape"
	"github.com/stretchr/testify/require"
)

func TestAllocateBumpsWatermarkByClassSize(t *testing.T) {
	a := New[int32, uint32](64, nil)

	b := a.Allocate(5) // rounds up to minBlock (16)
	require.False(t, b.IsNil())
	require.Len(t, b.Data, 16)
	require.Equal(t, int32(16), a.UsedLevels())

	b2 := a.Allocate(17) // rounds up to 32
	require.False(t, b2.IsNil())
	require.Len(t, b2.Data, 32)
	require.Equal(t, int32(48), a.UsedLevels())
}

func TestAllocateFailsWhenExhausted(t *testing.T) {
	a := New[int32, uint32](16, nil)
	b := a.Allocate(16)
	require.False(t, b.IsNil())

	fail := a.Allocate(16)
	require.True(t, fail.IsNil())
	require.Equal(t, uint64(1), a.AllocFailCount())
}

func TestDeallocateRecyclesSameClassWithoutNewBump(t *testing.T) {
	a := New[int32, uint32](32, nil)
	b := a.Allocate(16)
	require.Equal(t, int32(16), a.UsedLevels())

	a.Deallocate(b, 16)
	b2 := a.Allocate(16)
	require.False(t, b2.IsNil())
	// satisfied from the free list, not a new bump.
	require.Equal(t, int32(16), a.UsedLevels())
}

func TestDeallocateNilBlockIsNoOp(t *testing.T) {
	a := New[int32, uint32](16, nil)
	a.Deallocate(Block[int32, uint32]{}, 16)
	b := a.Allocate(16)
	require.False(t, b.IsNil())
}

func TestReallocateCopiesUsedPrefixAndFreesOld(t *testing.T) {
	a := New[int32, uint32](64, nil)
	old := a.Allocate(16)
	old.Data[0] = tape.Level[int32, uint32]{Px: 1, Qty: 1}
	old.Data[1] = tape.Level[int32, uint32]{Px: 2, Qty: 2}

	grown := a.Reallocate(old, 16, 32, 2)
	require.False(t, grown.IsNil())
	require.Equal(t, int32(1), grown.Data[0].Px)
	require.Equal(t, int32(2), grown.Data[1].Px)
	require.Equal(t, int32(48), a.UsedLevels()) // old's 16 are freed, not re-bumped

	// old's size class should now be recyclable without advancing the watermark.
	reused := a.Allocate(16)
	require.False(t, reused.IsNil())
	require.Equal(t, int32(48), a.UsedLevels())
}

func TestReallocateFromNilOldIsPlainAllocate(t *testing.T) {
	a := New[int32, uint32](32, nil)
	blk := a.Reallocate(Block[int32, uint32]{}, 0, 16, 0)
	require.False(t, blk.IsNil())
	require.Len(t, blk.Data, 16)
}

func TestSizeClassRoundTrip(t *testing.T) {
	for _, cls := range []int32{0, 1, 2, 3, 4, 5} {
		sz := classSize(cls)
		require.Equal(t, cls, sizeClass(sz))
	}
}
