// Package arena implements the fixed-size, pre-allocated, size-classed
// bump allocator that optionally backs a spill side's growth. It is
// single-threaded, like everything else in this module: see
// SPEC_FULL.md §5.
package arena

import (
	"math/bits"

	"github.com/raddy/tape-book/internal/tape"
	"github.com/raddy/tape-book/pkg/metrics"
)

const (
	numClasses = 12 // classes 0..11
	minBlock   = 16 // smallest block, in levels
)

// Block is a handle to an allocated region: the slice view callers use,
// plus the offset the arena needs to recycle it. The original's
// allocate/deallocate/reallocate operate on a raw pointer because C++ can
// recover a block's position from the pointer itself; Go slices don't
// carry that information without resorting to unsafe, so Block carries it
// alongside instead (see SPEC_FULL.md §4.4 for why this is the one place
// the Go arena's shape diverges from the original's).
type Block[P tape.Price, Q tape.Qty] struct {
	Data []tape.Level[P, Q]
	off  int32
}

// IsNil reports whether b represents a failed allocation.
func (b Block[P, Q]) IsNil() bool { return b.Data == nil }

// Arena is a fixed-size region of level[P,Q] slots, bucketed into
// power-of-two size classes starting at minBlock. Each class keeps a LIFO
// free list of block offsets, stored in a parallel []int32 rather than
// intrusively in the freed block itself.
type Arena[P tape.Price, Q tape.Qty] struct {
	buf       []tape.Level[P, Q]
	cap       int32
	watermark int32

	freeHeads [numClasses]int32 // -1 == empty
	nextFree  []int32           // indexed by block offset; valid only at a free block's offset

	allocFailCount uint64
	rec            *metrics.Recorder
}

// New constructs an Arena with room for totalCap levels. totalCap must be
// at least minBlock. rec may be nil to disable metrics.
func New[P tape.Price, Q tape.Qty](totalCap int32, rec *metrics.Recorder) *Arena[P, Q] {
	if totalCap < minBlock {
		panic("arena: totalCap must be >= minBlock")
	}
	a := &Arena[P, Q]{
		buf:      make([]tape.Level[P, Q], totalCap),
		cap:      totalCap,
		nextFree: make([]int32, totalCap),
		rec:      rec,
	}
	for i := range a.freeHeads {
		a.freeHeads[i] = -1
	}
	return a
}

// AllocFailCount returns the monotonic count of allocations that could
// not be satisfied because the arena is exhausted.
func (a *Arena[P, Q]) AllocFailCount() uint64 { return a.allocFailCount }

// UsedLevels returns the bump-allocator watermark: levels ever handed out
// via bump allocation (not counting free-list reuse).
func (a *Arena[P, Q]) UsedLevels() int32 { return a.watermark }

// TotalLevels returns the arena's fixed total capacity.
func (a *Arena[P, Q]) TotalLevels() int32 { return a.cap }

func sizeClass(reqCap int32) int32 {
	if reqCap <= minBlock {
		return 0
	}
	nbits := 32 - bits.LeadingZeros32(uint32(reqCap-1))
	cls := int32(nbits) - 4 // minBlock == 16 == 1<<4
	if cls < 0 {
		cls = 0
	}
	if cls >= numClasses {
		cls = numClasses - 1
	}
	return cls
}

func classSize(cls int32) int32 { return minBlock << uint(cls) }

// Allocate returns a block of at least reqCap levels, or the nil Block if
// the arena is exhausted (in which case allocFailCount is incremented).
func (a *Arena[P, Q]) Allocate(reqCap int32) Block[P, Q] {
	cls := sizeClass(reqCap)
	actual := classSize(cls)

	if head := a.freeHeads[cls]; head != -1 {
		a.freeHeads[cls] = a.nextFree[head]
		return Block[P, Q]{Data: a.buf[head : head+actual : head+actual], off: head}
	}

	if a.watermark+actual <= a.cap {
		off := a.watermark
		a.watermark += actual
		return Block[P, Q]{Data: a.buf[off : off+actual : off+actual], off: off}
	}

	a.allocFailCount++
	if a.rec != nil {
		a.rec.ArenaAllocFailures().Inc()
	}
	return Block[P, Q]{}
}

// Deallocate returns b to its size class's free list. The nil Block is a
// no-op.
func (a *Arena[P, Q]) Deallocate(b Block[P, Q], reqCap int32) {
	if b.IsNil() {
		return
	}
	cls := sizeClass(reqCap)
	a.nextFree[b.off] = a.freeHeads[cls]
	a.freeHeads[cls] = b.off
}

// Reallocate allocates a block of newCap levels, copies the first used
// entries from old (if old is non-nil), and deallocates old. On failure
// old is left untouched — the caller retains ownership.
func (a *Arena[P, Q]) Reallocate(old Block[P, Q], oldCap, newCap, used int32) Block[P, Q] {
	blk := a.Allocate(newCap)
	if blk.IsNil() {
		return blk
	}
	if !old.IsNil() {
		copy(blk.Data[:used], old.Data[:used])
		a.Deallocate(old, oldCap)
	}
	return blk
}
