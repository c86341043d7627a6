package spill

import (
	"github.com/raddy/tape-book/internal/arena"
	"github.com/raddy/tape-book/internal/tape"
	"github.com/raddy/tape-book/pkg/metrics"
)

// Buffer wraps a bid Side and an ask Side and satisfies tape.Sink, so a
// *Buffer can be handed directly to Tape.SetQty/RecenterToAnchor/
// EraseBetter/IterateFromBest as the out-of-window overflow target.
type Buffer[P tape.Price, Q tape.Qty] struct {
	Bid *Side[P, Q]
	Ask *Side[P, Q]
}

// NewBuffer constructs a Buffer whose two sides share maxCap and, when
// pool is non-nil, allocate through it instead of through make(). rec may
// be nil to disable metrics.
func NewBuffer[P tape.Price, Q tape.Qty](maxCap int32, pool *arena.Arena[P, Q], rec *metrics.Recorder) *Buffer[P, Q] {
	return &Buffer[P, Q]{
		Bid: NewSide[P, Q](true, maxCap, pool, rec),
		Ask: NewSide[P, Q](false, maxCap, pool, rec),
	}
}

func (b *Buffer[P, Q]) side(isBid bool) *Side[P, Q] {
	if isBid {
		return b.Bid
	}
	return b.Ask
}

// Push implements tape.Sink.
func (b *Buffer[P, Q]) Push(isBid bool, px P, qty Q) { b.side(isBid).AddPoint(px, qty) }

// EraseBetter implements tape.Sink.
func (b *Buffer[P, Q]) EraseBetter(isBid bool, threshold P) { b.side(isBid).EraseBetter(threshold) }

// IteratePending implements tape.Sink. worstPx defaults to the polarity's
// sentinel so the whole side is walked, matching the original's default
// argument.
func (b *Buffer[P, Q]) IteratePending(isBid bool, fn func(px P, qty Q) bool) {
	s := b.side(isBid)
	worst := tape.LowestPx[P]()
	if !isBid {
		worst = tape.HighestPx[P]()
	}
	s.Iterate(worst, fn)
}

// Clear implements tape.Sink.
func (b *Buffer[P, Q]) Clear() {
	b.Bid.Clear()
	b.Ask.Clear()
}

// DrainRange drains one side's entries within [lo, hi] through fn,
// removing them from the side.
func (b *Buffer[P, Q]) DrainRange(isBid bool, lo, hi P, fn func(px P, qty Q)) {
	b.side(isBid).DrainRange(lo, hi, fn)
}

// BestPx returns one side's best price, or that polarity's sentinel if
// empty.
func (b *Buffer[P, Q]) BestPx(isBid bool) P { return b.side(isBid).BestPx() }

// BestQty returns one side's best quantity, or zero if empty.
func (b *Buffer[P, Q]) BestQty(isBid bool) Q { return b.side(isBid).BestQty() }

// Release returns both sides' backing allocations to their arena, if any.
func (b *Buffer[P, Q]) Release() {
	b.Bid.Release()
	b.Ask.Release()
}
