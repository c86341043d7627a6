// Package book composes a tape and a spill buffer per side into the
// book-level controller: it routes updates to the tape, handles Promote
// by recentering and draining spill back in, and answers the cross-side
// best-price and crossed-ness queries.
package book

import (
	"github.com/raddy/tape-book/internal/arena"
	"github.com/raddy/tape-book/internal/spill"
	"github.com/raddy/tape-book/internal/tape"
	"github.com/raddy/tape-book/pkg/metrics"
)

// Book pairs a bid tape and an ask tape, each backed by its own spill
// side, under one controller. The two tapes' anchors are independent and
// frequently differ.
//
// Book is not safe for concurrent use — see the package-level concurrency
// note in SPEC_FULL.md §5: one book belongs to exactly one goroutine.
//
// Book holds its spill state through the *spill.Buffer pointer fields
// below rather than by value, so an accidental copy of a Book value
// shares rather than double-frees the underlying spill allocation. Go
// has no move semantics and cannot forbid the copy at compile time; treat
// *Book as the only safe handle, the same way the original treats Book as
// move-only.
type Book[P tape.Price, Q tape.Qty] struct {
	bidTape *tape.Tape[P, Q]
	askTape *tape.Tape[P, Q]

	bidSpill *spill.Buffer[P, Q]
	askSpill *spill.Buffer[P, Q]

	rec *metrics.Recorder
}

// New constructs a Book whose tapes have width n and whose spill sides
// grow up to maxCap, both starting anchored at 0. pool may be nil; when
// non-nil, both spill sides allocate through it instead of through
// make(). rec may be nil to disable metrics recording.
func New[P tape.Price, Q tape.Qty](n, maxCap int32, pool *arena.Arena[P, Q], rec *metrics.Recorder) *Book[P, Q] {
	return &Book[P, Q]{
		bidTape:  tape.New[P, Q](n, true),
		askTape:  tape.New[P, Q](n, false),
		bidSpill: spill.NewBuffer[P, Q](maxCap, pool, rec),
		askSpill: spill.NewBuffer[P, Q](maxCap, pool, rec),
		rec:      rec,
	}
}

func (b *Book[P, Q]) tapeFor(isBid bool) *tape.Tape[P, Q] {
	if isBid {
		return b.bidTape
	}
	return b.askTape
}

func (b *Book[P, Q]) spillFor(isBid bool) *spill.Buffer[P, Q] {
	if isBid {
		return b.bidSpill
	}
	return b.askSpill
}

// Reset re-anchors both tapes at anchor and clears both spill sides
// without releasing their backing allocations.
func (b *Book[P, Q]) Reset(anchor P) {
	b.bidTape.Reset(anchor)
	b.askTape.Reset(anchor)
	b.bidSpill.Clear()
	b.askSpill.Clear()
}

// ResetAtMid re-anchors one side's tape so price sits at the window's
// midpoint, and clears that side's spill.
func (b *Book[P, Q]) ResetAtMid(isBid bool, price P) {
	t := b.tapeFor(isBid)
	anchor := computeAnchor(price, t.Size()/2, t)
	t.Reset(anchor)
	b.spillFor(isBid).Clear()
}

// computeAnchor returns a valid anchor for t centered offset below price,
// clamped to t's valid anchor range. The two-sided clamp mirrors
// compute_anchor in SPEC_FULL.md §4.3: clamp low if price-offset would
// underflow the minimum valid anchor, clamp high if it would exceed the
// maximum.
func computeAnchor[P tape.Price, Q tape.Qty](price P, offset int32, t *tape.Tape[P, Q]) P {
	min, max := t.MinValidAnchor(), t.MaxValidAnchor()
	a := int64(price) - int64(offset)
	if a < int64(min) {
		return min
	}
	if a > int64(max) {
		return max
	}
	return P(a)
}

// Set is the hot path: it applies (price, qty) to the given side, driving
// the promote → recenter → drain → retry sequence when the tape reports
// Promote. A caller never observes Promote; this method always returns
// one of Erase, Update, Insert, or Spill.
func (b *Book[P, Q]) Set(isBid bool, price P, qty Q) tape.UpdateResult {
	t := b.tapeFor(isBid)
	s := b.spillFor(isBid)

	rc := t.SetQty(price, qty, s)
	if rc != tape.Promote {
		return rc
	}

	b.recordPromote(isBid)

	n := t.Size()
	a := computeAnchor(price, n/2, t)
	if lo := computeAnchor(price, n-1, t); a < lo {
		a = lo
	}
	if a > price {
		a = price
	}

	b.recenter(isBid, a)

	return t.SetQty(price, qty, tape.NullSink[P, Q]{})
}

// recenter shifts one side's tape to anchor a, spilling displaced cells,
// then drains every spill entry now inside the new window back into the
// tape. The drain uses a null sink so a drained entry can never itself
// produce a new spill.
func (b *Book[P, Q]) recenter(isBid bool, a P) {
	t := b.tapeFor(isBid)
	s := b.spillFor(isBid)

	t.RecenterToAnchor(a, s)
	b.recordRecenter(isBid)

	lo, hi := a, a+P(t.Size()-1)
	s.DrainRange(isBid, lo, hi, func(px P, qty Q) {
		t.SetQty(px, qty, tape.NullSink[P, Q]{})
	})
}

// RecenterBid forces a recenter of the bid side to anchor.
func (b *Book[P, Q]) RecenterBid(anchor P) { b.recenter(true, anchor) }

// RecenterAsk forces a recenter of the ask side to anchor.
func (b *Book[P, Q]) RecenterAsk(anchor P) { b.recenter(false, anchor) }

// EraseBetter bulk-erases levels at or better than threshold on one side,
// forwarding to both the tape and the spill in order.
func (b *Book[P, Q]) EraseBetter(isBid bool, threshold P) {
	t := b.tapeFor(isBid)
	s := b.spillFor(isBid)
	t.EraseBetter(threshold, s)
}

// BestBidPx returns the best bid price: the tape-best if it is at least
// as good as the spill-best (ties favor the tape), else the spill-best.
// Returns the no-bid sentinel if both sides are empty.
func (b *Book[P, Q]) BestBidPx() P {
	tp, sp := b.bidTape.BestPx(), b.bidSpill.BestPx(true)
	if tp >= sp {
		return tp
	}
	return sp
}

// BestAskPx mirrors BestBidPx for the ask side.
func (b *Book[P, Q]) BestAskPx() P {
	tp, sp := b.askTape.BestPx(), b.askSpill.BestPx(false)
	if tp <= sp {
		return tp
	}
	return sp
}

// BestBidQty returns the quantity at BestBidPx.
func (b *Book[P, Q]) BestBidQty() Q {
	tp, sp := b.bidTape.BestPx(), b.bidSpill.BestPx(true)
	if tp >= sp {
		return b.bidTape.BestQty()
	}
	return b.bidSpill.BestQty(true)
}

// BestAskQty returns the quantity at BestAskPx.
func (b *Book[P, Q]) BestAskQty() Q {
	tp, sp := b.askTape.BestPx(), b.askSpill.BestPx(false)
	if tp <= sp {
		return b.askTape.BestQty()
	}
	return b.askSpill.BestQty(false)
}

// Crossed reports whether the book is crossed: both sides non-empty and
// the best bid is at or above the best ask.
func (b *Book[P, Q]) Crossed() bool {
	bid, ask := b.BestBidPx(), b.BestAskPx()
	return bid != tape.LowestPx[P]() && ask != tape.HighestPx[P]() && bid >= ask
}

// CrossedOnTape is the cheap tape-only variant of Crossed, valid when the
// caller knows both spills are empty.
func (b *Book[P, Q]) CrossedOnTape() bool {
	bid, ask := b.bidTape.BestPx(), b.askTape.BestPx()
	return bid != tape.LowestPx[P]() && ask != tape.HighestPx[P]() && bid >= ask
}

// VerifyInvariants is a debug check: it returns true iff, on both tapes,
// the bitset matches the quantities and the cached best index matches a
// fresh scan. It does not check anchor bounds (Reset and RecenterToAnchor
// panic on an invalid anchor), spill sortedness, non-zero spill entries,
// or window disjointness.
func (b *Book[P, Q]) VerifyInvariants() bool {
	return b.bidTape.VerifyInvariants() && b.askTape.VerifyInvariants()
}

// Release returns both sides' spill allocations to their arena, if any.
// It must run before the arena's own release; see SPEC_FULL.md §3.
func (b *Book[P, Q]) Release() {
	b.bidSpill.Release()
	b.askSpill.Release()
}

func (b *Book[P, Q]) recordPromote(isBid bool) {
	if b.rec != nil {
		b.rec.Promotes(isBid).Inc()
	}
}

func (b *Book[P, Q]) recordRecenter(isBid bool) {
	if b.rec != nil {
		b.rec.Recenters(isBid).Inc()
	}
}
