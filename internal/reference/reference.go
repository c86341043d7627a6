// Package reference implements the naive, obviously-correct model used
// to check the tape-book's equivalence property: a pair of Go maps from
// price to non-zero quantity, with every best-price query answered by a
// full scan of the map. It exists to be correct, not fast — see
// SPEC_FULL.md §8.
package reference

import (
	"sort"

	"github.com/raddy/tape-book/internal/tape"
)

// Map is one side (bid or ask) of the reference model.
type Map[P tape.Price, Q tape.Qty] struct {
	isBid bool
	m     map[P]Q
}

// NewMap constructs an empty reference side.
func NewMap[P tape.Price, Q tape.Qty](isBid bool) *Map[P, Q] {
	return &Map[P, Q]{isBid: isBid, m: make(map[P]Q)}
}

// Set applies qty == 0 as a delete, qty != 0 as an insert/overwrite —
// the same semantics Book.Set exposes, with no window to fall out of.
func (r *Map[P, Q]) Set(px P, qty Q) {
	if qty == 0 {
		delete(r.m, px)
		return
	}
	r.m[px] = qty
}

// EraseBetter drops every price at or better than threshold (bid: >=;
// ask: <=).
func (r *Map[P, Q]) EraseBetter(threshold P) {
	for px := range r.m {
		if r.isBid && px >= threshold {
			delete(r.m, px)
		} else if !r.isBid && px <= threshold {
			delete(r.m, px)
		}
	}
}

// Clear removes every entry.
func (r *Map[P, Q]) Clear() {
	r.m = make(map[P]Q)
}

// BestPx returns the best occupied price, or the polarity's sentinel if
// empty.
func (r *Map[P, Q]) BestPx() P {
	sentinel := tape.LowestPx[P]()
	if !r.isBid {
		sentinel = tape.HighestPx[P]()
	}
	best := sentinel
	first := true
	for px := range r.m {
		if first || (r.isBid && px > best) || (!r.isBid && px < best) {
			best = px
			first = false
		}
	}
	return best
}

// BestQty returns the quantity at BestPx, or zero if empty.
func (r *Map[P, Q]) BestQty() Q {
	return r.m[r.BestPx()]
}

// Len returns the number of occupied prices.
func (r *Map[P, Q]) Len() int { return len(r.m) }

// Sorted returns every occupied (price, qty) pair in ascending price
// order, for tests that want to compare full book contents rather than
// just the best-of queries.
func (r *Map[P, Q]) Sorted() []tape.Level[P, Q] {
	out := make([]tape.Level[P, Q], 0, len(r.m))
	for px, qty := range r.m {
		out = append(out, tape.Level[P, Q]{Px: px, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Px < out[j].Px })
	return out
}

// Book pairs a bid and an ask reference side, mirroring book.Book's
// shape closely enough to drive the same replay loop against both.
type Book[P tape.Price, Q tape.Qty] struct {
	Bid *Map[P, Q]
	Ask *Map[P, Q]
}

// NewBook constructs an empty reference book.
func NewBook[P tape.Price, Q tape.Qty]() *Book[P, Q] {
	return &Book[P, Q]{Bid: NewMap[P, Q](true), Ask: NewMap[P, Q](false)}
}

func (b *Book[P, Q]) side(isBid bool) *Map[P, Q] {
	if isBid {
		return b.Bid
	}
	return b.Ask
}

// Set mirrors book.Book.Set's signature, minus the UpdateResult the
// reference model has no use for.
func (b *Book[P, Q]) Set(isBid bool, px P, qty Q) { b.side(isBid).Set(px, qty) }

// EraseBetter mirrors book.Book.EraseBetter.
func (b *Book[P, Q]) EraseBetter(isBid bool, threshold P) { b.side(isBid).EraseBetter(threshold) }

// Reset clears both sides — the reference model has no anchor, so this
// is equivalent to book.Book.Reset for comparison purposes.
func (b *Book[P, Q]) Reset() {
	b.Bid.Clear()
	b.Ask.Clear()
}

// BestBidPx, BestAskPx, BestBidQty, BestAskQty mirror book.Book's query
// surface for the equivalence property.
func (b *Book[P, Q]) BestBidPx() P  { return b.Bid.BestPx() }
func (b *Book[P, Q]) BestAskPx() P  { return b.Ask.BestPx() }
func (b *Book[P, Q]) BestBidQty() Q { return b.Bid.BestQty() }
func (b *Book[P, Q]) BestAskQty() Q { return b.Ask.BestQty() }

// Crossed mirrors book.Book.Crossed.
func (b *Book[P, Q]) Crossed() bool {
	bid, ask := b.BestBidPx(), b.BestAskPx()
	return bid != tape.LowestPx[P]() && ask != tape.HighestPx[P]() && bid >= ask
}
