// Package spill implements the sorted overflow buffer that absorbs
// price-level updates falling outside a tape's window, plus the
// two-sided wrapper (bid + ask) that satisfies the tape.Sink interface.
package spill

import (
	"sort"

	"github.com/raddy/tape-book/internal/arena"
	"github.com/raddy/tape-book/internal/tape"
	"github.com/raddy/tape-book/pkg/metrics"
)

// Side is one polarity's sorted overflow sequence: ascending by price, no
// duplicate prices, no zero-quantity entries. It grows geometrically from
// 0 to maxCap (0 → 16 → 32 → … → maxCap) and evicts its worst entry on
// insert once full, silently dropping the insert if the new price is not
// better than the evictee.
type Side[P tape.Price, Q tape.Qty] struct {
	isBid  bool
	a      []tape.Level[P, Q]
	maxCap int32

	evictions uint64
	pool      *arena.Arena[P, Q]
	blk       arena.Block[P, Q] // valid only when pool != nil
	rec       *metrics.Recorder
}

// NewSide constructs an empty spill side. maxCap must be a power of two
// >= 1. pool may be nil, in which case the side grows via ordinary Go
// slice allocation instead of an arena. rec may be nil to disable metrics.
func NewSide[P tape.Price, Q tape.Qty](isBid bool, maxCap int32, pool *arena.Arena[P, Q], rec *metrics.Recorder) *Side[P, Q] {
	if maxCap < 1 || maxCap&(maxCap-1) != 0 {
		panic("spill: maxCap must be a power of two >= 1")
	}
	return &Side[P, Q]{isBid: isBid, maxCap: maxCap, pool: pool, rec: rec}
}

// Len returns the number of occupied entries.
func (s *Side[P, Q]) Len() int32 { return int32(len(s.a)) }

// Evictions returns the monotonic count of entries silently dropped to
// make room for a better price at max capacity.
func (s *Side[P, Q]) Evictions() uint64 { return s.evictions }

func (s *Side[P, Q]) lowerBound(px P) int {
	return sort.Search(len(s.a), func(i int) bool { return s.a[i].Px >= px })
}

func (s *Side[P, Q]) ensureCap() {
	cap32 := int32(cap(s.a))
	newCap := cap32 * 2
	if newCap == 0 {
		newCap = 16
	}
	if newCap > s.maxCap {
		newCap = s.maxCap
	}
	if newCap <= cap32 {
		return
	}

	if s.pool != nil {
		n := int32(len(s.a))
		blk := s.pool.Reallocate(s.blk, cap32, newCap, n)
		if blk.IsNil() {
			return
		}
		s.blk = blk
		s.a = blk.Data[:n]
		return
	}

	grown := make([]tape.Level[P, Q], len(s.a), newCap)
	copy(grown, s.a)
	s.a = grown
}

// AddPoint inserts, updates, or removes a single (price, qty) entry,
// applying eviction if the side is at maxCap. qty == 0 removes the entry
// if present and is otherwise a no-op (it never triggers an insert).
func (s *Side[P, Q]) AddPoint(px P, qty Q) {
	if int32(len(s.a)) == int32(cap(s.a)) && int32(cap(s.a)) < s.maxCap {
		s.ensureCap()
	}

	i := s.lowerBound(px)
	if i < len(s.a) && s.a[i].Px == px {
		if qty == 0 {
			copy(s.a[i:], s.a[i+1:])
			s.a = s.a[:len(s.a)-1]
		} else {
			s.a[i].Qty = qty
		}
		return
	}

	if qty == 0 {
		return
	}

	// Full means at maxCap, or at the current capacity because growth
	// through the arena failed; either way the side does not grow past it.
	if int32(len(s.a)) == s.maxCap || len(s.a) == cap(s.a) {
		if len(s.a) == 0 {
			return
		}
		if s.isBid {
			if px <= s.a[0].Px {
				return
			}
			copy(s.a, s.a[1:])
			s.a = s.a[:len(s.a)-1]
		} else {
			if px >= s.a[len(s.a)-1].Px {
				return
			}
			s.a = s.a[:len(s.a)-1]
		}
		s.evictions++
		if s.rec != nil {
			s.rec.SpillEvictions(s.isBid).Inc()
		}
	}

	j := s.lowerBound(px)
	s.a = append(s.a, tape.Level[P, Q]{})
	copy(s.a[j+1:], s.a[j:len(s.a)-1])
	s.a[j] = tape.Level[P, Q]{Px: px, Qty: qty}
}

// DrainRange invokes fn(price, qty) for every entry with lo <= price <=
// hi, then removes those entries from the side.
func (s *Side[P, Q]) DrainRange(lo, hi P, fn func(px P, qty Q)) {
	if len(s.a) == 0 {
		return
	}
	l := s.lowerBound(lo)
	r := l
	for r < len(s.a) && s.a[r].Px <= hi {
		if s.a[r].Qty != 0 {
			fn(s.a[r].Px, s.a[r].Qty)
		}
		r++
	}
	if l < r {
		keep := len(s.a) - r
		copy(s.a[l:], s.a[r:])
		s.a = s.a[:l+keep]
	}
}

// EraseBetter drops every entry at or better than threshold (bid:
// price >= threshold; ask: price <= threshold) via a stable partition.
func (s *Side[P, Q]) EraseBetter(threshold P) {
	w := 0
	if s.isBid {
		for i := range s.a {
			if s.a[i].Px < threshold {
				s.a[w] = s.a[i]
				w++
			}
		}
	} else {
		for i := range s.a {
			if s.a[i].Px > threshold {
				s.a[w] = s.a[i]
				w++
			}
		}
	}
	s.a = s.a[:w]
}

// Iterate walks entries in improving-to-worsening order, stopping once a
// price worse than worstPx is reached, or fn returns false.
func (s *Side[P, Q]) Iterate(worstPx P, fn func(px P, qty Q) bool) {
	if s.isBid {
		for i := len(s.a) - 1; i >= 0; i-- {
			lv := s.a[i]
			if lv.Px < worstPx {
				return
			}
			if !fn(lv.Px, lv.Qty) {
				return
			}
		}
	} else {
		for i := range s.a {
			lv := s.a[i]
			if lv.Px > worstPx {
				return
			}
			if !fn(lv.Px, lv.Qty) {
				return
			}
		}
	}
}

// BestPx returns the best entry's price, or the polarity's sentinel if
// empty.
func (s *Side[P, Q]) BestPx() P {
	if len(s.a) == 0 {
		if s.isBid {
			return tape.LowestPx[P]()
		}
		return tape.HighestPx[P]()
	}
	if s.isBid {
		return s.a[len(s.a)-1].Px
	}
	return s.a[0].Px
}

// BestQty returns the best entry's quantity, or zero if empty.
func (s *Side[P, Q]) BestQty() Q {
	if len(s.a) == 0 {
		return 0
	}
	if s.isBid {
		return s.a[len(s.a)-1].Qty
	}
	return s.a[0].Qty
}

// Clear empties the side without releasing its backing allocation.
func (s *Side[P, Q]) Clear() { s.a = s.a[:0] }

// Release returns the side's backing allocation to its arena (if any);
// otherwise it simply drops the slice for the GC to reclaim.
func (s *Side[P, Q]) Release() {
	if s.pool != nil && !s.blk.IsNil() {
		s.pool.Deallocate(s.blk, int32(cap(s.blk.Data)))
		s.blk = arena.Block[P, Q]{}
	}
	s.a = nil
}
