// Package fuzz generates randomized operation sequences for the
// stress properties in SPEC_FULL.md §8, grounded on the workload
// generators in original_source/bench/workloads.hpp. A seeded
// math/rand.Rand stands in for the original's std::mt19937_64 — both are
// deterministic PRNGs, so a fixed seed reproduces a fixed sequence.
package fuzz

import (
	"math/rand"

	"github.com/raddy/tape-book/internal/tape"
)

// Op is one generated operation: set(IsBid, Px, Qty), Qty == 0 meaning
// cancel.
type Op[P tape.Price, Q tape.Qty] struct {
	IsBid bool
	Px    P
	Qty   Q
}

func uniform(rng *rand.Rand, lo, hi int64) int64 {
	if lo >= hi {
		return lo
	}
	return lo + rng.Int63n(hi-lo+1)
}

func sidedPrice[P tape.Price](rng *rand.Rand, center, offset int64) (bool, P) {
	isBid := rng.Intn(2) == 0
	if isBid {
		return true, P(center - offset)
	}
	return false, P(center + offset)
}

func randQty[Q tape.Qty](rng *rand.Rand, cancelPct int) Q {
	if rng.Intn(100) < cancelPct {
		return 0
	}
	return Q(1 + rng.Intn(500))
}

// Clustered generates updates concentrated near center: 70% within
// tightRange ticks, 20% within 4x, 10% within 16x, 15% cancels. Mirrors
// the original's WorkloadClustered — the realistic "most activity near
// the inside of the book" shape.
type Clustered[P tape.Price, Q tape.Qty] struct {
	rng        *rand.Rand
	center     int64
	tightRange int64
}

func NewClustered[P tape.Price, Q tape.Qty](seed int64, center, tightRange int64) *Clustered[P, Q] {
	return &Clustered[P, Q]{rng: rand.New(rand.NewSource(seed)), center: center, tightRange: tightRange}
}

func (w *Clustered[P, Q]) Next() Op[P, Q] {
	roll := w.rng.Intn(100)
	var offset int64
	switch {
	case roll < 70:
		offset = uniform(w.rng, 0, w.tightRange)
	case roll < 90:
		offset = uniform(w.rng, w.tightRange, w.tightRange*4)
	default:
		offset = uniform(w.rng, w.tightRange*4, w.tightRange*16)
	}
	isBid, px := sidedPrice[P](w.rng, w.center, offset)
	return Op[P, Q]{IsBid: isBid, Px: px, Qty: randQty[Q](w.rng, 15)}
}

// Uniform spreads prices uniformly across [center-range, center+range].
type Uniform[P tape.Price, Q tape.Qty] struct {
	rng    *rand.Rand
	center int64
	rng2   int64 // range, named to avoid shadowing the rand field
}

func NewUniform[P tape.Price, Q tape.Qty](seed int64, center, rangeTicks int64) *Uniform[P, Q] {
	return &Uniform[P, Q]{rng: rand.New(rand.NewSource(seed)), center: center, rng2: rangeTicks}
}

func (w *Uniform[P, Q]) Next() Op[P, Q] {
	offset := uniform(w.rng, 0, w.rng2)
	isBid, px := sidedPrice[P](w.rng, w.center, offset)
	return Op[P, Q]{IsBid: isBid, Px: px, Qty: randQty[Q](w.rng, 15)}
}

// HeavySpill generates mostly out-of-window updates (80% between
// tapeHalf and tapeHalf*4 from center), exercising the promote/recenter
// path far more often than Clustered does.
type HeavySpill[P tape.Price, Q tape.Qty] struct {
	rng      *rand.Rand
	center   int64
	tapeHalf int64
}

func NewHeavySpill[P tape.Price, Q tape.Qty](seed int64, center, tapeHalf int64) *HeavySpill[P, Q] {
	return &HeavySpill[P, Q]{rng: rand.New(rand.NewSource(seed)), center: center, tapeHalf: tapeHalf}
}

func (w *HeavySpill[P, Q]) Next() Op[P, Q] {
	var offset int64
	if w.rng.Intn(100) < 80 {
		offset = w.tapeHalf + uniform(w.rng, 0, w.tapeHalf*3)
	} else {
		offset = uniform(w.rng, 0, w.tapeHalf-1)
	}
	isBid, px := sidedPrice[P](w.rng, w.center, offset)
	return Op[P, Q]{IsBid: isBid, Px: px, Qty: randQty[Q](w.rng, 10)}
}

// PriceWalk drifts bid and ask cursors monotonically upward, forcing a
// steady stream of recenters — the trending-market shape.
type PriceWalk[P tape.Price, Q tape.Qty] struct {
	rng       *rand.Rand
	bidCursor int64
	askCursor int64
	maxStep   int64
}

func NewPriceWalk[P tape.Price, Q tape.Qty](seed, startBid, startAsk, maxStep int64) *PriceWalk[P, Q] {
	return &PriceWalk[P, Q]{rng: rand.New(rand.NewSource(seed)), bidCursor: startBid, askCursor: startAsk, maxStep: maxStep}
}

func (w *PriceWalk[P, Q]) Next() Op[P, Q] {
	isBid := w.rng.Intn(2) == 0
	var px P
	if isBid {
		w.bidCursor += uniform(w.rng, 0, w.maxStep)
		px = P(w.bidCursor)
	} else {
		w.askCursor += uniform(w.rng, 0, w.maxStep)
		px = P(w.askCursor)
	}
	return Op[P, Q]{IsBid: isBid, Px: px, Qty: Q(1 + w.rng.Intn(500))}
}

// CancelHeavy cluster prices near center with a 70% cancel rate,
// modelling cancel-dominated flow.
type CancelHeavy[P tape.Price, Q tape.Qty] struct {
	rng    *rand.Rand
	center int64
	rng2   int64
}

func NewCancelHeavy[P tape.Price, Q tape.Qty](seed, center, rangeTicks int64) *CancelHeavy[P, Q] {
	return &CancelHeavy[P, Q]{rng: rand.New(rand.NewSource(seed)), center: center, rng2: rangeTicks}
}

func (w *CancelHeavy[P, Q]) Next() Op[P, Q] {
	offset := uniform(w.rng, 0, w.rng2)
	isBid, px := sidedPrice[P](w.rng, w.center, offset)
	return Op[P, Q]{IsBid: isBid, Px: px, Qty: randQty[Q](w.rng, 70)}
}
