// Package tape implements the direct-addressed, bitset-summarized price
// array that is the hot path of a tape-book side: O(1) updates and
// best-price queries for prices that fall inside the tape's window, with
// a bitset-backed O(N/64) scan for the next/previous occupied level when
// the current best is erased.
package tape

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Price is the signed integral type backing a price tick. Real instantiations
// are int16, int32, or int64; the constraint is not narrower than that
// because the tape's arithmetic is correct for any signed integer width.
type Price interface {
	constraints.Signed
}

// Qty is the unsigned integral type backing a resting quantity. Zero always
// means "level absent" — there is no separate tombstone representation.
type Qty interface {
	constraints.Unsigned
}

// UpdateResult is the tagged outcome of a tape or book mutation.
type UpdateResult int8

const (
	// Erase means the level at the given price is now absent (it may have
	// been absent already — a zero-quantity delete of a nonexistent
	// in-window level is still reported as Erase, not as a no-op distinct
	// from a real deletion).
	Erase UpdateResult = -1
	// Spill means the price fell outside the tape's window and was not a
	// new best; the update (or delete-intent) was routed to the spill side.
	Spill UpdateResult = -2
	// Update means an existing in-window level's quantity was overwritten.
	Update UpdateResult = 0
	// Insert means a new in-window level was created.
	Insert UpdateResult = 1
	// Promote is internal: the tape reports it when the update price is
	// out-of-window and strictly better than the tape's current best (or
	// the tape is empty). A caller of Book.Set never observes Promote —
	// the book controller recenters and retries before returning.
	Promote UpdateResult = 2
)

func (r UpdateResult) String() string {
	switch r {
	case Erase:
		return "Erase"
	case Spill:
		return "Spill"
	case Update:
		return "Update"
	case Insert:
		return "Insert"
	case Promote:
		return "Promote"
	default:
		return "UpdateResult(?)"
	}
}

// Level is a single (price, quantity) pair. It is the unit of currency
// between the tape, the spill side, and the arena allocator.
type Level[P Price, Q Qty] struct {
	Px  P
	Qty Q
}

// LowestPx returns the no-bid sentinel for P: the smallest representable
// value of P.
func LowestPx[P Price]() P {
	return minVal[P]()
}

// HighestPx returns the no-ask sentinel for P: the largest representable
// value of P.
func HighestPx[P Price]() P {
	return maxVal[P]()
}

// minVal and maxVal exist because Go generics give no way to ask "what is
// the bit width of P" without either unsafe.Sizeof or this sort of type
// switch over the zero value. The type switch is the more readable of the
// two. It runs on every sentinel and anchor-bound lookup (BestPx on an
// empty side, Reset, RecenterToAnchor, the crossed checks).
func maxVal[P Price]() P {
	var zero P
	switch v := any(zero).(type) {
	case int8:
		v = math.MaxInt8
		return P(v)
	case int16:
		v = math.MaxInt16
		return P(v)
	case int32:
		v = math.MaxInt32
		return P(v)
	case int64:
		v = math.MaxInt64
		return P(v)
	case int:
		v = math.MaxInt
		return P(v)
	default:
		panic("tape: unsupported Price type")
	}
}

func minVal[P Price]() P {
	var zero P
	switch v := any(zero).(type) {
	case int8:
		v = math.MinInt8
		return P(v)
	case int16:
		v = math.MinInt16
		return P(v)
	case int32:
		v = math.MinInt32
		return P(v)
	case int64:
		v = math.MinInt64
		return P(v)
	case int:
		v = math.MinInt
		return P(v)
	default:
		panic("tape: unsupported Price type")
	}
}
