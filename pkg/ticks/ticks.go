// Package ticks converts between a caller's human-scale decimal prices
// and the integral tick values the tape's Price type parameter requires.
package ticks

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToTicks divides price by tickSize and returns the result as an int64
// tick count. It errors if price is not an exact multiple of tickSize —
// the tape has no concept of a fractional tick, so a caller that feeds
// it one is almost certainly misconfigured, and silently rounding would
// hide that.
func ToTicks(price, tickSize decimal.Decimal) (int64, error) {
	if tickSize.Sign() <= 0 {
		return 0, fmt.Errorf("ticks: tick size must be positive, got %s", tickSize)
	}
	q := price.Div(tickSize)
	if !q.Equal(q.Truncate(0)) {
		return 0, fmt.Errorf("ticks: price %s is not a multiple of tick size %s", price, tickSize)
	}
	return q.IntPart(), nil
}

// FromTicks multiplies ticks by tickSize to recover a decimal price.
func FromTicks(ticks int64, tickSize decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(ticks).Mul(tickSize)
}
