/*
Package engine provides the shared vocabulary for the commission engine.

PURPOSE:
  This package contains the domain-agnostic building blocks used by every
  other package: exact monetary amounts, day-aware time points, and the
  error taxonomy. Whether computing a personal commission, a payment due
  date, or a rank threshold, the same primitives apply.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: An exact currency amount backed by decimal.Decimal
  - Rate: A per-square-yard commission rate (same representation)

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere - commission totals are money,
     and float drift across a 9-level network compounds fast
  2. Immutability: Money values are copied, never mutated in place
  3. No units: everything is a single currency; area is carried separately

USAGE:
  target := engine.NewMoney(100000)
  floor := target.Percent(10)          // minimum first installment
  if paid.Add(next).GreaterThan(target) { ... }

SEE ALSO:
  - time.go: TimePoint and working-day arithmetic
  - errors.go: Error taxonomy
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Exact currency amount
// =============================================================================

// Money is an exact currency amount. The zero value is zero money.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

// ParseMoney parses a decimal string, returning zero money on failure.
// Malformed amounts in imported rows degrade to zero rather than aborting
// the whole load.
func ParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	return Money{Value: d}
}

func (m Money) Add(b Money) Money          { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money          { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Neg() Money                 { return Money{Value: m.Value.Neg()} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool   { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool      { return m.Value.LessThan(b.Value) }
func (m Money) GreaterThanOrEqual(b Money) bool { return m.Value.GreaterThanOrEqual(b.Value) }

// Percent returns p percent of the amount (e.g. Percent(10) for the
// minimum first installment).
func (m Money) Percent(p int64) Money {
	return Money{Value: m.Value.Mul(decimal.NewFromInt(p)).Div(decimal.NewFromInt(100))}
}

func (m Money) String() string { return m.Value.String() }

// RatePerSqYd multiplies a per-square-yard rate by an area, yielding money.
func RatePerSqYd(rate, areaSqYd decimal.Decimal) Money {
	return Money{Value: rate.Mul(areaSqYd)}
}
