package calculation

import "github.com/shopspring/decimal"

// RoundRupee rounds a statutory component to the nearest whole rupee,
// half-up. Every money figure that leaves the engine (base tax, surcharge,
// cess, totals, recommendation savings) passes through here so reported
// totals and recommended savings cannot drift apart.
//
// decimal.Round is half-away-from-zero, which equals half-up for the
// non-negative amounts produced by the engine.
func RoundRupee(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
