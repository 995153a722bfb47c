package pricing

import "github.com/shopspring/decimal"

// CurrencyPrecision is the number of decimal places kept on costs and totals.
const CurrencyPrecision = 2

const ratePrecision = 4

// LineCost returns hours * rate rounded to currency precision.
func LineCost(hours, rate float64) float64 {
	return decimal.NewFromFloat(hours).
		Mul(decimal.NewFromFloat(rate)).
		Round(CurrencyPrecision).
		InexactFloat64()
}

// Sum adds values without accumulating binary floating point drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(CurrencyPrecision).InexactFloat64()
}

// Sub returns a - b rounded to currency precision.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).
		Sub(decimal.NewFromFloat(b)).
		Round(CurrencyPrecision).
		InexactFloat64()
}

// normalizeItem makes (hours, rate) consistent with an optional absolute cost.
//
// A known rate always wins and cost is derived from it. Without a rate, an
// absolute cost is turned into a rate (cost / hours), or into a single unit
// when there are no hours, so the cost survives the next recalculation pass.
func normalizeItem(hours float64, rate *float64, cost *float64) (float64, float64) {
	if hours < 0 {
		hours = 0
	}
	if rate != nil && *rate > 0 {
		return hours, *rate
	}
	if cost == nil || *cost <= 0 {
		if rate != nil && *rate >= 0 {
			return hours, *rate
		}
		return hours, 0
	}
	if hours == 0 {
		return 1, *cost
	}
	r := decimal.NewFromFloat(*cost).
		Div(decimal.NewFromFloat(hours)).
		Round(ratePrecision).
		InexactFloat64()
	return hours, r
}
