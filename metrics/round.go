package metrics

import (
	"math"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// round rounds x half-up to places decimals. The work is done on the
// shortest decimal form of x, so 1.005 rounds to 1.01 and -2.5 to -2.
// Non-finite input yields 0.
func round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return decimal.NewFromFloat(x).
		Shift(places).
		Add(half).
		Floor().
		Shift(-places).
		InexactFloat64()
}

func round2(x float64) float64 { return round(x, 2) }

func round1(x float64) float64 { return round(x, 1) }

// ratio divides with a zero guard.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
