package metrics

import (
	"sort"
	"strconv"
)

// equityCurve orders trades by date, then id, and accumulates net P&L.
func equityCurve(trades []ComputedTrade) []EquityPoint {
	sorted := make([]ComputedTrade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return compareIDs(a.ID, b.ID) < 0
	})

	out := make([]EquityPoint, 0, len(sorted))
	var cum float64
	for i, t := range sorted {
		cum += t.NetPnL
		out = append(out, EquityPoint{
			Index: i + 1,
			Date:  t.Date,
			PnL:   round2(cum),
		})
	}
	return out
}

// compareIDs orders integer ids numerically and everything else (ULIDs
// included) lexicographically.
func compareIDs(a, b string) int {
	ai, aerr := strconv.ParseUint(a, 10, 64)
	bi, berr := strconv.ParseUint(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
