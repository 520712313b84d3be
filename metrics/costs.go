package metrics

import "sort"

// DefaultSpreadCost is charged per lot for instruments missing from a
// CostTable.
const DefaultSpreadCost = 5.0

// CostTable maps an instrument name to its per-lot spread cost in account
// currency.
type CostTable map[string]float64

// Cost returns the per-lot cost for pair. Missing and non-positive entries
// fall back to DefaultSpreadCost.
func (c CostTable) Cost(pair string) float64 {
	if v, ok := c[pair]; ok && v > 0 {
		return v
	}
	return DefaultSpreadCost
}

// With returns a copy of c with over applied on top.
func (c CostTable) With(over map[string]float64) CostTable {
	out := make(CostTable, len(c)+len(over))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Names lists the instruments in c in sorted order.
func (c CostTable) Names() []string {
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultCostTable returns the built-in spread costs for the common FX
// pairs and commodities.
func DefaultCostTable() CostTable {
	return CostTable{
		"EUR/USD": 3.5, "GBP/USD": 4, "USD/JPY": 3, "AUD/USD": 3.5,
		"NZD/USD": 4.5, "USD/CAD": 4, "USD/CHF": 4, "EUR/GBP": 4.5,
		"EUR/JPY": 5, "GBP/JPY": 6, "AUD/JPY": 5, "NZD/JPY": 5,
		"CAD/JPY": 5, "AUD/CAD": 4, "EUR/AUD": 5, "USD/CNH": 8,
		"XAU/USD": 12, "XAG/USD": 10, "USOil": 5, "UKOil": 6,
		"NGAS": 8, "Copper": 5, "BABA.hk": 1,
	}
}
