// Package metrics derives per-trade risk figures and portfolio statistics
// from journal records. Everything here is a pure function of its inputs:
// no I/O, no logging, no shared state.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// DefaultWeekdays is indexed by time.Weekday (0 = Sunday).
var DefaultWeekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ComputedTrade is a record enriched with its derived metrics. StopPips
// and PnLPips are raw price distances and are not rounded.
type ComputedTrade struct {
	journal.TradeRecord
	Weekday   string  `json:"weekday"`
	StopPips  float64 `json:"stop_pips"`
	PnLPips   float64 `json:"pnl_pips"`
	RMultiple float64 `json:"r_multiple"`
	Spread    float64 `json:"spread"`
	NetPnL    float64 `json:"net_pnl"`
}

// InvalidDateError reports a trade whose date cannot be parsed.
type InvalidDateError struct {
	ID   string
	Date string
	Err  error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("trade %s: invalid date %q: %v", e.ID, e.Date, e.Err)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// Calculator holds the configuration the engine is run with. The zero
// value uses DefaultCostTable and DefaultWeekdays.
type Calculator struct {
	Costs    CostTable
	Weekdays []string
}

func (c Calculator) costs() CostTable {
	if c.Costs == nil {
		return DefaultCostTable()
	}
	return c.Costs
}

func (c Calculator) weekday(d time.Weekday) string {
	if len(c.Weekdays) == 7 {
		return c.Weekdays[d]
	}
	return DefaultWeekdays[d]
}

// ComputeTrade derives the metrics of one trade using the default weekday
// names. A nil cost table means DefaultCostTable.
func ComputeTrade(t journal.TradeRecord, costs CostTable) (ComputedTrade, error) {
	return Calculator{Costs: costs}.Trade(t)
}

// Trade derives the metrics of one trade. The only failure is an
// unparseable date.
func (c Calculator) Trade(t journal.TradeRecord) (ComputedTrade, error) {
	day, err := parseDate(t.Date)
	if err != nil {
		return ComputedTrade{}, &InvalidDateError{ID: t.ID, Date: t.Date, Err: err}
	}
	return c.compute(t, day), nil
}

func (c Calculator) compute(t journal.TradeRecord, day time.Time) ComputedTrade {
	entry := t.Entry.Float()
	stop := t.Stop.Float()
	exit := journal.Opt(t.ExitPrice)
	lots := t.Lots.Float()
	gross := journal.Opt(t.GrossPnL)
	swap := t.Swap.Float()

	var stopPips float64
	if stop > 0 {
		stopPips = math.Abs(entry - stop)
	}

	pnlPips := entry - exit
	if t.Direction.IsLong() {
		pnlPips = exit - entry
	}

	var r float64
	if stopPips > 0 {
		r = pnlPips / stopPips
	}

	spread := c.costs().Cost(t.Pair) * lots
	net := gross - spread + swap

	return ComputedTrade{
		TradeRecord: t,
		Weekday:     c.weekday(day.Weekday()),
		StopPips:    stopPips,
		PnLPips:     pnlPips,
		RMultiple:   round2(r),
		Spread:      round2(spread),
		NetPnL:      round2(net),
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(journal.DateLayout, s)
	if err == nil {
		return d, nil
	}
	if ts, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return ts, nil
	}
	return time.Time{}, err
}
