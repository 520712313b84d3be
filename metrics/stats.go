package metrics

import (
	"math"
	"sort"

	"github.com/rustyeddy/tradejournal/journal"
)

// Bucket aggregates the trades sharing one breakdown key.
type Bucket struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
	PnL     float64 `json:"pnl"`
	AvgR    float64 `json:"avg_r"`
}

// EquityPoint is one step of the cumulative net P&L curve.
type EquityPoint struct {
	Index int     `json:"idx"`
	Date  string  `json:"date"`
	PnL   float64 `json:"pnl"`
}

// PortfolioStats summarizes a set of trades.
type PortfolioStats struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`

	TotalNet    float64 `json:"total_net"`
	TotalGross  float64 `json:"total_gross"`
	TotalSpread float64 `json:"total_spread"`
	TotalSwap   float64 `json:"total_swap"`

	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	ProfitFactor float64 `json:"profit_factor"`
	AvgR         float64 `json:"avg_r"`

	ByPair      []Bucket `json:"by_pair"`
	ByStrategy  []Bucket `json:"by_strategy"`
	ByEmotion   []Bucket `json:"by_emotion"`
	ByWeekday   []Bucket `json:"by_weekday"`
	ByTimeframe []Bucket `json:"by_timeframe"`

	Equity []EquityPoint   `json:"equity"`
	Trades []ComputedTrade `json:"trades"`
}

// Empty reports whether s carries no data. It is safe on a nil receiver.
func (s *PortfolioStats) Empty() bool {
	return s == nil || s.Total == 0
}

// ComputeStats aggregates records with the default weekday names. It
// returns nil stats and a nil error when records is empty.
func ComputeStats(records []journal.TradeRecord, costs CostTable) (*PortfolioStats, error) {
	return Calculator{Costs: costs}.Stats(records)
}

// Stats aggregates records. Trades with a net P&L of exactly zero count
// toward Total and WinRate's denominator but toward neither Wins nor
// Losses. ProfitFactor is |AvgWin / AvgLoss|, 0 when there are no losses.
func (c Calculator) Stats(records []journal.TradeRecord) (*PortfolioStats, error) {
	if len(records) == 0 {
		return nil, nil
	}

	computed := make([]ComputedTrade, 0, len(records))
	for _, r := range records {
		ct, err := c.Trade(r)
		if err != nil {
			return nil, err
		}
		computed = append(computed, ct)
	}

	var st PortfolioStats
	var winSum, lossSum float64
	var net, gross, spread, swap, sumR float64
	byPair, byStrat, byEmo, byDay, byTf := newGrouper(), newGrouper(), newGrouper(), newGrouper(), newGrouper()

	for _, t := range computed {
		switch {
		case t.NetPnL > 0:
			st.Wins++
			winSum += t.NetPnL
		case t.NetPnL < 0:
			st.Losses++
			lossSum += t.NetPnL
		}
		net += t.NetPnL
		gross += journal.Opt(t.GrossPnL)
		spread += t.Spread
		swap += t.Swap.Float()
		sumR += t.RMultiple

		byPair.add(t.Pair, t)
		byStrat.add(t.Strategy, t)
		byEmo.add(t.Emotion, t)
		byDay.add(t.Weekday, t)
		byTf.add(t.Timeframe, t)
	}

	st.Total = len(computed)
	st.WinRate = round1(float64(st.Wins) / float64(st.Total) * 100)
	st.TotalNet = round2(net)
	st.TotalGross = round2(gross)
	st.TotalSpread = round2(spread)
	st.TotalSwap = round2(swap)

	avgWin := ratio(winSum, float64(st.Wins))
	avgLoss := ratio(lossSum, float64(st.Losses))
	st.AvgWin = round2(avgWin)
	st.AvgLoss = round2(avgLoss)
	st.ProfitFactor = round2(math.Abs(ratio(avgWin, avgLoss)))
	st.AvgR = round2(sumR / float64(st.Total))

	st.ByPair = byPnLDesc(byPair.buckets())
	st.ByStrategy = byPnLDesc(byStrat.buckets())
	st.ByEmotion = nonEmpty(byEmo.buckets())
	st.ByWeekday = byDay.buckets()
	st.ByTimeframe = nonEmpty(byTf.buckets())

	st.Equity = equityCurve(computed)
	st.Trades = computed
	return &st, nil
}

func byPnLDesc(b []Bucket) []Bucket {
	sort.SliceStable(b, func(i, j int) bool { return b[i].PnL > b[j].PnL })
	return b
}

func nonEmpty(b []Bucket) []Bucket {
	out := b[:0]
	for _, x := range b {
		if x.Count > 0 {
			out = append(out, x)
		}
	}
	return out
}
