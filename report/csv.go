package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rustyeddy/tradejournal/metrics"
)

var computedHeader = []string{
	"id", "date", "weekday", "pair", "direction", "strategy", "timeframe",
	"lots", "entry", "stop", "exit_price", "stop_pips", "pnl_pips", "r_multiple",
	"gross_pnl", "spread", "swap", "net_pnl", "score", "emotion", "status",
}

// WriteComputedCSV writes trades together with their derived metrics.
func WriteComputedCSV(w io.Writer, trades []metrics.ComputedTrade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(computedHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range trades {
		exit := ""
		if t.ExitPrice != nil {
			exit = pips(t.ExitPrice.Float())
		}
		gross := ""
		if t.GrossPnL != nil {
			gross = money(t.GrossPnL.Float())
		}
		row := []string{
			t.ID, t.Date, t.Weekday, t.Pair, string(t.Direction), t.Strategy, t.Timeframe,
			money(t.Lots.Float()), pips(t.Entry.Float()), pips(t.Stop.Float()), exit,
			pips(t.StopPips), pips(t.PnLPips), money(t.RMultiple),
			gross, money(t.Spread), money(t.Swap.Float()), money(t.NetPnL),
			t.Score, t.Emotion, string(t.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
