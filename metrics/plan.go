package metrics

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// PlannedRR is the reward to risk ratio a trade was opened with: the
// distance to target over the distance to stop. It is 0 when the trade has
// no target or no usable stop.
func PlannedRR(t journal.TradeRecord) float64 {
	if t.Target == nil || t.Stop <= 0 {
		return 0
	}
	risk := math.Abs(t.Entry.Float() - t.Stop.Float())
	if risk == 0 {
		return 0
	}
	reward := math.Abs(t.Target.Float() - t.Entry.Float())
	return round2(reward / risk)
}
