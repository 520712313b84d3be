package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show portfolio statistics",
	Long: `Compute win rate, profit factor, average R, totals and the
per-pair, strategy, weekday, timeframe and emotion breakdowns for the
selected trades.

Examples:
  tradejournal stats
  tradejournal stats --from 2024-01-01 --status closed
  tradejournal stats --json
  tradejournal stats --file backup.json --from 2024-03-01`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsRange rangeFlags
	statsJSON  bool
	statsFile  string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsRange.bind(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the statistics as JSON")
	statsCmd.Flags().StringVarP(&statsFile, "file", "f", "", "read trades from a JSON export instead of the journal (\"-\" for stdin)")
}

func runStats(cmd *cobra.Command, args []string) error {
	var st *metrics.PortfolioStats
	var err error
	if statsFile != "" {
		st, err = bundleStats(cmd, statsFile, statsRange)
	} else {
		_, st, err = computedTrades(cmd.Context(), statsRange)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		if st.Empty() {
			st = &metrics.PortfolioStats{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	if err := report.WriteSummary(out, st); err != nil {
		return err
	}
	if st.Empty() {
		return nil
	}
	if poor := metrics.PoorExecution(st.Trades, app.cfg.Report.PoorScore); len(poor) > 0 {
		fmt.Fprintf(out, "\nPoor execution (score %s or worse):\n", app.cfg.Report.PoorScore)
		return report.WriteTrades(out, poor)
	}
	return nil
}

// bundleStats computes statistics over the trades of an export document,
// applying the range flags in memory.
func bundleStats(cmd *cobra.Command, path string, r rangeFlags) (*metrics.PortfolioStats, error) {
	f, err := r.filter()
	if err != nil {
		return nil, err
	}
	in, closeIn, err := input(cmd, path)
	if err != nil {
		return nil, err
	}
	defer closeIn()

	b, err := journal.ReadBundle(in)
	if err != nil {
		return nil, err
	}
	recs := metrics.FilterStatus(metrics.FilterDateRange(b.Trades, f.From, f.To), f.Status)

	calc, err := calculator(cmd.Context())
	if err != nil {
		return nil, err
	}
	return calc.Stats(recs)
}
