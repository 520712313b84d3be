package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/report"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Manage per-lot spread costs",
	Long: `Manage the spread cost charged per lot for each instrument.

The config file supplies the base table; costs set here are stored in the
journal for the current owner and take precedence. Instruments missing
from both fall back to the default cost.

Examples:
  tradejournal pairs list
  tradejournal pairs set XAU/USD 15
  tradejournal pairs rm XAU/USD`,
}

var pairsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective cost table",
	Args:  cobra.NoArgs,
	RunE:  runPairsList,
}

var pairsSetCmd = &cobra.Command{
	Use:   "set <name> <cost>",
	Short: "Set the owner's cost for an instrument",
	Args:  cobra.ExactArgs(2),
	RunE:  runPairsSet,
}

var pairsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove the owner's cost for an instrument",
	Args:  cobra.ExactArgs(1),
	RunE:  runPairsRm,
}

var pairsOrder int

func init() {
	rootCmd.AddCommand(pairsCmd)
	pairsCmd.AddCommand(pairsListCmd, pairsSetCmd, pairsRmCmd)
	pairsSetCmd.Flags().IntVar(&pairsOrder, "order", 0, "sort position in the pair list")
}

func runPairsList(cmd *cobra.Command, args []string) error {
	over, err := app.store.CostOverrides(cmd.Context(), app.cfg.Owner)
	if err != nil {
		return err
	}
	costs := app.cfg.CostTable(over)

	var rows [][]string
	for _, name := range costs.Names() {
		source := "config"
		if _, ok := over[name]; ok {
			source = "journal"
		}
		rows = append(rows, []string{name, strconv.FormatFloat(costs[name], 'f', -1, 64), source})
	}
	rows = append(rows, []string{"(other)", strconv.FormatFloat(metrics.DefaultSpreadCost, 'f', -1, 64), "default"})
	return report.WriteTable(cmd.OutOrStdout(), []string{"Instrument", "Cost/lot", "Source"}, rows)
}

func runPairsSet(cmd *cobra.Command, args []string) error {
	cost, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("cost %q: %w", args[1], err)
	}
	in, err := app.store.SetInstrument(cmd.Context(), journal.Instrument{
		Owner:      app.cfg.Owner,
		Name:       args[0],
		SpreadCost: cost,
		SortOrder:  pairsOrder,
	})
	if err != nil {
		return err
	}
	app.log.WithField("instrument", in.Name).Infof("spread cost set to %v", in.SpreadCost)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s costs %v per lot\n", in.Name, in.SpreadCost)
	return nil
}

func runPairsRm(cmd *cobra.Command, args []string) error {
	if err := app.store.DeleteInstrument(cmd.Context(), app.cfg.Owner, args[0]); err != nil {
		return err
	}
	app.log.WithField("instrument", args[0]).Info("spread cost removed")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", args[0])
	return nil
}
