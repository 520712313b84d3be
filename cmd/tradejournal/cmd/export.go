package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades and notes as JSON",
	Long: `Write the owner's trades in the date range, together with all
weekly and monthly notes, as one JSON document.

Examples:
  tradejournal export -o backup.json
  tradejournal export --from 2024-01-01 --to 2024-06-30 -o h1.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON export",
	Long: `Add every trade and note from an export document as new records
owned by the current owner. Nothing is written unless the whole document
imports cleanly. Use "-" to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	exportFrom string
	exportTo   string
	exportOut  string
)

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first trade date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last trade date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	b, err := app.store.Export(cmd.Context(), app.cfg.Owner, journal.TradeFilter{From: exportFrom, To: exportTo})
	if err != nil {
		return err
	}

	w, closeOut, err := output(cmd, exportOut)
	if err != nil {
		return err
	}
	if err := journal.WriteBundle(w, b); err != nil {
		closeOut()
		return fmt.Errorf("write export: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}
	done(cmd, exportOut, "Exported %d trades, %d weekly and %d monthly notes",
		len(b.Trades), len(b.WeeklyNotes), len(b.MonthlyNotes))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	r, closeIn, err := input(cmd, args[0])
	if err != nil {
		return err
	}
	defer closeIn()

	b, err := journal.ReadBundle(r)
	if err != nil {
		return err
	}
	res, err := app.store.Import(cmd.Context(), app.cfg.Owner, b)
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades, %d weekly and %d monthly notes\n",
		res.Trades, res.WeeklyNotes, res.MonthlyNotes)
	return nil
}
