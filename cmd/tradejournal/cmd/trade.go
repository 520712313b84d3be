package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/report"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Log, close and query trades",
	Long: `Manage the trades in the journal.

Subcommands:
  add         - Log a new trade (use -i to be prompted)
  close       - Close an open trade
  edit        - Change fields of a trade
  rm          - Delete a trade
  show        - Show one trade with its metrics and violations
  list        - List trades with R-multiple and net P&L
  open        - List open positions
  import-csv  - Add trades from a CSV file
  export-csv  - Write trades to a CSV file

Examples:
  tradejournal trade add --pair EUR/USD --dir long --strategy trend --tf H1 \
      --lots 0.5 --entry 1.0325 --stop 1.0295 --exit 1.0372 --gross 235
  tradejournal trade close 01HX... --exit 1.0372 --gross 235
  tradejournal trade list --from 2024-03-01 --to 2024-03-31`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Close an open trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeClose,
}

var tradeEditCmd = &cobra.Command{
	Use:   "edit <trade-id>",
	Short: "Change fields of a trade",
	Long: `Change fields of a trade. Only the flags given on the command line
are applied; everything else keeps its stored value.`,
	Args: cobra.ExactArgs(1),
	RunE: runTradeEdit,
}

var tradeRmCmd = &cobra.Command{
	Use:   "rm <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeRm,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show one trade as an Org-mode entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "List open positions",
	Args:  cobra.NoArgs,
	RunE:  runTradeOpen,
}

var tradeImportCmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Add trades from a CSV file",
	Long: `Add trades from a CSV file with a header row. Columns are matched by
name: date, pair and direction are required; id is ignored. Rows the
journal rejects are logged and skipped. Use "-" to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTradeImport,
}

var tradeExportCmd = &cobra.Command{
	Use:   "export-csv",
	Short: "Write trades to a CSV file",
	Args:  cobra.NoArgs,
	RunE:  runTradeExport,
}

var (
	tradeAddFlags    tradeFlags
	tradeEditFlags   tradeFlags
	tradeInteractive bool

	closeExit       string
	closeGross      string
	closeSwap       string
	closeViolations []string

	tradeListRange   rangeFlags
	tradeListOrg     bool
	tradeExportRange rangeFlags
	tradeExportOut   string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd, tradeCloseCmd, tradeEditCmd, tradeRmCmd, tradeShowCmd,
		tradeListCmd, tradeOpenCmd, tradeImportCmd, tradeExportCmd)

	tradeAddFlags.bind(tradeAddCmd)
	tradeAddCmd.Flags().BoolVarP(&tradeInteractive, "interactive", "i", false, "prompt for every field")
	tradeEditFlags.bind(tradeEditCmd)

	tradeCloseCmd.Flags().StringVar(&closeExit, "exit", "", "exit price (required)")
	tradeCloseCmd.Flags().StringVar(&closeGross, "gross", "", "gross P&L in account currency (required)")
	tradeCloseCmd.Flags().StringVar(&closeSwap, "swap", "", "swap/rollover, replaces the stored value when given")
	tradeCloseCmd.Flags().StringSliceVar(&closeViolations, "violations", nil, "ids of policies this trade broke")
	tradeCloseCmd.MarkFlagRequired("exit")
	tradeCloseCmd.MarkFlagRequired("gross")

	tradeListRange.bind(tradeListCmd)
	tradeListCmd.Flags().BoolVar(&tradeListOrg, "org", false, "print the trades as Org-mode entries")
	tradeExportRange.bind(tradeExportCmd)
	tradeExportCmd.Flags().StringVarP(&tradeExportOut, "out", "o", "", "output file (default stdout)")
}

// tradeFlags binds one flag per editable TradeRecord field. Numbers are
// taken as text and parsed leniently like every other input path.
type tradeFlags struct {
	date, pair, direction, strategy, timeframe string
	lots, entry, stop, target, exit, gross     string
	swap, score, emotion, notes, status        string
	violations                                 []string
}

func (t *tradeFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&t.date, "date", "", "trade date YYYY-MM-DD (default today)")
	fs.StringVar(&t.pair, "pair", "", "instrument, e.g. EUR/USD")
	fs.StringVar(&t.direction, "dir", "", "long or short")
	fs.StringVar(&t.strategy, "strategy", "", "strategy tag")
	fs.StringVar(&t.timeframe, "tf", "", "timeframe tag, e.g. H1")
	fs.StringVar(&t.lots, "lots", "", "position size in lots")
	fs.StringVar(&t.entry, "entry", "", "entry price")
	fs.StringVar(&t.stop, "stop", "", "stop-loss price")
	fs.StringVar(&t.target, "target", "", "take-profit price")
	fs.StringVar(&t.exit, "exit", "", "exit price")
	fs.StringVar(&t.gross, "gross", "", "gross P&L in account currency")
	fs.StringVar(&t.swap, "swap", "", "swap/rollover")
	fs.StringVar(&t.score, "score", "", "execution grade, e.g. B")
	fs.StringVar(&t.emotion, "emotion", "", "emotional state tag")
	fs.StringVar(&t.notes, "notes", "", "free-text review")
	fs.StringVar(&t.status, "status", "", "open or closed (default closed)")
	fs.StringSliceVar(&t.violations, "violations", nil, "ids of policies this trade broke")
}

// apply copies flag values onto rec. With all set every field is copied,
// otherwise only the flags changed on the command line.
func (t *tradeFlags) apply(cmd *cobra.Command, rec *journal.TradeRecord, all bool) error {
	set := func(name string) bool { return all || cmd.Flags().Changed(name) }
	optional := func(s string) *journal.Number {
		if s == "" {
			return nil
		}
		return journal.ParseNumber(s).Ptr()
	}

	if set("date") {
		rec.Date = t.date
	}
	if set("pair") {
		rec.Pair = t.pair
	}
	if set("dir") {
		d, err := journal.ParseDirection(t.direction)
		if err != nil {
			return err
		}
		rec.Direction = d
	}
	if set("strategy") {
		rec.Strategy = t.strategy
	}
	if set("tf") {
		rec.Timeframe = t.timeframe
	}
	if set("lots") {
		rec.Lots = journal.ParseNumber(t.lots)
	}
	if set("entry") {
		rec.Entry = journal.ParseNumber(t.entry)
	}
	if set("stop") {
		rec.Stop = journal.ParseNumber(t.stop)
	}
	if set("target") {
		rec.Target = optional(t.target)
	}
	if set("exit") {
		rec.ExitPrice = optional(t.exit)
	}
	if set("gross") {
		rec.GrossPnL = optional(t.gross)
	}
	if set("swap") {
		rec.Swap = journal.ParseNumber(t.swap)
	}
	if set("score") {
		rec.Score = t.score
	}
	if set("emotion") {
		rec.Emotion = t.emotion
	}
	if set("notes") {
		rec.Notes = t.notes
	}
	if set("status") {
		st, err := journal.ParseStatus(t.status)
		if err != nil {
			return err
		}
		rec.Status = st
	}
	return nil
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rec := journal.TradeRecord{Owner: app.cfg.Owner}

	if tradeInteractive {
		if err := promptTrade(&rec); err != nil {
			return err
		}
	} else if err := tradeAddFlags.apply(cmd, &rec, true); err != nil {
		return err
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format(journal.DateLayout)
	}

	saved, err := app.store.AddTrade(ctx, rec)
	if err != nil {
		return err
	}
	if len(tradeAddFlags.violations) > 0 {
		if _, err := app.store.SetViolations(ctx, app.cfg.Owner, saved.ID, tradeAddFlags.violations); err != nil {
			return fmt.Errorf("trade %s saved but violations were not: %w", saved.ID, err)
		}
	}

	app.log.WithFields(logrus.Fields{"trade": saved.ID, "pair": saved.Pair, "status": saved.Status}).Info("trade added")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added trade %s\n", saved.ID)
	return printMetrics(cmd, saved)
}

func runTradeClose(cmd *cobra.Command, args []string) error {
	req := journal.CloseRequest{
		ExitPrice: journal.ParseNumber(closeExit),
		GrossPnL:  journal.ParseNumber(closeGross),
		PolicyIDs: closeViolations,
	}
	if cmd.Flags().Changed("swap") {
		req.Swap = journal.ParseNumber(closeSwap).Ptr()
	}

	rec, err := app.store.CloseTrade(cmd.Context(), app.cfg.Owner, args[0], req)
	if err != nil {
		return err
	}

	app.log.WithFields(logrus.Fields{"trade": rec.ID, "violations": len(req.PolicyIDs)}).Info("trade closed")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Closed trade %s\n", rec.ID)
	return printMetrics(cmd, rec)
}

func runTradeEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rec, err := app.store.GetTrade(ctx, app.cfg.Owner, args[0])
	if err != nil {
		return err
	}
	if err := tradeEditFlags.apply(cmd, &rec, false); err != nil {
		return err
	}

	saved, err := app.store.UpdateTrade(ctx, rec)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("violations") {
		if _, err := app.store.SetViolations(ctx, app.cfg.Owner, saved.ID, tradeEditFlags.violations); err != nil {
			return err
		}
	}

	app.log.WithField("trade", saved.ID).Info("trade updated")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated trade %s\n", saved.ID)
	return printMetrics(cmd, saved)
}

func runTradeRm(cmd *cobra.Command, args []string) error {
	if err := app.store.DeleteTrade(cmd.Context(), app.cfg.Owner, args[0]); err != nil {
		return err
	}
	app.log.WithField("trade", args[0]).Info("trade deleted")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted trade %s\n", args[0])
	return nil
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rec, err := app.store.GetTrade(ctx, app.cfg.Owner, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, journal.FormatTradeOrg(rec))
	if err := printMetrics(cmd, rec); err != nil {
		return err
	}

	vs, err := app.store.ListViolations(ctx, app.cfg.Owner, rec.ID)
	if err != nil {
		return fmt.Errorf("query violations: %w", err)
	}
	if len(vs) > 0 {
		fmt.Fprintln(out, "Violations:")
		for _, v := range vs {
			fmt.Fprintf(out, "  - [%s] %s (%s)\n", v.Category, v.Title, v.PolicyID)
		}
	}
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	recs, st, err := computedTrades(cmd.Context(), tradeListRange)
	if err != nil {
		return err
	}
	if tradeListOrg {
		_, err := fmt.Fprint(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
		return err
	}
	var trades []metrics.ComputedTrade
	if !st.Empty() {
		trades = st.Trades
	}
	return report.WriteTrades(cmd.OutOrStdout(), trades)
}

func runTradeOpen(cmd *cobra.Command, args []string) error {
	recs, err := app.store.ListTrades(cmd.Context(), app.cfg.Owner, journal.TradeFilter{Status: journal.Open})
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	return report.WriteOpenTrades(cmd.OutOrStdout(), recs)
}

func runTradeImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	r, closeIn, err := input(cmd, args[0])
	if err != nil {
		return err
	}
	defer closeIn()

	recs, err := journal.ReadTradesCSV(r)
	if err != nil {
		return err
	}

	added, skipped := 0, 0
	for i, rec := range recs {
		rec.Owner = app.cfg.Owner
		if _, err := app.store.AddTrade(ctx, rec); err != nil {
			skipped++
			app.log.WithFields(logrus.Fields{"row": i + 1, "date": rec.Date, "pair": rec.Pair}).WithError(err).Warn("skipping trade")
			continue
		}
		added++
	}

	app.log.WithFields(logrus.Fields{"file": args[0], "added": added, "skipped": skipped}).Info("csv import complete")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades (%d skipped)\n", added, skipped)
	return nil
}

func runTradeExport(cmd *cobra.Command, args []string) error {
	f, err := tradeExportRange.filter()
	if err != nil {
		return err
	}
	recs, err := app.store.ListTrades(cmd.Context(), app.cfg.Owner, f)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	w, closeOut, err := output(cmd, tradeExportOut)
	if err != nil {
		return err
	}
	if err := journal.WriteTradesCSV(w, recs); err != nil {
		closeOut()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}
	done(cmd, tradeExportOut, "Exported %d trades", len(recs))
	return nil
}

// printMetrics shows the derived figures for one trade.
func printMetrics(cmd *cobra.Command, rec journal.TradeRecord) error {
	calc, err := calculator(cmd.Context())
	if err != nil {
		return err
	}
	ct, err := calc.Trade(rec)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s %s %s on %s\n", ct.Pair, ct.Direction, ct.Status, ct.Weekday)
	if !ct.IsClosed() {
		fmt.Fprintf(out, "  stop distance %s\n", strconv.FormatFloat(ct.StopPips, 'f', 5, 64))
		if rr := metrics.PlannedRR(rec); rr > 0 {
			fmt.Fprintf(out, "  planned R:R %.2f\n", rr)
		}
		return nil
	}
	fmt.Fprintf(out, "  stop %s  move %s  R %s\n",
		strconv.FormatFloat(ct.StopPips, 'f', 5, 64),
		strconv.FormatFloat(ct.PnLPips, 'f', 5, 64),
		strconv.FormatFloat(ct.RMultiple, 'f', 2, 64))
	fmt.Fprintf(out, "  spread %.2f  swap %.2f  net %.2f\n", ct.Spread, ct.Swap.Float(), ct.NetPnL)
	return nil
}
