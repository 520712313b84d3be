package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logging"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

// noStore marks commands that run without opening the journal database.
const noStore = "no-store"

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A personal FX and commodities trading journal",
	Long: `Tradejournal records discretionary trades and turns them into
performance metrics.

It provides tools for:
  - Logging, closing and editing trades
  - Per-trade risk metrics: stop distance, R-multiple, cost-adjusted net P&L
  - Portfolio statistics and breakdowns by pair, strategy, weekday,
    timeframe and emotion
  - Weekly and monthly review notes, trading policies and violations
  - Org-mode, CSV and HTML reports, JSON export and import`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

var (
	cfgFile  string
	dbPath   string
	owner    string
	logLevel string
)

// app holds what setup builds for the running command.
var app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store journal.Store
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the command tree with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON, default $TRADEJOURNAL_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "", "journal owner (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	// A previous command that failed never reached teardown.
	if err := teardown(); err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}
	if owner != "" {
		cfg.Owner = owner
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	app.cfg, app.log = cfg, log

	if skipsStore(cmd) {
		return nil
	}
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	j.SetLogger(log.WithField("owner", cfg.Owner))
	app.store = j

	log.WithFields(logrus.Fields{"db": cfg.Journal.DBPath, "owner": cfg.Owner}).Debug("journal opened")
	return nil
}

func teardown() error {
	if app.store == nil {
		return nil
	}
	err := app.store.Close()
	app.store = nil
	return err
}

func skipsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[noStore]; ok {
			return true
		}
	}
	return false
}

// calculator returns the metrics engine configured with the owner's
// stored cost overrides on top of the config table.
func calculator(ctx context.Context) (metrics.Calculator, error) {
	over, err := app.store.CostOverrides(ctx, app.cfg.Owner)
	if err != nil {
		return metrics.Calculator{}, fmt.Errorf("load cost overrides: %w", err)
	}
	return app.cfg.Calculator(over), nil
}

// rangeFlags is the --from/--to/--status trio shared by listing commands.
type rangeFlags struct {
	from, to, status string
}

func (r *rangeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "first trade date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&r.to, "to", "", "last trade date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&r.status, "status", "", "open or closed (default all)")
}

func (r rangeFlags) filter() (journal.TradeFilter, error) {
	f := journal.TradeFilter{From: r.from, To: r.to}
	if r.status != "" {
		st, err := journal.ParseStatus(r.status)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	return f, nil
}

// computedTrades loads the trades matching r and runs them through the
// metrics engine.
func computedTrades(ctx context.Context, r rangeFlags) ([]journal.TradeRecord, *metrics.PortfolioStats, error) {
	f, err := r.filter()
	if err != nil {
		return nil, nil, err
	}
	recs, err := app.store.ListTrades(ctx, app.cfg.Owner, f)
	if err != nil {
		return nil, nil, fmt.Errorf("query trades: %w", err)
	}
	calc, err := calculator(ctx)
	if err != nil {
		return nil, nil, err
	}
	st, err := calc.Stats(recs)
	if err != nil {
		return nil, nil, err
	}
	return recs, st, nil
}
