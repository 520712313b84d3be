package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write performance reports",
	Long: `Write the statistics of the selected trades in a reviewable format.

Subcommands:
  org   - Org-mode review entry with breakdown tables
  csv   - Every trade with its derived metrics
  html  - Equity curve and breakdown charts

Examples:
  tradejournal report org --from 2024-03-01 --to 2024-03-31 -o march.org
  tradejournal report html -o equity.html`,
}

var reportOrgCmd = &cobra.Command{
	Use:   "org",
	Short: "Write an Org-mode review entry",
	Args:  cobra.NoArgs,
	RunE:  runReportOrg,
}

var reportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Write computed trades as CSV",
	Args:  cobra.NoArgs,
	RunE:  runReportCSV,
}

var reportHTMLCmd = &cobra.Command{
	Use:   "html",
	Short: "Write an HTML page of charts",
	Args:  cobra.NoArgs,
	RunE:  runReportHTML,
}

var (
	reportRange rangeFlags
	reportOut   string
	reportTitle string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportOrgCmd, reportCSVCmd, reportHTMLCmd)

	// Each subcommand gets its own copies bound to the same variables.
	for _, c := range []*cobra.Command{reportOrgCmd, reportCSVCmd, reportHTMLCmd} {
		reportRange.bind(c)
		c.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default stdout)")
	}
	reportOrgCmd.Flags().StringVar(&reportTitle, "title", "", "heading text")
	reportHTMLCmd.Flags().StringVar(&reportTitle, "title", "", "page title")
}

func runReportOrg(cmd *cobra.Command, args []string) error {
	_, st, err := computedTrades(cmd.Context(), reportRange)
	if err != nil {
		return err
	}
	summary := report.OrgSummary{
		Title:   reportTitle,
		Owner:   app.cfg.Owner,
		From:    reportRange.from,
		To:      reportRange.to,
		Created: time.Now(),
		Stats:   st,
	}
	if !st.Empty() {
		summary.Poor = metrics.PoorExecution(st.Trades, app.cfg.Report.PoorScore)
	}

	return writeReport(cmd, "org", func(w io.Writer) error { return report.WriteOrg(w, summary) })
}

func runReportCSV(cmd *cobra.Command, args []string) error {
	_, st, err := computedTrades(cmd.Context(), reportRange)
	if err != nil {
		return err
	}
	var trades []metrics.ComputedTrade
	if !st.Empty() {
		trades = st.Trades
	}
	return writeReport(cmd, "csv", func(w io.Writer) error { return report.WriteComputedCSV(w, trades) })
}

func runReportHTML(cmd *cobra.Command, args []string) error {
	_, st, err := computedTrades(cmd.Context(), reportRange)
	if err != nil {
		return err
	}
	if st.Empty() {
		return fmt.Errorf("no trades match the selection")
	}
	return writeReport(cmd, "html", func(w io.Writer) error { return report.WriteHTML(w, reportTitle, st) })
}

func writeReport(cmd *cobra.Command, kind string, render func(w io.Writer) error) error {
	w, closeOut, err := output(cmd, reportOut)
	if err != nil {
		return err
	}
	if err := render(w); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	app.log.WithField("out", reportOut).Debugf("%s report written", kind)
	done(cmd, reportOut, "Wrote %s report", kind)
	return nil
}
