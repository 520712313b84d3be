// Package report renders computed journal metrics for people: terminal
// tables, Org-mode summaries, CSV and an HTML chart page.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginTop(1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	gainStyle = cellStyle.Foreground(lipgloss.Color("#10B981"))
	lossStyle = cellStyle.Foreground(lipgloss.Color("#EF4444"))

	emptyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)
)

func money(x float64) string { return strconv.FormatFloat(x, 'f', 2, 64) }
func pct(x float64) string   { return strconv.FormatFloat(x, 'f', 1, 64) + "%" }
func pips(x float64) string  { return strconv.FormatFloat(x, 'f', 5, 64) }

// newTable returns a bordered table; pnlCol, when >= 0, colours that
// column by sign.
func newTable(headers []string, rows [][]string, pnlCol int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == pnlCol && row >= 0 && row < len(rows) {
				v, err := strconv.ParseFloat(rows[row][col], 64)
				switch {
				case err != nil:
				case v > 0:
					return gainStyle
				case v < 0:
					return lossStyle
				}
			}
			return cellStyle
		})
}

// WriteSummary prints the scalar figures and every breakdown of st.
func WriteSummary(w io.Writer, st *metrics.PortfolioStats) error {
	if st.Empty() {
		_, err := fmt.Fprintln(w, emptyStyle.Render("no trades"))
		return err
	}

	summary := [][]string{
		{"Trades", strconv.Itoa(st.Total)},
		{"Wins / Losses", fmt.Sprintf("%d / %d", st.Wins, st.Losses)},
		{"Win rate", pct(st.WinRate)},
		{"Net P&L", money(st.TotalNet)},
		{"Gross P&L", money(st.TotalGross)},
		{"Spread cost", money(st.TotalSpread)},
		{"Swap", money(st.TotalSwap)},
		{"Avg win", money(st.AvgWin)},
		{"Avg loss", money(st.AvgLoss)},
		{"Profit factor", money(st.ProfitFactor)},
		{"Avg R", money(st.AvgR)},
	}
	if _, err := fmt.Fprintln(w, titleStyle.Render("Summary")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, newTable([]string{"Metric", "Value"}, summary, -1)); err != nil {
		return err
	}

	sections := []struct {
		title   string
		buckets []metrics.Bucket
	}{
		{"By pair", st.ByPair},
		{"By strategy", st.ByStrategy},
		{"By weekday", st.ByWeekday},
		{"By timeframe", st.ByTimeframe},
		{"By emotion", st.ByEmotion},
	}
	for _, s := range sections {
		if len(s.buckets) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, titleStyle.Render(s.title)); err != nil {
			return err
		}
		if err := WriteBuckets(w, s.buckets); err != nil {
			return err
		}
	}
	return nil
}

// WriteBuckets prints one breakdown.
func WriteBuckets(w io.Writer, buckets []metrics.Bucket) error {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{
			label(b.Name),
			strconv.Itoa(b.Count),
			pct(b.WinRate),
			money(b.PnL),
			money(b.AvgR),
		})
	}
	_, err := fmt.Fprintln(w, newTable([]string{"Name", "Trades", "Win rate", "Net P&L", "Avg R"}, rows, 3))
	return err
}

// WriteTrades prints one row per computed trade.
func WriteTrades(w io.Writer, trades []metrics.ComputedTrade) error {
	if len(trades) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render("no trades"))
		return err
	}
	rows := make([][]string, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []string{
			shortID(t.ID),
			t.Date,
			t.Pair,
			string(t.Direction),
			t.Strategy,
			string(t.Status),
			money(t.RMultiple),
			money(t.NetPnL),
		})
	}
	_, err := fmt.Fprintln(w, newTable([]string{"ID", "Date", "Pair", "Dir", "Strategy", "Status", "R", "Net"}, rows, 7))
	return err
}

// WriteOpenTrades lists open positions without outcome columns.
func WriteOpenTrades(w io.Writer, trades []journal.TradeRecord) error {
	if len(trades) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render("no open positions"))
		return err
	}
	rows := make([][]string, 0, len(trades))
	for _, t := range trades {
		target := "-"
		if t.Target != nil {
			target = pips(t.Target.Float())
		}
		rows = append(rows, []string{
			shortID(t.ID),
			t.Date,
			t.Pair,
			string(t.Direction),
			money(t.Lots.Float()),
			pips(t.Entry.Float()),
			pips(t.Stop.Float()),
			target,
		})
	}
	_, err := fmt.Fprintln(w, newTable([]string{"ID", "Date", "Pair", "Dir", "Lots", "Entry", "Stop", "Target"}, rows, -1))
	return err
}

func label(name string) string {
	if name == "" {
		return "(none)"
	}
	return name
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// WriteTable prints an arbitrary bordered table.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render("nothing to show"))
		return err
	}
	_, err := fmt.Fprintln(w, newTable(headers, rows, -1))
	return err
}
