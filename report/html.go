package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rustyeddy/tradejournal/metrics"
)

const (
	colorEquity = "#3b82f6"
	colorBar    = "#34d399"
	chartWidth  = "1000px"
	chartHeight = "420px"
)

// WriteHTML renders a standalone page with the equity curve and the
// pair, strategy and weekday breakdowns.
func WriteHTML(w io.Writer, title string, st *metrics.PortfolioStats) error {
	if st.Empty() {
		return fmt.Errorf("no trades to chart")
	}
	if title == "" {
		title = "Trading journal"
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		equityChart(title, st.Equity),
		bucketChart("Net P&L by pair", st.ByPair),
		bucketChart("Net P&L by strategy", st.ByStrategy),
		bucketChart("Net P&L by weekday", st.ByWeekday),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func initOpts() opts.Initialization {
	return opts.Initialization{Width: chartWidth, Height: chartHeight}
}

func equityChart(title string, points []metrics.EquityPoint) *charts.Line {
	x := make([]string, 0, len(points))
	y := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		x = append(x, fmt.Sprintf("%d %s", p.Index, p.Date))
		y = append(y, opts.LineData{Value: p.PnL})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "Cumulative net P&L"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	line.SetXAxis(x).AddSeries("Equity", y,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorEquity}),
	)
	return line
}

func bucketChart(title string, buckets []metrics.Bucket) *charts.Bar {
	x := make([]string, 0, len(buckets))
	y := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		x = append(x, label(b.Name))
		y = append(y, opts.BarData{Value: b.PnL})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("Net P&L", y,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBar}),
	)
	return bar
}
