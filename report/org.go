package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/metrics"
)

// OrgSummary is the data behind an Org-mode review entry.
type OrgSummary struct {
	Title   string
	Owner   string
	From    string
	To      string
	Created time.Time

	Stats *metrics.PortfolioStats
	// Poor lists trades graded at or below the configured poor score.
	Poor []metrics.ComputedTrade
}

type bucketSection struct {
	Title string
	Rows  []metrics.Bucket
}

var orgFuncs = template.FuncMap{
	"section": func(title string, rows []metrics.Bucket) bucketSection {
		return bucketSection{Title: title, Rows: rows}
	},
	"money": money,
	"pct":   pct,
	"label": label,
	"short": shortID,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}

var orgTmpl = template.Must(template.New("review").Funcs(orgFuncs).Parse(orgTemplate + bucketTemplate))

// WriteOrg renders s as an Org-mode heading with a PROPERTIES drawer and
// one table per breakdown.
func WriteOrg(w io.Writer, s OrgSummary) error {
	if s.Title == "" {
		s.Title = "Trading review"
	}
	if err := orgTmpl.Execute(w, s); err != nil {
		return fmt.Errorf("render org summary: %w", err)
	}
	return nil
}

const orgTemplate = `* REVIEW: {{.Title}}
:PROPERTIES:
:OWNER:       {{orDash .Owner}}
:FROM:        {{orDash .From}}
:TO:          {{orDash .To}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
{{- if not .Stats.Empty}}
:TRADES:      {{.Stats.Total}}
:WINS:        {{.Stats.Wins}}
:LOSSES:      {{.Stats.Losses}}
:WIN_RATE:    {{pct .Stats.WinRate}}
:NET_PL:      {{money .Stats.TotalNet}}
:PROFIT_FAC:  {{money .Stats.ProfitFactor}}
:AVG_R:       {{money .Stats.AvgR}}
{{- end}}
:END:
{{if .Stats.Empty}}
No trades in range.
{{- else}}
** Performance Summary
- Net P/L:       *{{money .Stats.TotalNet}}*
- Gross P/L:     {{money .Stats.TotalGross}}
- Spread cost:   {{money .Stats.TotalSpread}}
- Swap:          {{money .Stats.TotalSwap}}
- Avg win:       {{money .Stats.AvgWin}}
- Avg loss:      {{money .Stats.AvgLoss}}
{{template "buckets" (section "By Pair" .Stats.ByPair)}}
{{- template "buckets" (section "By Strategy" .Stats.ByStrategy)}}
{{- template "buckets" (section "By Weekday" .Stats.ByWeekday)}}
{{- template "buckets" (section "By Timeframe" .Stats.ByTimeframe)}}
{{- template "buckets" (section "By Emotion" .Stats.ByEmotion)}}

** Equity Curve
| # | Date | Equity |
|---+------+--------|
{{- range .Stats.Equity}}
| {{.Index}} | {{.Date}} | {{money .PnL}} |
{{- end}}
{{- if .Poor}}

** Poor Execution
{{- range .Poor}}
- [ ] {{.Date}} {{.Pair}} {{.Direction}} ({{short .ID}}) score {{.Score}}, net {{money .NetPnL}}
{{- end}}
{{- end}}
{{- end}}
`

const bucketTemplate = `{{define "buckets"}}{{if .Rows}}
** {{.Title}}
| Name | Trades | Win rate | Net P/L | Avg R |
|------+--------+----------+---------+-------|
{{- range .Rows}}
| {{label .Name}} | {{.Count}} | {{pct .WinRate}} | {{money .PnL}} | {{money .AvgR}} |
{{- end}}
{{end}}{{end}}`
