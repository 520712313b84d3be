package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for pasting into a journal.
// Structured facts go in a PROPERTIES drawer; the free-text notes become the
// Review section.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s %s %s (%s)", t.Date, t.Pair, t.Direction, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Date))
	b.WriteString(fmt.Sprintf(":PAIR: %s\n", t.Pair))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":STRATEGY: %s\n", t.Strategy))
	b.WriteString(fmt.Sprintf(":TIMEFRAME: %s\n", t.Timeframe))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", t.Status))
	b.WriteString(fmt.Sprintf(":LOTS: %.2f\n", t.Lots))
	b.WriteString(fmt.Sprintf(":ENTRY: %.5f\n", t.Entry))
	b.WriteString(fmt.Sprintf(":STOP: %.5f\n", t.Stop))
	if t.Target != nil {
		b.WriteString(fmt.Sprintf(":TARGET: %.5f\n", *t.Target))
	}
	if t.ExitPrice != nil {
		b.WriteString(fmt.Sprintf(":EXIT: %.5f\n", *t.ExitPrice))
	}
	if t.GrossPnL != nil {
		b.WriteString(fmt.Sprintf(":GROSS_PNL: %.2f\n", *t.GrossPnL))
	}
	b.WriteString(fmt.Sprintf(":SWAP: %.2f\n", t.Swap))
	if t.Score != "" {
		b.WriteString(fmt.Sprintf(":SCORE: %s\n", t.Score))
	}
	if t.Emotion != "" {
		b.WriteString(fmt.Sprintf(":EMOTION: %s\n", t.Emotion))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Review\n")
	if t.Notes != "" {
		b.WriteString(t.Notes)
		b.WriteString("\n")
	} else {
		b.WriteString("- \n")
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
