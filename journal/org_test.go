package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := closedTrade("alice", "2024-03-15", "EUR/USD")
	trade.ID = "01HXYZABCDEFGHJKMNPQRSTVWX"
	trade.Target = Number(1.04).Ptr()
	trade.Notes = "Followed the plan."

	result := FormatTradeOrg(trade)

	// Check heading
	assert.Contains(t, result, "** Trade: 2024-03-15 EUR/USD long (01HXYZAB)")

	// Check properties drawer
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HXYZABCDEFGHJKMNPQRSTVWX")
	assert.Contains(t, result, ":STRATEGY: trend")
	assert.Contains(t, result, ":TIMEFRAME: H1")
	assert.Contains(t, result, ":STATUS: closed")
	assert.Contains(t, result, ":LOTS: 0.50")
	assert.Contains(t, result, ":ENTRY: 1.03250")
	assert.Contains(t, result, ":STOP: 1.02950")
	assert.Contains(t, result, ":TARGET: 1.04000")
	assert.Contains(t, result, ":EXIT: 1.03720")
	assert.Contains(t, result, ":GROSS_PNL: 235.00")
	assert.Contains(t, result, ":SWAP: -2.50")
	assert.Contains(t, result, ":SCORE: A")
	assert.Contains(t, result, ":EMOTION: calm")
	assert.Contains(t, result, ":END:")

	// Check review section
	assert.Contains(t, result, "*** Review\nFollowed the plan.\n")
}

func TestFormatTradeOrgOpenTrade(t *testing.T) {
	t.Parallel()

	trade := openTrade("alice", "2024-05-01", "XAU/USD")
	trade.ID = "short"
	trade.Score, trade.Emotion = "", ""

	result := FormatTradeOrg(trade)

	assert.Contains(t, result, "(short)")
	assert.Contains(t, result, ":STATUS: open")
	assert.NotContains(t, result, ":EXIT:")
	assert.NotContains(t, result, ":GROSS_PNL:")
	assert.NotContains(t, result, ":SCORE:")
	assert.NotContains(t, result, ":EMOTION:")
	assert.Contains(t, result, "*** Review\n- \n")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	a := closedTrade("alice", "2024-03-15", "EUR/USD")
	a.ID = "A"
	b := closedTrade("alice", "2024-03-16", "GBP/USD")
	b.ID = "B"

	result := FormatTradesOrg([]TradeRecord{a, b})
	assert.Equal(t, 2, strings.Count(result, "** Trade:"))
	assert.Contains(t, result, "\n\n\n** Trade: 2024-03-16 GBP/USD")
	assert.Less(t, strings.Index(result, "EUR/USD"), strings.Index(result, "GBP/USD"))

	assert.Empty(t, FormatTradesOrg(nil))
}

func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"12345678", "12345678"},
		{"123456789", "12345678"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shortID(tt.in))
	}
}
