package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"long", Long, false},
		{"LONG", Long, false},
		{"buy", Long, false},
		{"b", Long, false},
		{"short", Short, false},
		{" Sell ", Short, false},
		{"s", Short, false},
		{"多", Long, false},
		{"多单", Long, false},
		{"空", Short, false},
		{"", "", true},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Status{"": Closed, "closed": Closed, "OPEN": Open} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("pending")
	assert.Error(t, err)
}

func TestIsClosed(t *testing.T) {
	t.Parallel()

	assert.True(t, TradeRecord{Status: Closed}.IsClosed())
	assert.True(t, TradeRecord{}.IsClosed(), "empty status counts as closed")
	assert.False(t, TradeRecord{Status: Open}.IsClosed())
}

func TestTradeRecordValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *TradeRecord)
		wantErr string
	}{
		{"valid closed", func(r *TradeRecord) {}, ""},
		{"valid open", func(r *TradeRecord) { *r = openTrade("a", "2024-01-02", "EUR/USD") }, ""},
		{"empty status treated as closed", func(r *TradeRecord) { r.Status = "" }, ""},
		{"missing date", func(r *TradeRecord) { r.Date = "" }, "date is required"},
		{"bad date", func(r *TradeRecord) { r.Date = "2024-02-30" }, "must be YYYY-MM-DD"},
		{"missing pair", func(r *TradeRecord) { r.Pair = "" }, "pair is required"},
		{"bad direction", func(r *TradeRecord) { r.Direction = "up" }, "direction must be"},
		{"missing strategy", func(r *TradeRecord) { r.Strategy = "" }, "strategy is required"},
		{"missing timeframe", func(r *TradeRecord) { r.Timeframe = "" }, "timeframe is required"},
		{"closed without exit", func(r *TradeRecord) { r.ExitPrice = nil }, "requires exit_price"},
		{"closed without gross", func(r *TradeRecord) { r.GrossPnL = nil }, "requires gross_pnl"},
		{"unknown status", func(r *TradeRecord) { r.Status = "pending" }, "unknown status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := closedTrade("a", "2024-01-02", "EUR/USD")
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDirectionIsLong(t *testing.T) {
	t.Parallel()

	for _, d := range []Direction{Long, "buy", "Long", "B", "多(Buy)"} {
		assert.True(t, d.IsLong(), d)
	}
	for _, d := range []Direction{Short, "sell", "空", "", "flat"} {
		assert.False(t, d.IsLong(), d)
	}
}
