package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func closedTrade(owner, date, pair string) TradeRecord {
	return TradeRecord{
		Owner:     owner,
		Date:      date,
		Pair:      pair,
		Direction: Long,
		Strategy:  "trend",
		Timeframe: "H1",
		Lots:      0.5,
		Entry:     1.0325,
		Stop:      1.0295,
		ExitPrice: Number(1.0372).Ptr(),
		GrossPnL:  Number(235).Ptr(),
		Swap:      -2.5,
		Score:     "A",
		Emotion:   "calm",
		Status:    Closed,
	}
}

func openTrade(owner, date, pair string) TradeRecord {
	t := closedTrade(owner, date, pair)
	t.ExitPrice, t.GrossPnL, t.Swap = nil, nil, 0
	t.Target = Number(1.04).Ptr()
	t.Status = Open
	return t
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, name := range []string{"trades", "instruments", "notes", "policies", "trade_violations"} {
		assert.True(t, found[name], name)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	j, path := newTestSQLite(t)
	_, err := j.AddTrade(ctx, closedTrade("alice", "2024-03-15", "EUR/USD"))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	got, err := j2.ListTrades(ctx, "alice", TradeFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteAddTrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	in := closedTrade("alice", "2024-03-15", "EUR/USD")
	in.ID = "ignored"
	in.Notes = "clean breakout"

	saved, err := j.AddTrade(ctx, in)
	require.NoError(t, err)
	assert.Len(t, saved.ID, 26)
	assert.NotEqual(t, "ignored", saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := j.GetTrade(ctx, "alice", saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "2024-03-15", got.Date)
	assert.Equal(t, "EUR/USD", got.Pair)
	assert.Equal(t, Long, got.Direction)
	assert.Equal(t, Number(0.5), got.Lots)
	assert.Equal(t, Number(1.0325), got.Entry)
	assert.Equal(t, Number(1.0295), got.Stop)
	assert.Nil(t, got.Target)
	require.NotNil(t, got.ExitPrice)
	assert.Equal(t, Number(1.0372), *got.ExitPrice)
	require.NotNil(t, got.GrossPnL)
	assert.Equal(t, Number(235), *got.GrossPnL)
	assert.Equal(t, Number(-2.5), got.Swap)
	assert.Equal(t, "A", got.Score)
	assert.Equal(t, "calm", got.Emotion)
	assert.Equal(t, "clean breakout", got.Notes)
	assert.Equal(t, Closed, got.Status)
	assert.True(t, got.CreatedAt.Equal(saved.CreatedAt))
}

func TestSQLiteAddTradeDefaultsToClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	in := closedTrade("alice", "2024-03-15", "EUR/USD")
	in.Status = ""
	saved, err := j.AddTrade(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, Closed, saved.Status)
}

func TestSQLiteAddTradeValidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	bad := closedTrade("alice", "15/03/2024", "EUR/USD")
	_, err := j.AddTrade(ctx, bad)
	assert.Error(t, err)

	bad = closedTrade("alice", "2024-03-15", "EUR/USD")
	bad.GrossPnL = nil
	_, err = j.AddTrade(ctx, bad)
	assert.Error(t, err)

	got, err := j.ListTrades(ctx, "alice", TradeFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteUpdateTrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	saved, err := j.AddTrade(ctx, closedTrade("alice", "2024-03-15", "EUR/USD"))
	require.NoError(t, err)

	saved.GrossPnL = Number(300).Ptr()
	saved.Target = Number(1.04).Ptr()
	saved.Emotion = "greedy"
	updated, err := j.UpdateTrade(ctx, saved)
	require.NoError(t, err)

	assert.Equal(t, Number(300), *updated.GrossPnL)
	assert.Equal(t, Number(1.04), *updated.Target)
	assert.Equal(t, "greedy", updated.Emotion)
	assert.False(t, updated.UpdatedAt.Before(saved.UpdatedAt))

	saved.Owner = "mallory"
	_, err = j.UpdateTrade(ctx, saved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCloseTrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	open, err := j.AddTrade(ctx, openTrade("alice", "2024-05-01", "EUR/USD"))
	require.NoError(t, err)
	assert.Nil(t, open.ExitPrice)

	pol, err := j.AddPolicy(ctx, Policy{Owner: "alice", Category: "risk", Title: "1%", Content: "risk 1% max"})
	require.NoError(t, err)

	closed, err := j.CloseTrade(ctx, "alice", open.ID, CloseRequest{
		ExitPrice: 1.0372,
		GrossPnL:  235,
		Swap:      Number(-1).Ptr(),
		PolicyIDs: []string{pol.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, Closed, closed.Status)
	assert.Equal(t, Number(1.0372), *closed.ExitPrice)
	assert.Equal(t, Number(235), *closed.GrossPnL)
	assert.Equal(t, Number(-1), closed.Swap)
	assert.Equal(t, Number(1.04), *closed.Target)

	vs, err := j.ListViolations(ctx, "alice", open.ID)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, pol.ID, vs[0].PolicyID)

	_, err = j.CloseTrade(ctx, "alice", open.ID, CloseRequest{ExitPrice: 1, GrossPnL: 1})
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = j.CloseTrade(ctx, "alice", "nope", CloseRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCloseTradeRollsBackOnUnknownPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	open, err := j.AddTrade(ctx, openTrade("alice", "2024-05-01", "EUR/USD"))
	require.NoError(t, err)

	_, err = j.CloseTrade(ctx, "alice", open.ID, CloseRequest{ExitPrice: 1.05, GrossPnL: 100, PolicyIDs: []string{"missing"}})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := j.GetTrade(ctx, "alice", open.ID)
	require.NoError(t, err)
	assert.Equal(t, Open, got.Status)
	assert.Nil(t, got.ExitPrice)
}

func TestSQLiteDeleteTrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	saved, err := j.AddTrade(ctx, closedTrade("alice", "2024-03-15", "EUR/USD"))
	require.NoError(t, err)

	assert.ErrorIs(t, j.DeleteTrade(ctx, "bob", saved.ID), ErrNotFound)
	require.NoError(t, j.DeleteTrade(ctx, "alice", saved.ID))
	assert.ErrorIs(t, j.DeleteTrade(ctx, "alice", saved.ID), ErrNotFound)

	_, err = j.GetTrade(ctx, "alice", saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteInstruments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	_, err := j.SetInstrument(ctx, Instrument{Owner: "alice", Name: "XAU/USD", SpreadCost: 12, SortOrder: 2})
	require.NoError(t, err)
	first, err := j.SetInstrument(ctx, Instrument{Owner: "alice", Name: "EUR/USD", SpreadCost: 3.5, SortOrder: 1})
	require.NoError(t, err)

	// Upsert keeps the id and replaces the cost.
	again, err := j.SetInstrument(ctx, Instrument{Owner: "alice", Name: " EUR/USD ", SpreadCost: 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 2.0, again.SpreadCost)

	_, err = j.SetInstrument(ctx, Instrument{Owner: "alice", Name: "GBP/USD", SpreadCost: 0})
	assert.Error(t, err)
	_, err = j.SetInstrument(ctx, Instrument{Owner: "alice", Name: "  ", SpreadCost: 1})
	assert.Error(t, err)

	list, err := j.ListInstruments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "EUR/USD", list[0].Name)
	assert.Equal(t, "XAU/USD", list[1].Name)

	over, err := j.CostOverrides(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"EUR/USD": 2, "XAU/USD": 12}, over)

	over, err = j.CostOverrides(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, over)

	require.NoError(t, j.DeleteInstrument(ctx, "alice", "XAU/USD"))
	assert.ErrorIs(t, j.DeleteInstrument(ctx, "alice", "XAU/USD"), ErrNotFound)
}

func TestSQLiteNotes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	w1, err := j.AddNote(ctx, Note{Owner: "alice", Kind: Weekly, Period: "2024-W10", Lesson: "patience"})
	require.NoError(t, err)
	w2, err := j.AddNote(ctx, Note{Owner: "alice", Kind: Weekly, Period: "2024-W11", Plan: "A setups"})
	require.NoError(t, err)
	_, err = j.AddNote(ctx, Note{Owner: "alice", Kind: Monthly, Period: "2024-03"})
	require.NoError(t, err)

	_, err = j.AddNote(ctx, Note{Owner: "alice", Kind: "daily", Period: "x"})
	assert.Error(t, err)
	_, err = j.AddNote(ctx, Note{Owner: "alice", Kind: Weekly, Period: " "})
	assert.Error(t, err)

	weekly, err := j.ListNotes(ctx, "alice", Weekly)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, w2.ID, weekly[0].ID, "newest first")
	assert.Equal(t, w1.ID, weekly[1].ID)
	assert.Equal(t, "patience", weekly[1].Lesson)

	monthly, err := j.ListNotes(ctx, "alice", Monthly)
	require.NoError(t, err)
	assert.Len(t, monthly, 1)

	require.NoError(t, j.DeleteNote(ctx, "alice", w1.ID))
	assert.ErrorIs(t, j.DeleteNote(ctx, "alice", w1.ID), ErrNotFound)
}
