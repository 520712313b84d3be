package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

var ulidRe = regexp.MustCompile(`[0-9A-HJKMNP-TV-Z]{26}`)

// resetFlags puts every flag back to its default so commands can run
// repeatedly against the package-level command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvOwner, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Cleanup(func() { _ = teardown() })
	return &cli{t: t, db: filepath.Join(t.TempDir(), "journal.sqlite")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--db", c.db, "--owner", "tester", "--log-level", "error"}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "tradejournal %s", strings.Join(args, " "))
	return out
}

func (c *cli) addLong(extra ...string) string {
	c.t.Helper()
	args := append([]string{"trade", "add",
		"--date", "2024-03-15", "--pair", "EUR/USD", "--dir", "long",
		"--strategy", "trend", "--tf", "H1", "--lots", "0.5",
		"--entry", "1.0325", "--stop", "1.0295", "--exit", "1.0372",
		"--gross", "235", "--swap", "-2.5", "--score", "A", "--emotion", "calm",
	}, extra...)
	out := c.must(args...)
	id := ulidRe.FindString(out)
	require.NotEmpty(c.t, id, out)
	return id
}

func TestVersionSkipsStore(t *testing.T) {
	c := newCLI(t)
	out := c.must("version")

	assert.Contains(t, out, "tradejournal version "+version)
	_, err := os.Stat(c.db)
	assert.True(t, os.IsNotExist(err))
}

func TestTradeLifecycle(t *testing.T) {
	c := newCLI(t)

	out := c.must("trade", "add",
		"--date", "2024-03-15", "--pair", "EUR/USD", "--dir", "buy",
		"--strategy", "trend", "--tf", "H1", "--lots", "0.5",
		"--entry", "1.0325", "--stop", "1.0295", "--exit", "1.0372",
		"--gross", "235", "--swap", "-2.5")
	assert.Contains(t, out, "✓ Added trade")
	assert.Contains(t, out, "on Friday")
	assert.Contains(t, out, "R 1.57")
	assert.Contains(t, out, "spread 1.75  swap -2.50  net 230.75")
	id := ulidRe.FindString(out)
	require.NotEmpty(t, id)

	out = c.must("trade", "list")
	assert.Contains(t, out, "EUR/USD")
	assert.Contains(t, out, "230.75")

	out = c.must("trade", "list", "--org")
	assert.Contains(t, out, "** Trade: 2024-03-15 EUR/USD long ("+id[:8]+")")
	assert.Contains(t, out, ":GROSS_PNL: 235.00")

	out = c.must("trade", "show", id)
	assert.Contains(t, out, ":TRADE_ID: "+id)
	assert.Contains(t, out, ":PAIR: EUR/USD")

	out = c.must("trade", "edit", id, "--gross", "300", "--notes", "moved stop early")
	assert.Contains(t, out, "net 295.75")

	rec := c.must("trade", "show", id)
	assert.Contains(t, rec, "moved stop early")
	assert.Contains(t, rec, ":STRATEGY: trend")

	c.must("trade", "rm", id)
	_, err := c.run("trade", "show", id)
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestTradeAddRejectsBadInput(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("trade", "add", "--date", "2024-03-15", "--pair", "EUR/USD", "--dir", "sideways",
		"--strategy", "trend", "--tf", "H1", "--exit", "1", "--gross", "1")
	assert.Error(t, err)

	_, err = c.run("trade", "add", "--date", "2024-03-15", "--pair", "EUR/USD", "--dir", "long",
		"--strategy", "trend", "--tf", "H1")
	assert.Error(t, err, "closed trade without exit price")
}

func TestOpenAndCloseTrade(t *testing.T) {
	c := newCLI(t)

	out := c.must("trade", "add", "--status", "open",
		"--date", "2024-05-01", "--pair", "XAU/USD", "--dir", "short",
		"--strategy", "pullback", "--tf", "H4", "--lots", "0.1",
		"--entry", "2300", "--stop", "2310", "--target", "2270")
	assert.Contains(t, out, "stop distance 10.00000")
	assert.Contains(t, out, "planned R:R 3.00")
	id := ulidRe.FindString(out)

	out = c.must("trade", "open")
	assert.Contains(t, out, "XAU/USD")
	assert.Contains(t, out, "2270.00000")

	out = c.must("trade", "close", id, "--exit", "2280", "--gross", "200")
	assert.Contains(t, out, "✓ Closed trade "+id)
	assert.Contains(t, out, "R 2.00")
	assert.Contains(t, out, "net 198.80")

	out = c.must("trade", "open")
	assert.Contains(t, out, "no open positions")

	_, err := c.run("trade", "close", id, "--exit", "2280", "--gross", "200")
	assert.ErrorIs(t, err, journal.ErrAlreadyClosed)

	_, err = c.run("trade", "close", id)
	assert.Error(t, err, "exit and gross are required")
}

func TestStats(t *testing.T) {
	c := newCLI(t)
	c.addLong()
	c.must("trade", "add",
		"--date", "2024-03-18", "--pair", "XAU/USD", "--dir", "short",
		"--strategy", "pullback", "--tf", "H4", "--lots", "0.1",
		"--entry", "2150", "--stop", "2160", "--exit", "2165",
		"--gross", "-150", "--score", "D")

	out := c.must("stats")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "79.55")
	assert.Contains(t, out, "Poor execution")

	out = c.must("stats", "--json")
	var st struct {
		Total    int     `json:"total"`
		TotalNet float64 `json:"total_net"`
		Equity   []struct {
			PnL float64 `json:"pnl"`
		} `json:"equity"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 79.55, st.TotalNet)
	require.Len(t, st.Equity, 2)
	assert.Equal(t, 79.55, st.Equity[1].PnL)

	out = c.must("stats", "--json", "--from", "2024-03-16")
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 1, st.Total)

	out = c.must("stats", "--from", "2025-01-01")
	assert.Contains(t, out, "no trades")

	_, err := c.run("stats", "--status", "pending")
	assert.Error(t, err)
}

func TestPairsOverrideChangesSpread(t *testing.T) {
	c := newCLI(t)

	c.must("pairs", "set", "EUR/USD", "1")
	out := c.must("pairs", "list")
	assert.Contains(t, out, "EUR/USD")
	assert.Contains(t, out, "journal")
	assert.Contains(t, out, "config")

	out = c.must("trade", "add",
		"--date", "2024-03-15", "--pair", "EUR/USD", "--dir", "long",
		"--strategy", "trend", "--tf", "H1", "--lots", "0.5",
		"--entry", "1.0325", "--stop", "1.0295", "--exit", "1.0372", "--gross", "235")
	assert.Contains(t, out, "spread 0.50")

	c.must("pairs", "rm", "EUR/USD")
	_, err := c.run("pairs", "rm", "EUR/USD")
	assert.ErrorIs(t, err, journal.ErrNotFound)

	_, err = c.run("pairs", "set", "EUR/USD", "0")
	assert.Error(t, err)
}

func TestNotes(t *testing.T) {
	c := newCLI(t)

	c.must("notes", "add", "--period", "2024-W11", "--lesson", "cut losers early")
	c.must("notes", "add", "--monthly", "--period", "2024-03", "--plan", "A setups only")

	out := c.must("notes", "list")
	assert.Contains(t, out, "2024-W11")
	assert.NotContains(t, out, "2024-03 ")

	out = c.must("notes", "list", "--monthly")
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "A setups only")
	id := ulidRe.FindString(out)

	c.must("notes", "rm", id)
	out = c.must("notes", "list", "--monthly")
	assert.Contains(t, out, "nothing to show")
}

func TestPolicyAndViolations(t *testing.T) {
	c := newCLI(t)

	out := c.must("policy", "add", "--category", "risk", "--title", "1% max", "--content", "Never risk more than 1%")
	pid := ulidRe.FindString(out)
	require.NotEmpty(t, pid)

	out = c.must("policy", "edit", pid, "--title", "One percent")
	assert.Contains(t, out, "✓ Updated policy")
	out = c.must("policy", "list", "--category", "risk")
	assert.Contains(t, out, "One percent")
	assert.Contains(t, out, "Never risk more than 1%")

	tid := c.addLong("--violations", pid)
	out = c.must("violations", "list", tid)
	assert.Contains(t, out, "One percent")

	out = c.must("violations", "stats")
	assert.Contains(t, out, "Total violations: 1 across 1 trades")

	out = c.must("violations", "set", tid)
	assert.Contains(t, out, "has 0 violations")

	out = c.must("policy", "toggle", pid)
	assert.Contains(t, out, "inactive")
	out = c.must("policy", "toggle", pid)
	assert.Contains(t, out, "is now active")

	c.must("policy", "rm", pid)
	_, err := c.run("violations", "set", tid, pid)
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestExportImport(t *testing.T) {
	src := newCLI(t)
	src.addLong()
	src.must("notes", "add", "--period", "2024-W11", "--lesson", "patience")

	file := filepath.Join(t.TempDir(), "backup.json")
	src.must("export", "-o", file)

	dst := &cli{t: t, db: filepath.Join(t.TempDir(), "other.sqlite")}
	out := dst.must("import", file)
	assert.Contains(t, out, "Imported 1 trades, 1 weekly and 0 monthly notes")

	out = dst.must("stats", "--json")
	assert.Contains(t, out, `"total_net": 230.75`)

	out = src.must("stats", "--json", "--file", file)
	assert.Contains(t, out, `"total_net": 230.75`)
	out = src.must("stats", "--json", "--file", file, "--status", "open")
	assert.Contains(t, out, `"total": 0`)

	_, err := dst.run("import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTradeCSVRoundTrip(t *testing.T) {
	src := newCLI(t)
	src.addLong()

	file := filepath.Join(t.TempDir(), "trades.csv")
	src.must("trade", "export-csv", "-o", file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	// A row the journal rejects: no strategy or timeframe.
	data = append(data, []byte("x,2024-03-20,GBP/USD,short,,,1,1.27,1.28,,1.26,100,0,,,closed,\n")...)
	require.NoError(t, os.WriteFile(file, data, 0644))

	dst := &cli{t: t, db: filepath.Join(t.TempDir(), "other.sqlite")}
	out := dst.must("trade", "import-csv", file)
	assert.Contains(t, out, "Imported 1 trades (1 skipped)")

	out = dst.must("trade", "list")
	assert.Contains(t, out, "230.75")
}

func TestReports(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("report", "html", "-o", filepath.Join(t.TempDir(), "empty.html"))
	assert.Error(t, err)

	c.addLong()
	dir := t.TempDir()

	org := filepath.Join(dir, "review.org")
	c.must("report", "org", "--title", "March", "-o", org)
	data, err := os.ReadFile(org)
	require.NoError(t, err)
	assert.Contains(t, string(data), "* REVIEW: March")
	assert.Contains(t, string(data), ":OWNER:       tester")

	out := c.must("report", "csv")
	assert.True(t, strings.HasPrefix(out, "id,date,weekday,pair"))
	assert.Contains(t, out, "230.75")

	html := filepath.Join(dir, "equity.html")
	c.must("report", "html", "-o", html)
	data, err = os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(data), "echarts")
}

func TestConfigInitAndValidate(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(t.TempDir(), "tj.yaml")

	out := c.must("config", "init", "-o", path)
	assert.Contains(t, out, "Created default configuration")

	out = c.must("config", "validate", "-f", path)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Owner: default")

	require.NoError(t, os.WriteFile(path, []byte("owner: \"\"\n"), 0644))
	_, err := c.run("config", "validate", "-f", path)
	assert.Error(t, err)

	_, err = os.Stat(c.db)
	assert.True(t, os.IsNotExist(err))
}
