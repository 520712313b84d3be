// journal/csv.go
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"id", "date", "pair", "direction", "strategy", "timeframe", "lots",
	"entry", "stop", "target", "exit_price", "gross_pnl", "swap",
	"score", "emotion", "status", "notes",
}

// WriteTradesCSV writes trades with a header row. Unset optional prices are
// written as empty cells.
func WriteTradesCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.Date,
			t.Pair,
			string(t.Direction),
			t.Strategy,
			t.Timeframe,
			f(t.Lots),
			f(t.Entry),
			f(t.Stop),
			opt(t.Target),
			opt(t.ExitPrice),
			opt(t.GrossPnL),
			f(t.Swap),
			t.Score,
			t.Emotion,
			string(t.Status),
			t.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTradesCSV parses trades written by WriteTradesCSV or by hand. Columns
// are matched by header name and may appear in any order; numeric cells
// that do not parse become 0. Rows with an unknown direction or status are
// reported with their line number.
func ReadTradesCSV(r io.Reader) ([]TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("csv: missing header")
	}
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"date", "pair", "direction"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("csv: missing %q column", req)
		}
	}

	var out []TradeRecord
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		getOpt := func(name string) *Number {
			s := get(name)
			if s == "" {
				return nil
			}
			return ParseNumber(s).Ptr()
		}

		dir, err := ParseDirection(get("direction"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		status, err := ParseStatus(get("status"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, TradeRecord{
			ID:        get("id"),
			Date:      get("date"),
			Pair:      get("pair"),
			Direction: dir,
			Strategy:  get("strategy"),
			Timeframe: get("timeframe"),
			Lots:      ParseNumber(get("lots")),
			Entry:     ParseNumber(get("entry")),
			Stop:      ParseNumber(get("stop")),
			Target:    getOpt("target"),
			ExitPrice: getOpt("exit_price"),
			GrossPnL:  getOpt("gross_pnl"),
			Swap:      ParseNumber(get("swap")),
			Score:     get("score"),
			Emotion:   get("emotion"),
			Status:    status,
			Notes:     get("notes"),
		})
	}
	return out, nil
}

func f(x Number) string {
	return strconv.FormatFloat(float64(x), 'f', -1, 64)
}

func opt(x *Number) string {
	if x == nil {
		return ""
	}
	return f(*x)
}
