package metrics

import (
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// FilterStatus keeps the records with the given status. An empty status
// keeps everything.
func FilterStatus(records []journal.TradeRecord, status journal.Status) []journal.TradeRecord {
	if status == "" {
		return records
	}
	var out []journal.TradeRecord
	for _, r := range records {
		if (status == journal.Closed) == r.IsClosed() {
			out = append(out, r)
		}
	}
	return out
}

// FilterDateRange keeps records dated within [from, to]. Either bound may
// be empty. Only the calendar day of an RFC 3339 date is compared.
func FilterDateRange(records []journal.TradeRecord, from, to string) []journal.TradeRecord {
	if from == "" && to == "" {
		return records
	}
	from, to = calendarDay(from), calendarDay(to)
	var out []journal.TradeRecord
	for _, r := range records {
		d := calendarDay(r.Date)
		if from != "" && d < from {
			continue
		}
		if to != "" && d > to {
			continue
		}
		out = append(out, r)
	}
	return out
}

func calendarDay(s string) string {
	if len(s) > len(journal.DateLayout) {
		return s[:len(journal.DateLayout)]
	}
	return s
}

// PoorExecution returns the trades graded at or below worst on the A..D
// execution scale. Scores are matched by their leading letter, so "C-deviated"
// counts as C. Ungraded trades are skipped.
func PoorExecution(trades []ComputedTrade, worst string) []ComputedTrade {
	limit := grade(worst)
	if limit == 0 {
		return nil
	}
	var out []ComputedTrade
	for _, t := range trades {
		if g := grade(t.Score); g != 0 && g >= limit {
			out = append(out, t)
		}
	}
	return out
}

func grade(score string) byte {
	s := strings.ToUpper(strings.TrimSpace(score))
	if s == "" {
		return 0
	}
	if c := s[0]; c >= 'A' && c <= 'Z' {
		return c
	}
	return 0
}
