package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// Export collects the owner's trades in the filter's date range together
// with all of their notes.
func (j *SQLite) Export(ctx context.Context, owner string, f TradeFilter) (Bundle, error) {
	b := Bundle{
		ExportDate: j.now(),
		DateRange:  DateRange{From: f.From, To: f.To},
	}
	var err error
	if b.Trades, err = listTrades(ctx, j.db, owner, f); err != nil {
		return Bundle{}, fmt.Errorf("export trades: %w", err)
	}
	if b.WeeklyNotes, err = listNotes(ctx, j.db, owner, Weekly); err != nil {
		return Bundle{}, fmt.Errorf("export weekly notes: %w", err)
	}
	if b.MonthlyNotes, err = listNotes(ctx, j.db, owner, Monthly); err != nil {
		return Bundle{}, fmt.Errorf("export monthly notes: %w", err)
	}
	return b, nil
}

// Import inserts everything in b under owner as new records in a single
// transaction. Records get fresh ids; trades without a status are closed.
func (j *SQLite) Import(ctx context.Context, owner string, b Bundle) (ImportResult, error) {
	var res ImportResult
	if len(b.Trades) == 0 && len(b.WeeklyNotes) == 0 && len(b.MonthlyNotes) == 0 {
		return res, errors.New("import bundle is empty")
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	now := j.now()
	for i, t := range b.Trades {
		t.ID = id.New()
		t.Owner = owner
		if t.Status == "" {
			t.Status = Closed
		}
		if err := t.Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("trade %d: %w", i+1, err)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = now
		}
		if err := insertTrade(ctx, tx, t); err != nil {
			return ImportResult{}, fmt.Errorf("trade %d: %w", i+1, err)
		}
		res.Trades++
	}

	notes := func(kind NoteKind, in []Note) (int, error) {
		n := 0
		for i, note := range in {
			note.ID = id.New()
			note.Owner = owner
			note.Kind = kind
			if note.Period == "" {
				return n, fmt.Errorf("%s note %d: period is required", kind, i+1)
			}
			if note.CreatedAt.IsZero() {
				note.CreatedAt = now
			}
			if err := insertNote(ctx, tx, note); err != nil {
				return n, fmt.Errorf("%s note %d: %w", kind, i+1, err)
			}
			n++
		}
		return n, nil
	}
	if res.WeeklyNotes, err = notes(Weekly, b.WeeklyNotes); err != nil {
		return ImportResult{}, err
	}
	if res.MonthlyNotes, err = notes(Monthly, b.MonthlyNotes); err != nil {
		return ImportResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, err
	}
	j.log.WithFields(logrus.Fields{
		"owner":   owner,
		"trades":  res.Trades,
		"weekly":  res.WeeklyNotes,
		"monthly": res.MonthlyNotes,
	}).Info("import complete")
	return res, nil
}

// WriteBundle encodes b as indented JSON.
func WriteBundle(w io.Writer, b Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// ReadBundle decodes an export document.
func ReadBundle(r io.Reader) (Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("decode bundle: %w", err)
	}
	return b, nil
}
