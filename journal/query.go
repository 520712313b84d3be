package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, owner, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = ? AND owner = ?`, tradeID, owner)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns the owner's trades matching f, ordered by date then id.
func (j *SQLite) ListTrades(ctx context.Context, owner string, f TradeFilter) ([]TradeRecord, error) {
	return listTrades(ctx, j.db, owner, f)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listTrades(ctx context.Context, q querier, owner string, f TradeFilter) ([]TradeRecord, error) {
	where := []string{"owner = ?"}
	args := []any{owner}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.From != "" {
		where = append(where, "date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "date <= ?")
		args = append(args, f.To)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY date ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
