package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

func (j *SQLite) ListInstruments(ctx context.Context, owner string) ([]Instrument, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, owner, name, spread_cost, sort_order
		FROM instruments
		WHERE owner = ?
		ORDER BY sort_order, name`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Instrument
	for rows.Next() {
		var in Instrument
		if err := rows.Scan(&in.ID, &in.Owner, &in.Name, &in.SpreadCost, &in.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// SetInstrument inserts or updates the owner's cost for in.Name.
func (j *SQLite) SetInstrument(ctx context.Context, in Instrument) (Instrument, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Instrument{}, errors.New("instrument name is required")
	}
	if in.SpreadCost <= 0 {
		return Instrument{}, fmt.Errorf("spread cost for %s must be positive", in.Name)
	}
	if in.ID == "" {
		in.ID = id.New()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO instruments (id, owner, name, spread_cost, sort_order)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(owner, name) DO UPDATE SET spread_cost = excluded.spread_cost, sort_order = excluded.sort_order`,
		in.ID, in.Owner, in.Name, in.SpreadCost, in.SortOrder)
	if err != nil {
		return Instrument{}, fmt.Errorf("set instrument: %w", err)
	}

	row := j.db.QueryRowContext(ctx, `
		SELECT id, owner, name, spread_cost, sort_order
		FROM instruments WHERE owner = ? AND name = ?`, in.Owner, in.Name)
	var out Instrument
	if err := row.Scan(&out.ID, &out.Owner, &out.Name, &out.SpreadCost, &out.SortOrder); err != nil {
		return Instrument{}, err
	}
	return out, nil
}

func (j *SQLite) DeleteInstrument(ctx context.Context, owner, name string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM instruments WHERE owner = ? AND name = ?`, owner, name)
	if err != nil {
		return fmt.Errorf("delete instrument: %w", err)
	}
	return affected(res, "instrument", name)
}

// CostOverrides returns the owner's stored spread costs keyed by name.
func (j *SQLite) CostOverrides(ctx context.Context, owner string) (map[string]float64, error) {
	ins, err := j.ListInstruments(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(ins))
	for _, in := range ins {
		out[in.Name] = in.SpreadCost
	}
	return out, nil
}
