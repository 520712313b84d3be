package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

const policyColumns = `id, owner, category, title, content, sort_order, active, created_at, updated_at`

func scanPolicy(row rowScanner) (Policy, error) {
	var p Policy
	err := row.Scan(&p.ID, &p.Owner, &p.Category, &p.Title, &p.Content, &p.SortOrder, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func validatePolicy(p *Policy) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = strings.TrimSpace(p.Content)
	if p.Category == "" || p.Title == "" || p.Content == "" {
		return errors.New("category, title and content are required")
	}
	return nil
}

// AddPolicy stores a new, active policy.
func (j *SQLite) AddPolicy(ctx context.Context, p Policy) (Policy, error) {
	if err := validatePolicy(&p); err != nil {
		return Policy{}, err
	}
	now := j.now()
	p.ID = id.New()
	p.Active = true
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO policies (`+policyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Owner, p.Category, p.Title, p.Content, p.SortOrder, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Policy{}, fmt.Errorf("insert policy: %w", err)
	}
	return p, nil
}

func (j *SQLite) GetPolicy(ctx context.Context, owner, policyID string) (Policy, error) {
	p, err := scanPolicy(j.db.QueryRowContext(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE id = ? AND owner = ?`, policyID, owner))
	if err == sql.ErrNoRows {
		return Policy{}, fmt.Errorf("policy %q: %w", policyID, ErrNotFound)
	}
	return p, err
}

// ListPolicies returns the owner's policies, optionally limited to one
// category, ordered by category then sort order.
func (j *SQLite) ListPolicies(ctx context.Context, owner, category string) ([]Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE owner = ?`
	args := []any{owner}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY category, sort_order, id`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (j *SQLite) UpdatePolicy(ctx context.Context, p Policy) (Policy, error) {
	if err := validatePolicy(&p); err != nil {
		return Policy{}, err
	}
	res, err := j.db.ExecContext(ctx, `
		UPDATE policies SET category = ?, title = ?, content = ?, sort_order = ?, updated_at = ?
		WHERE id = ? AND owner = ?`,
		p.Category, p.Title, p.Content, p.SortOrder, j.now(), p.ID, p.Owner)
	if err != nil {
		return Policy{}, fmt.Errorf("update policy: %w", err)
	}
	if err := affected(res, "policy", p.ID); err != nil {
		return Policy{}, err
	}
	return j.GetPolicy(ctx, p.Owner, p.ID)
}

// TogglePolicy flips the active flag.
func (j *SQLite) TogglePolicy(ctx context.Context, owner, policyID string) (Policy, error) {
	res, err := j.db.ExecContext(ctx, `
		UPDATE policies SET active = 1 - active, updated_at = ?
		WHERE id = ? AND owner = ?`, j.now(), policyID, owner)
	if err != nil {
		return Policy{}, fmt.Errorf("toggle policy: %w", err)
	}
	if err := affected(res, "policy", policyID); err != nil {
		return Policy{}, err
	}
	return j.GetPolicy(ctx, owner, policyID)
}

func (j *SQLite) DeletePolicy(ctx context.Context, owner, policyID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM policies WHERE id = ? AND owner = ?`, policyID, owner)
	if err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}
	return affected(res, "policy", policyID)
}

// SetViolations replaces the set of policies a trade broke.
func (j *SQLite) SetViolations(ctx context.Context, owner, tradeID string, policyIDs []string) ([]Violation, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var found string
	err = tx.QueryRowContext(ctx, `SELECT id FROM trades WHERE id = ? AND owner = ?`, tradeID, owner).Scan(&found)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := replaceViolations(ctx, tx, owner, tradeID, policyIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	j.log.WithFields(logrus.Fields{"trade": tradeID, "violations": len(policyIDs)}).Debug("violations set")
	return j.ListViolations(ctx, owner, tradeID)
}

func replaceViolations(ctx context.Context, tx *sql.Tx, owner, tradeID string, policyIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM trade_violations WHERE trade_id = ?`, tradeID); err != nil {
		return fmt.Errorf("clear violations: %w", err)
	}
	for _, pid := range policyIDs {
		var ok string
		err := tx.QueryRowContext(ctx, `SELECT id FROM policies WHERE id = ? AND owner = ?`, pid, owner).Scan(&ok)
		if err == sql.ErrNoRows {
			return fmt.Errorf("policy %q: %w", pid, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO trade_violations (trade_id, policy_id) VALUES (?, ?)`, tradeID, pid); err != nil {
			return fmt.Errorf("insert violation: %w", err)
		}
	}
	return nil
}

func (j *SQLite) ListViolations(ctx context.Context, owner, tradeID string) ([]Violation, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT tv.trade_id, tv.policy_id, p.title, p.category
		FROM trade_violations tv
		JOIN policies p ON tv.policy_id = p.id
		WHERE tv.trade_id = ? AND p.owner = ?
		ORDER BY p.category, p.sort_order, p.id`, tradeID, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Violation
	for rows.Next() {
		var v Violation
		if err := rows.Scan(&v.TradeID, &v.PolicyID, &v.Title, &v.Category); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ViolationStats summarizes the owner's most broken policies.
func (j *SQLite) ViolationStats(ctx context.Context, owner string) (ViolationStats, error) {
	var st ViolationStats

	rows, err := j.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.category, COUNT(*) AS n
		FROM trade_violations tv
		JOIN policies p ON tv.policy_id = p.id
		WHERE p.owner = ?
		GROUP BY p.id
		ORDER BY n DESC, p.id
		LIMIT 10`, owner)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var pc PolicyCount
		if err := rows.Scan(&pc.PolicyID, &pc.Title, &pc.Category, &pc.Count); err != nil {
			return st, err
		}
		st.Top = append(st.Top, pc)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	err = j.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT tv.trade_id)
		FROM trade_violations tv
		JOIN policies p ON tv.policy_id = p.id
		WHERE p.owner = ?`, owner).Scan(&st.Total, &st.TradesWithViolations)
	return st, err
}
