package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/tradejournal/internal/logging"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

// SQLite is the Store backed by a single SQLite file.
type SQLite struct {
	db  *sql.DB
	log logrus.FieldLogger
	now func() time.Time
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}
	// One writer keeps transactions from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{
		db:  db,
		log: logging.Discard(),
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// SetLogger routes store diagnostics to l.
func (j *SQLite) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		j.log = l
	}
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

const tradeColumns = `id, owner, date, pair, direction, strategy, timeframe, lots, entry, stop,
	target, exit_price, gross_pnl, swap, score, emotion, notes, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (TradeRecord, error) {
	var (
		t                   TradeRecord
		target, exit, gross any
		direction, status   string
	)
	err := row.Scan(
		&t.ID, &t.Owner, &t.Date, &t.Pair, &direction, &t.Strategy, &t.Timeframe,
		&t.Lots, &t.Entry, &t.Stop, &target, &exit, &gross, &t.Swap,
		&t.Score, &t.Emotion, &t.Notes, &status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	t.Direction = Direction(direction)
	t.Status = Status(status)
	t.Target = scanOpt(target)
	t.ExitPrice = scanOpt(exit)
	t.GrossPnL = scanOpt(gross)
	return t, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTrade(ctx context.Context, x execer, t TradeRecord) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Owner, t.Date, t.Pair, string(t.Direction), t.Strategy, t.Timeframe,
		t.Lots, t.Entry, t.Stop, optValue(t.Target), optValue(t.ExitPrice), optValue(t.GrossPnL), t.Swap,
		t.Score, t.Emotion, t.Notes, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// AddTrade validates and stores a new trade, assigning its id and
// timestamps.
func (j *SQLite) AddTrade(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	if t.Status == "" {
		t.Status = Closed
	}
	if err := t.Validate(); err != nil {
		return TradeRecord{}, fmt.Errorf("invalid trade: %w", err)
	}
	now := j.now()
	t.ID = id.New()
	t.CreatedAt, t.UpdatedAt = now, now

	if err := insertTrade(ctx, j.db, t); err != nil {
		return TradeRecord{}, fmt.Errorf("insert trade: %w", err)
	}
	j.log.WithFields(logrus.Fields{"trade": t.ID, "pair": t.Pair, "status": t.Status}).Debug("trade added")
	return t, nil
}

// UpdateTrade replaces every editable field of an existing trade.
func (j *SQLite) UpdateTrade(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	if err := t.Validate(); err != nil {
		return TradeRecord{}, fmt.Errorf("invalid trade: %w", err)
	}
	t.UpdatedAt = j.now()

	res, err := j.db.ExecContext(ctx, `
		UPDATE trades SET date=?, pair=?, direction=?, strategy=?, timeframe=?, lots=?, entry=?, stop=?,
			target=?, exit_price=?, gross_pnl=?, swap=?, score=?, emotion=?, notes=?, status=?, updated_at=?
		WHERE id=? AND owner=?`,
		t.Date, t.Pair, string(t.Direction), t.Strategy, t.Timeframe, t.Lots, t.Entry, t.Stop,
		optValue(t.Target), optValue(t.ExitPrice), optValue(t.GrossPnL), t.Swap,
		t.Score, t.Emotion, t.Notes, string(t.Status), t.UpdatedAt,
		t.ID, t.Owner,
	)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("update trade: %w", err)
	}
	if err := affected(res, "trade", t.ID); err != nil {
		return TradeRecord{}, err
	}
	return j.GetTrade(ctx, t.Owner, t.ID)
}

// CloseTrade moves an open trade to closed and replaces its violations in
// the same transaction. Closing an already closed trade fails with
// ErrAlreadyClosed.
func (j *SQLite) CloseTrade(ctx context.Context, owner, tradeID string, req CloseRequest) (TradeRecord, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return TradeRecord{}, err
	}
	defer tx.Rollback()

	cur, err := scanTrade(tx.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE id = ? AND owner = ?`, tradeID, owner))
	if err == sql.ErrNoRows {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	if err != nil {
		return TradeRecord{}, err
	}
	if cur.IsClosed() {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrAlreadyClosed)
	}

	swap := cur.Swap
	if req.Swap != nil {
		swap = *req.Swap
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE trades SET exit_price=?, gross_pnl=?, swap=?, status=?, updated_at=?
		WHERE id=? AND owner=? AND status=?`,
		req.ExitPrice, req.GrossPnL, swap, string(Closed), j.now(), tradeID, owner, string(Open))
	if err != nil {
		return TradeRecord{}, fmt.Errorf("close trade: %w", err)
	}
	if err := replaceViolations(ctx, tx, owner, tradeID, req.PolicyIDs); err != nil {
		return TradeRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return TradeRecord{}, err
	}

	j.log.WithFields(logrus.Fields{"trade": tradeID, "violations": len(req.PolicyIDs)}).Debug("trade closed")
	return j.GetTrade(ctx, owner, tradeID)
}

func (j *SQLite) DeleteTrade(ctx context.Context, owner, tradeID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ? AND owner = ?`, tradeID, owner)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	return affected(res, "trade", tradeID)
}

func affected(res sql.Result, kind, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	}
	return nil
}
