// journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyClosed = errors.New("trade already closed")
)

// DateLayout is the calendar date format used for trade dates.
const DateLayout = "2006-01-02"

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// ParseDirection accepts long/buy and short/sell in any case, plus the
// 多/空 prefixes used by journals exported from the older web app.
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "多"):
		return Long, nil
	case strings.HasPrefix(s, "空"):
		return Short, nil
	}
	switch strings.ToLower(s) {
	case "long", "buy", "b":
		return Long, nil
	case "short", "sell", "s":
		return Short, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// IsLong reports whether d names the long side in any accepted spelling.
func (d Direction) IsLong() bool {
	p, err := ParseDirection(string(d))
	return err == nil && p == Long
}

// UnmarshalJSON normalizes the spellings ParseDirection accepts. Anything
// else is kept verbatim so Validate can report it.
func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("direction: %w", err)
	}
	if p, err := ParseDirection(s); err == nil {
		*d = p
		return nil
	}
	*d = Direction(s)
	return nil
}

type Status string

const (
	Open   Status = "open"
	Closed Status = "closed"
)

// ParseStatus maps user input to a Status. Empty input means closed.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "closed":
		return Closed, nil
	case "open":
		return Open, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// TradeRecord is one logged position.
type TradeRecord struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner,omitempty"`
	Date      string    `json:"date"`
	Pair      string    `json:"pair"`
	Direction Direction `json:"direction"`
	Strategy  string    `json:"strategy"`
	Timeframe string    `json:"timeframe"`
	Lots      Number    `json:"lots"`
	Entry     Number    `json:"entry"`
	Stop      Number    `json:"stop"`
	Target    *Number   `json:"target"`
	ExitPrice *Number   `json:"exit_price"`
	GrossPnL  *Number   `json:"gross_pnl"`
	Swap      Number    `json:"swap"`
	Score     string    `json:"score,omitempty"`
	Emotion   string    `json:"emotion,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsClosed reports whether the trade is closed. An empty status counts as
// closed.
func (t TradeRecord) IsClosed() bool {
	return t.Status != Open
}

// Validate checks the fields the store requires before accepting a record.
func (t TradeRecord) Validate() error {
	if t.Date == "" {
		return errors.New("date is required")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", t.Date)
	}
	if t.Pair == "" {
		return errors.New("pair is required")
	}
	if t.Direction != Long && t.Direction != Short {
		return fmt.Errorf("direction must be %q or %q", Long, Short)
	}
	if t.Strategy == "" {
		return errors.New("strategy is required")
	}
	if t.Timeframe == "" {
		return errors.New("timeframe is required")
	}
	switch t.Status {
	case Open:
	case Closed, "":
		if t.ExitPrice == nil {
			return errors.New("closed trade requires exit_price")
		}
		if t.GrossPnL == nil {
			return errors.New("closed trade requires gross_pnl")
		}
	default:
		return fmt.Errorf("unknown status %q", t.Status)
	}
	return nil
}

// TradeFilter narrows ListTrades. Zero values match everything.
type TradeFilter struct {
	Status Status
	From   string // inclusive YYYY-MM-DD
	To     string // inclusive YYYY-MM-DD
}

// CloseRequest carries the fields filled in when an open trade is closed.
type CloseRequest struct {
	ExitPrice Number
	GrossPnL  Number
	Swap      *Number
	PolicyIDs []string
}

type Store interface {
	AddTrade(ctx context.Context, t TradeRecord) (TradeRecord, error)
	GetTrade(ctx context.Context, owner, id string) (TradeRecord, error)
	UpdateTrade(ctx context.Context, t TradeRecord) (TradeRecord, error)
	CloseTrade(ctx context.Context, owner, id string, req CloseRequest) (TradeRecord, error)
	DeleteTrade(ctx context.Context, owner, id string) error
	ListTrades(ctx context.Context, owner string, f TradeFilter) ([]TradeRecord, error)

	ListInstruments(ctx context.Context, owner string) ([]Instrument, error)
	SetInstrument(ctx context.Context, in Instrument) (Instrument, error)
	DeleteInstrument(ctx context.Context, owner, name string) error
	CostOverrides(ctx context.Context, owner string) (map[string]float64, error)

	AddNote(ctx context.Context, n Note) (Note, error)
	ListNotes(ctx context.Context, owner string, kind NoteKind) ([]Note, error)
	DeleteNote(ctx context.Context, owner, id string) error

	AddPolicy(ctx context.Context, p Policy) (Policy, error)
	GetPolicy(ctx context.Context, owner, id string) (Policy, error)
	ListPolicies(ctx context.Context, owner, category string) ([]Policy, error)
	UpdatePolicy(ctx context.Context, p Policy) (Policy, error)
	TogglePolicy(ctx context.Context, owner, id string) (Policy, error)
	DeletePolicy(ctx context.Context, owner, id string) error

	SetViolations(ctx context.Context, owner, tradeID string, policyIDs []string) ([]Violation, error)
	ListViolations(ctx context.Context, owner, tradeID string) ([]Violation, error)
	ViolationStats(ctx context.Context, owner string) (ViolationStats, error)

	Export(ctx context.Context, owner string, f TradeFilter) (Bundle, error)
	Import(ctx context.Context, owner string, b Bundle) (ImportResult, error)

	Close() error
}
