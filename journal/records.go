package journal

import "time"

// Instrument is a per-owner spread cost override.
type Instrument struct {
	ID         string  `json:"id"`
	Owner      string  `json:"owner,omitempty"`
	Name       string  `json:"name"`
	SpreadCost float64 `json:"spread_cost"`
	SortOrder  int     `json:"sort_order"`
}

type NoteKind string

const (
	Weekly  NoteKind = "weekly"
	Monthly NoteKind = "monthly"
)

// Note is a periodic self-assessment. Period holds the week label for
// weekly notes and YYYY-MM for monthly ones.
type Note struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner,omitempty"`
	Kind      NoteKind  `json:"kind"`
	Period    string    `json:"period"`
	Lesson    string    `json:"lesson,omitempty"`
	Plan      string    `json:"plan,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Policy is one of the trader's own rules.
type Policy struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner,omitempty"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Violation records that a trade broke a policy.
type Violation struct {
	TradeID  string `json:"trade_id"`
	PolicyID string `json:"policy_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type PolicyCount struct {
	PolicyID string `json:"policy_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type ViolationStats struct {
	Top                  []PolicyCount `json:"top_violated"`
	Total                int           `json:"total_violations"`
	TradesWithViolations int           `json:"trades_with_violations"`
}

// DateRange is the optional filter echoed in an export bundle.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Bundle is the JSON export/import document.
type Bundle struct {
	ExportDate   time.Time     `json:"export_date"`
	DateRange    DateRange     `json:"date_range"`
	Trades       []TradeRecord `json:"trades"`
	WeeklyNotes  []Note        `json:"weekly_notes"`
	MonthlyNotes []Note        `json:"monthly_notes"`
}

type ImportResult struct {
	Trades       int `json:"trades"`
	WeeklyNotes  int `json:"weekly_notes"`
	MonthlyNotes int `json:"monthly_notes"`
}
