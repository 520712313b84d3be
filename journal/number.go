package journal

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric trade field as the record store hands it over.
// Decoding never fails: anything that is not a finite number becomes 0.
type Number float64

// ParseNumber converts loosely typed text to a Number. Empty, malformed,
// NaN and infinite values all yield 0.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Number(v)
}

// Float returns the value as float64.
func (n Number) Float() float64 { return float64(n) }

// Ptr returns a pointer to a copy of n.
func (n Number) Ptr() *Number { return &n }

// Opt returns the value behind an optional field, or 0 when unset.
func Opt(n *Number) float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}
	*n = ParseNumber(string(b))
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// Scan implements sql.Scanner.
func (n *Number) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = 0
	case float64:
		*n = finite(v)
	case int64:
		*n = Number(v)
	case []byte:
		*n = ParseNumber(string(v))
	case string:
		*n = ParseNumber(v)
	default:
		*n = 0
	}
	return nil
}

// Value implements driver.Valuer.
func (n Number) Value() (driver.Value, error) {
	return float64(n), nil
}

func finite(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Number(v)
}

// scanOpt converts a raw column value into an optional Number. NULL stays
// unset; anything else is coerced.
func scanOpt(src any) *Number {
	if src == nil {
		return nil
	}
	var n Number
	_ = n.Scan(src)
	return &n
}

// optValue is the driver value for an optional Number.
func optValue(n *Number) any {
	if n == nil {
		return nil
	}
	return float64(*n)
}
