// Package fine computes overdue fines.
//
// Money is held in integer cents so that every amount has exact two-decimal precision.
package fine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Amount is a sum of money in cents.
type Amount int64

// String formats the amount with two decimals, e.g. "3.00".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses "3", "3.5" or "3.50", optionally with a leading minus.
// Both parts must be plain digits and at most two decimals are allowed.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	raw := s
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, dot := strings.Cut(s, ".")
	if !isDigits(whole) || len(frac) > 2 || (dot && !isDigits(frac)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	f, _ := strconv.ParseInt(frac, 10, 64)
	v := Amount(w*100 + f)
	if neg {
		v = -v
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Policy charges DailyRate for every calendar day past the due date.
type Policy struct {
	DailyRate Amount
}

// DefaultPolicy charges 1.00 per day.
var DefaultPolicy = Policy{DailyRate: 100}

// Date truncates t to its calendar date, keeping t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysOverdue is the number of whole calendar days asOf lies after due, never negative.
func DaysOverdue(due, asOf time.Time) int {
	dy, dm, dd := due.Date()
	ay, am, ad := asOf.Date()
	d := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	a := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	days := int(a.Sub(d).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Fine is DailyRate times the days overdue. Returning on the due date costs nothing.
func (p Policy) Fine(due, asOf time.Time) Amount {
	return p.DailyRate * Amount(DaysOverdue(due, asOf))
}
