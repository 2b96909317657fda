// Package core holds the domain model: accounts, transactions, budgets,
// goals, and the money helpers shared by every layer above storage.
package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format for calendar dates.
const DateLayout = "2006-01-02"

// ExportDateLayout is the human-readable format used by the CSV exporter.
const ExportDateLayout = "Jan 02, 2006"

// ParseAmount parses a positive monetary magnitude from user input.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds to two decimal places (half up). Zero and negative values are
// rejected; the sign of a stored amount is derived from the transaction
// type, never typed by the user.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseDate parses a calendar date in the storage layout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Today returns the current calendar date truncated to midnight.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthKey buckets a date by its stored calendar month and year. Bucketing
// deliberately uses the date as written, with no timezone normalization.
func MonthKey(t time.Time) string {
	return t.Format("Jan 2006")
}
