// internal/domain/money.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// DateLayout is the calendar-date wire format for transaction dates.
// No time component, no time zone.
const DateLayout = "2006-01-02"

// ParseAmount parses a base-10 decimal string with at most two fractional
// digits. Amounts never round-trip through binary floating point.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return decimal.Decimal{}, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return d, nil
}

// ParsePositiveAmount parses an amount and requires it to be greater than zero.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("amount %q must be positive", s)
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatAmount renders a decimal as a two-fractional-digit string for the wire.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
