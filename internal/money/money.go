// Package money converts between user-entered decimal amounts and integer
// minor currency units.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(1 << 53)
)

// ParseCents parses a decimal string such as "12.5" and returns the amount in
// cents, rounded half away from zero. Empty or non-numeric input returns an
// error.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents := d.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents as a fixed two-decimal string, e.g. 1250 -> "12.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
