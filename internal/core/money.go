// Package core provides the expense domain types and money handling.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Amount bounds for a single expense, in cents.
const (
	MinAmountCents int64 = 1        // 0.01
	MaxAmountCents int64 = 99999999 // 999999.99
)

// amountPattern is the only accepted input shape: digits, optionally followed
// by a dot and one or two digits. No sign, no exponent, no thousands
// separators.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidAmountFormat reports whether s matches the accepted amount shape.
func ValidAmountFormat(s string) bool {
	return amountPattern.MatchString(s)
}

// ParseAmount converts an amount string to Money.
//
// It accepts only the strict decimal format and enforces the expense bounds
// (0.01 to 999999.99 inclusive). Unlike display formatting, parsing never
// rounds: a third fractional digit is a format error, not a rounding case.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if !ValidAmountFormat(s) {
		return Money{}, ErrInvalidAmount
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	// Anything longer than the maximum is out of bounds regardless of value.
	if len(strings.TrimLeft(intPart, "0")) > 6 {
		return Money{}, ErrInvalidAmount
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := iv * 100
	if len(fracPart) > 0 {
		cents += int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}

	if cents < MinAmountCents || cents > MaxAmountCents {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// Float64 returns the decimal value for aggregation results and JSON output.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with exactly two decimal places.
func (m Money) String() string {
	neg := ""
	cents := m.Cents
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", neg, cents/100, cents%100)
}
