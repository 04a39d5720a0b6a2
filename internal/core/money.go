// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings and
// formatting whole-shilling values for display.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered amount string to whole shillings.
//
// It accepts thousands separators ("1,200") and an optional decimal part
// ("1200.49"), which is rounded half-up to the nearest shilling since KES is
// displayed with zero decimal places. The result must be positive.
//
// Examples:
//
//	ParseAmount("200")      -> 200, nil
//	ParseAmount("1,200")    -> 1200, nil
//	ParseAmount("199.50")   -> 200, nil (rounds up)
//	ParseAmount("199.49")   -> 199, nil (rounds down)
//	ParseAmount("0")        -> 0, ErrInvalidAmount
//	ParseAmount("-5")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed; kind carries the sign.
		return Money{}, ErrInvalidAmount
	}
	// Thousands separators are display sugar.
	s = strings.ReplaceAll(s, ",", "")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}

	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Half-up rounding on the first fractional digit.
	if len(fracPart) > 0 && fracPart[0] >= '5' {
		v++
	}
	if v <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Shillings: v}, nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Shillings: m.Shillings + o.Shillings}
}

// Sub returns m minus o. The result may be negative (a loss is a valid
// state, not an error).
func (m Money) Sub(o Money) Money {
	return Money{Shillings: m.Shillings - o.Shillings}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Shillings < 0
}

// FormatKES renders the amount as a zero-decimal KES string with thousands
// separators, e.g. "KES 1,200" or "-KES 350".
func (m Money) FormatKES() string {
	v := m.Shillings
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("KES ")
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
