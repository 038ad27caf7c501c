package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value stored in minor units (centavos).
type Money = int64

// ErrInvalidAmount is returned when a price string cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Parse converts a decimal string such as "25.00" into minor units.
// Fractions beyond two places are rounded half-up at the cent boundary;
// all arithmetic downstream is exact integer math, so this is the only
// point where rounding can occur.
func Parse(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("empty value: %w", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", value, ErrInvalidAmount)
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("parse %q: %w", value, ErrInvalidAmount)
	}
	return cents.IntPart(), nil
}

// MustParse behaves like Parse but panics on error. Useful for seeders and tests.
func MustParse(value string) Money {
	m, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Formatter renders Money as a fixed-locale display string. The same amount
// always formats identically; it is used for display only and never feeds
// back into arithmetic.
type Formatter struct {
	Symbol    string
	Decimal   string
	Thousands string
}

// DefaultBRL returns the Brazilian Real formatter used by the storefront.
func DefaultBRL() Formatter {
	return Formatter{Symbol: "R$", Decimal: ",", Thousands: "."}
}

// Format renders the amount with two decimal places, e.g. "R$ 1.234,50".
func (f Formatter) Format(amount Money) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	units := amount / 100
	cents := amount % 100

	digits := strconv.FormatInt(units, 10)
	var b strings.Builder
	if f.Symbol != "" {
		b.WriteString(f.Symbol)
		b.WriteByte(' ')
	}
	if negative {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(f.Thousands)
		}
		b.WriteRune(r)
	}
	b.WriteString(f.Decimal)
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(cents, 10))
	return b.String()
}
