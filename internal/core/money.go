// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer paise/cents; decimal strings coming from
// forms or JSON are converted with half-up rounding on the third decimal.
package core

import (
	"bytes"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a positive magnitude in hundredths of the currency unit.
type Money struct {
	Cents int64
}

// MaxAmount is the largest amount a transaction may carry. Sums of many
// bounded amounts stay well inside int64 cents.
var MaxAmount = NewMoney(1_000_000_000_000)

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// NewMoney returns m for a whole-unit amount, e.g. NewMoney(2500) is 2500.00.
func NewMoney(units int64) Money {
	return Money{Cents: units * 100}
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmount.Cents {
		return ErrInvalidAmount
	}
	return nil
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount without trailing zeros ("2500", "12.5").
func (m Money) String() string {
	return m.Decimal().String()
}

// MoneyFromDecimal rounds d half-up to two places. d must fit in int64
// cents; use moneyFromDecimal for untrusted input.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Round(2).Shift(2).IntPart()}
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	c := d.Round(2).Shift(2)
	if c.GreaterThan(maxCents) || c.LessThan(minCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: c.IntPart()}, nil
}

// ParseMoney converts a decimal string to Money.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Signs, zero,
// amounts above MaxAmount and anything that is not a plain decimal are
// rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234 cents
//	ParseMoney("12,345") -> 1235 cents (half-up)
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m, err := moneyFromDecimal(d)
	if err != nil {
		return Money{}, err
	}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MarshalJSON encodes the amount as a JSON number in currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string. Values
// that do not fit in int64 cents are rejected here; the MaxAmount bound is
// left to Validate so that stored snapshots always load.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	v, err := moneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
