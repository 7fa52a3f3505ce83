// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; all persisted
// ledger columns are NUMERIC(15,2) and values are rounded with Round
// before they are written.
type Money = decimal.Decimal

// MoneyScale is the number of decimal places kept on persisted amounts.
const MoneyScale int32 = 2

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MoneyFromInt creates a Money value from an integer amount.
func MoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round rounds to ledger precision (2 dp, half away from zero).
// Every balance mutation passes through this so that the roll-forward
// identities hold exactly at 0.01 granularity.
func Round(m Money) Money {
	return m.Round(MoneyScale)
}

// Percent converts a rate expressed in percent (e.g. 20) to a fraction (0.2).
func Percent(rate Money) Money {
	return rate.Div(decimal.NewFromInt(100))
}
