package models

import (
	"github.com/shopspring/decimal"
)

// Money is a fixed-point amount. Line and order totals never pass through float64.
type Money = decimal.Decimal

func init() {
	// Clients expect plain JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// Zero is the additive identity for Money.
var Zero = decimal.Zero

// MustMoney parses a decimal literal and panics on malformed input. Meant for constants and tests.
func MustMoney(s string) Money {
	return decimal.RequireFromString(s)
}

// MoneyFromInt converts a whole amount.
func MoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}
