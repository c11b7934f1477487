package domain

import "github.com/shopspring/decimal"

// PricePlaces is the number of currency minor-unit digits.
const PricePlaces = 2

// CurrencySymbol prefixes formatted prices.
const CurrencySymbol = "$"

// RoundPrice rounds a price to currency minor units.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(PricePlaces)
}

// FormatPrice renders a price the way the booking page shows it, e.g. "$35.50".
func FormatPrice(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(PricePlaces)
}
