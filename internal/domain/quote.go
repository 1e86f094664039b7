package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CryptoQuote is a market quote for one crypto asset, carried in both anchor
// currencies so valuation in either primary never needs an FX conversion.
type CryptoQuote struct {
	AssetID   string          `json:"assetId"`
	PriceUSD  decimal.Decimal `json:"priceUsd"`
	PriceEUR  decimal.Decimal `json:"priceEur"`
	ChangeUSD decimal.Decimal `json:"changeUsd"` // 24h percent change, USD anchor
	ChangeEUR decimal.Decimal `json:"changeEur"` // 24h percent change, EUR anchor
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PriceIn returns the quote price in the given anchor currency.
func (q CryptoQuote) PriceIn(c Currency) (decimal.Decimal, bool) {
	switch c {
	case CurrencyUSD:
		return q.PriceUSD, true
	case CurrencyEUR:
		return q.PriceEUR, true
	}
	return decimal.Zero, false
}

// ChangeIn returns the 24h percent change in the given anchor currency.
func (q CryptoQuote) ChangeIn(c Currency) (decimal.Decimal, bool) {
	switch c {
	case CurrencyUSD:
		return q.ChangeUSD, true
	case CurrencyEUR:
		return q.ChangeEUR, true
	}
	return decimal.Zero, false
}

// EquityQuote is a market quote for one listed instrument in its single
// trading currency.
type EquityQuote struct {
	Ticker    string          `json:"ticker"`
	Currency  Currency        `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change24h"` // 24h percent change
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RateTable maps a currency code to its exchange rate expressed as units of
// that currency per one unit of the primary currency. The primary currency
// itself is implicitly 1 and never looked up.
type RateTable map[Currency]decimal.Decimal
