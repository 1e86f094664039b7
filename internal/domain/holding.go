package domain

import "github.com/shopspring/decimal"

// CryptoHolding is a position in one crypto asset held at one venue.
type CryptoHolding struct {
	ID          int64             `json:"id"`
	AssetID     string            `json:"assetId"` // price provider identifier, e.g. "bitcoin"
	Ticker      string            `json:"ticker"`
	Name        string            `json:"name"`
	Subcategory Subcategory       `json:"subcategory"`
	Venue       string            `json:"venue"`
	Quantity    decimal.Decimal   `json:"quantity"`
	APY         decimal.Decimal   `json:"apy"`
	Acquisition AcquisitionMethod `json:"acquisition"`
}

// EquityHolding is a position in one listed instrument held at one venue.
type EquityHolding struct {
	ID       int64           `json:"id"`
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Category EquityCategory  `json:"category"`
	Subtype  string          `json:"subtype,omitempty"`
	Tags     []string        `json:"tags,omitempty"`
	Currency Currency        `json:"currency"`
	Venue    string          `json:"venue"`
	Quantity decimal.Decimal `json:"quantity"`
	APY      decimal.Decimal `json:"apy"`
}

// CashHolding is a fiat balance at a bank, exchange, or broker.
type CashHolding struct {
	ID       int64           `json:"id"`
	Label    string          `json:"label"`
	Kind     CashKind        `json:"kind"`
	Currency Currency        `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	APY      decimal.Decimal `json:"apy"`
}
