package domain

import "github.com/shopspring/decimal"

// ValueChange holds the absolute and percentage 24h movement of a value,
// with the FX-only sub-component of each figure.
type ValueChange struct {
	Absolute   decimal.Decimal `json:"absolute"`
	Percent    decimal.Decimal `json:"percent"`
	FXAbsolute decimal.Decimal `json:"fxAbsolute"`
	FXPercent  decimal.Decimal `json:"fxPercent"`
}

// Allocation holds per-class shares of the total portfolio value, in percent.
type Allocation struct {
	Crypto decimal.Decimal `json:"crypto"`
	Stocks decimal.Decimal `json:"stocks"`
	Cash   decimal.Decimal `json:"cash"`
}

// BreakdownEntry is a labeled value/percent record, optionally carrying
// nested sub-entries.
type BreakdownEntry struct {
	Label   string           `json:"label"`
	Value   decimal.Decimal  `json:"value"`
	Percent decimal.Decimal  `json:"percent"`
	Entries []BreakdownEntry `json:"entries,omitempty"`
}

// CurrencyExposure is the portion of cash-class value held in one currency,
// stablecoins counted under their peg.
type CurrencyExposure struct {
	Currency Currency        `json:"currency"`
	Value    decimal.Decimal `json:"value"`
	Percent  decimal.Decimal `json:"percent"`
}

// IncomeProjection holds the weighted-APY yield metrics over the
// APY-bearing subset of holdings.
type IncomeProjection struct {
	WeightedAvgAPY decimal.Decimal `json:"weightedAvgApy"`
	BearingValue   decimal.Decimal `json:"bearingValue"`
	Yearly         decimal.Decimal `json:"yearly"`
	Monthly        decimal.Decimal `json:"monthly"`
	Daily          decimal.Decimal `json:"daily"`
}

// TopHolding identifies the largest single position of a class and its
// share of that class's value.
type TopHolding struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

// PortfolioSummary is the full valuation-and-attribution output for one
// computation pass. All monetary figures are in the primary currency.
type PortfolioSummary struct {
	PrimaryCurrency Currency        `json:"primaryCurrency"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	CryptoValue     decimal.Decimal `json:"cryptoValue"`
	StocksValue     decimal.Decimal `json:"stocksValue"`
	CashValue       decimal.Decimal `json:"cashValue"`

	TotalChange  ValueChange `json:"totalChange"`
	CryptoChange ValueChange `json:"cryptoChange"`
	StocksChange ValueChange `json:"stocksChange"`
	CashChange   ValueChange `json:"cashChange"`

	Allocation       Allocation         `json:"allocation"`
	CryptoBreakdown  []BreakdownEntry   `json:"cryptoBreakdown,omitempty"`
	StocksBreakdown  []BreakdownEntry   `json:"stocksBreakdown,omitempty"`
	CashBreakdown    []BreakdownEntry   `json:"cashBreakdown,omitempty"`
	CurrencyExposure []CurrencyExposure `json:"currencyExposure,omitempty"`

	Income           IncomeProjection `json:"income"`
	TopEquity        *TopHolding      `json:"topEquity,omitempty"`
	DominantCrypto   *TopHolding      `json:"dominantCrypto,omitempty"`
	MinedStakedValue decimal.Decimal  `json:"minedStakedValue"`

	Warnings []string `json:"warnings,omitempty"`
}
