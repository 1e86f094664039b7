package insight

import (
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// Input carries everything one summary computation needs. The engine only
// reads it; callers own the collections.
type Input struct {
	PrimaryCurrency domain.Currency
	Crypto          []domain.CryptoHolding
	Equities        []domain.EquityHolding
	Cash            []domain.CashHolding
	CryptoQuotes    map[string]domain.CryptoQuote // keyed by provider asset id
	EquityQuotes    map[string]domain.EquityQuote // keyed by ticker
	Rates           domain.RateTable
	EURUSDChange24h decimal.Decimal // 24h percent change of the EUR/USD cross rate
}
