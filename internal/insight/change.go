package insight

import (
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// fxChangePercent returns the 24h percent change attributable to currency
// movement for a position denominated in assetCurrency and valued in the
// primary currency. Only the EUR/USD cross is modeled: any other pair yields
// zero and the position's change stays native-only.
func fxChangePercent(assetCurrency, primary domain.Currency, eurUsdChange24h decimal.Decimal) decimal.Decimal {
	switch {
	case assetCurrency == primary:
		return decimal.Zero
	case primary == domain.CurrencyEUR && assetCurrency == domain.CurrencyUSD:
		return eurUsdChange24h.Neg()
	case primary == domain.CurrencyUSD && assetCurrency == domain.CurrencyEUR:
		return eurUsdChange24h
	}
	return decimal.Zero
}
