package insight

import (
	"strings"

	"github.com/moneta-app/moneta/internal/domain"
)

// PegResolver infers the fiat currency a stablecoin is pegged to. The peg is
// used only for FX attribution and the currency-exposure breakdown, never
// for pricing.
type PegResolver interface {
	Peg(h domain.CryptoHolding) domain.Currency
}

// KeywordPegResolver resolves pegs by keyword matching on ticker and name:
// EUR, GBP and CHF substrings map to their currency, everything else
// defaults to USD.
type KeywordPegResolver struct{}

// Peg implements PegResolver.
func (KeywordPegResolver) Peg(h domain.CryptoHolding) domain.Currency {
	needle := strings.ToUpper(h.Ticker + " " + h.Name)
	switch {
	case strings.Contains(needle, "EUR"):
		return domain.CurrencyEUR
	case strings.Contains(needle, "GBP"):
		return domain.CurrencyGBP
	case strings.Contains(needle, "CHF"):
		return domain.CurrencyCHF
	}
	return domain.CurrencyUSD
}
