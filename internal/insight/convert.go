package insight

import (
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// convertToBase converts a native amount into the base currency using a rate
// table anchored on that base, where each rate is units of the native
// currency per one base unit. A missing or zero rate makes the pair
// unconvertible: the second return is false and the caller must exclude the
// contribution instead of assuming a 1:1 rate.
func convertToBase(amount decimal.Decimal, from, to domain.Currency, rates domain.RateTable) (decimal.Decimal, bool) {
	if from == to {
		return amount, true
	}
	rate, ok := rates[from]
	if !ok || rate.IsZero() {
		return decimal.Zero, false
	}
	return amount.Div(rate), true
}
