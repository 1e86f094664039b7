package insight

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// row is one priced position normalized into the primary currency. The
// native and fx fields are 24h percent changes; a position's total change
// is their linear sum. For stablecoins the native field is the residual of
// the primary-currency quote change after the peg FX exposure is carved out,
// so the decomposition stays additive.
type row struct {
	label    string          // breakdown label: ticker or cash label
	sub      string          // nested breakdown label
	currency domain.Currency // FX-exposure currency, peg for stablecoins
	value    decimal.Decimal
	native   decimal.Decimal
	fx       decimal.Decimal
	apy      decimal.Decimal
	earned   bool                  // mined or staked
	category domain.EquityCategory // set on equity rows
	kind     domain.CashKind       // set on fiat cash rows
}

// valueCrypto prices crypto holdings off the matching-primary-currency quote
// directly, never through an FX conversion. Stablecoin-tagged holdings come
// back in the second slice for reclassification into cash.
func (e *Engine) valueCrypto(in Input) (cryptoRows, stableRows []row, warnings []string) {
	for _, h := range in.Crypto {
		quote, ok := in.CryptoQuotes[h.AssetID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("crypto %s (%s): no quote, excluded from totals", h.Ticker, h.AssetID))
			continue
		}
		price, okPrice := quote.PriceIn(in.PrimaryCurrency)
		change, okChange := quote.ChangeIn(in.PrimaryCurrency)
		if !okPrice || !okChange {
			warnings = append(warnings, fmt.Sprintf("crypto %s (%s): no %s quote, excluded from totals", h.Ticker, h.AssetID, in.PrimaryCurrency))
			continue
		}

		r := row{
			label:  h.Ticker,
			sub:    h.Ticker,
			value:  h.Quantity.Mul(price),
			native: change,
			apy:    h.APY,
			earned: h.Acquisition.MinedOrStaked(),
		}
		if h.Subcategory == domain.SubcategoryStablecoin {
			peg := e.pegs.Peg(h)
			r.currency = peg
			r.fx = fxChangePercent(peg, in.PrimaryCurrency, in.EURUSDChange24h)
			// The primary-currency quote already embeds the FX move; the
			// residual after carving it out is peg noise.
			r.native = change.Sub(r.fx)
			stableRows = append(stableRows, r)
			continue
		}
		cryptoRows = append(cryptoRows, r)
	}
	return cryptoRows, stableRows, warnings
}

// valueEquities converts each position's native market value into the
// primary currency and attributes its change across native and FX parts.
func valueEquities(in Input) (rows []row, warnings []string) {
	for _, h := range in.Equities {
		quote, ok := in.EquityQuotes[h.Ticker]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("equity %s: no quote, excluded from totals", h.Ticker))
			continue
		}
		value, ok := convertToBase(h.Quantity.Mul(quote.Price), quote.Currency, in.PrimaryCurrency, in.Rates)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("equity %s: no %s rate, excluded from totals", h.Ticker, quote.Currency))
			continue
		}
		rows = append(rows, row{
			label:    h.Ticker,
			sub:      equitySubLabel(h),
			currency: quote.Currency,
			value:    value,
			native:   quote.Change24h,
			fx:       fxChangePercent(quote.Currency, in.PrimaryCurrency, in.EURUSDChange24h),
			apy:      h.APY,
			category: h.Category,
		})
	}
	return rows, warnings
}

// valueCash converts fiat balances into the primary currency. Cash has no
// native return; its whole 24h change is FX exposure.
func valueCash(in Input) (rows []row, warnings []string) {
	for _, h := range in.Cash {
		value, ok := convertToBase(h.Amount, h.Currency, in.PrimaryCurrency, in.Rates)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("cash %s: no %s rate, excluded from totals", h.Label, h.Currency))
			continue
		}
		rows = append(rows, row{
			label:    h.Label,
			sub:      h.Label,
			currency: h.Currency,
			value:    value,
			fx:       fxChangePercent(h.Currency, in.PrimaryCurrency, in.EURUSDChange24h),
			apy:      h.APY,
			kind:     h.Kind,
		})
	}
	return rows, warnings
}

// equitySubLabel picks the nested breakdown label for an equity position:
// subtype when set, else the first tag, else the ticker.
func equitySubLabel(h domain.EquityHolding) string {
	if h.Subtype != "" {
		return h.Subtype
	}
	if len(h.Tags) > 0 {
		return h.Tags[0]
	}
	return h.Ticker
}

// classTotal sums a row set's value and decomposes its 24h change into
// absolute, percent, and the FX-only sub-components.
func classTotal(rows []row) (decimal.Decimal, domain.ValueChange) {
	value := sumValues(rows)
	absolute := lo.Reduce(rows, func(acc decimal.Decimal, r row, _ int) decimal.Decimal {
		return domain.SafeSum(acc, domain.PercentOf(r.value, r.native.Add(r.fx)))
	}, decimal.Zero)
	fxAbsolute := lo.Reduce(rows, func(acc decimal.Decimal, r row, _ int) decimal.Decimal {
		return domain.SafeSum(acc, domain.PercentOf(r.value, r.fx))
	}, decimal.Zero)
	return value, domain.ValueChange{
		Absolute:   absolute,
		Percent:    domain.PercentShare(absolute, value),
		FXAbsolute: fxAbsolute,
		FXPercent:  domain.PercentShare(fxAbsolute, value),
	}
}

func sumValues(rows []row) decimal.Decimal {
	return lo.Reduce(rows, func(acc decimal.Decimal, r row, _ int) decimal.Decimal {
		return domain.SafeSum(acc, r.value)
	}, decimal.Zero)
}
