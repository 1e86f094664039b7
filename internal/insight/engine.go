package insight

import (
	"github.com/moneta-app/moneta/internal/domain"
)

// Engine computes portfolio summaries. It holds no state beyond the peg
// resolution strategy: one Engine may be shared across goroutines, inputs
// are never mutated, and identical inputs produce identical outputs.
type Engine struct {
	pegs PegResolver
}

// NewEngine creates an Engine. A peg resolver may be supplied to replace the
// default keyword heuristic.
func NewEngine(pegs ...PegResolver) *Engine {
	e := &Engine{pegs: KeywordPegResolver{}}
	if len(pegs) > 0 && pegs[0] != nil {
		e.pegs = pegs[0]
	}
	return e
}

// Summarize runs one valuation-and-attribution pass over the input. Holdings
// without a usable quote or FX rate are excluded from every figure and
// reported in the warning list; routine data gaps never produce an error.
func (e *Engine) Summarize(in Input) domain.PortfolioSummary {
	cryptoRows, stableRows, cryptoWarnings := e.valueCrypto(in)
	equityRows, equityWarnings := valueEquities(in)
	fiatRows, cashWarnings := valueCash(in)

	// Stablecoins land in the cash bucket for every figure downstream.
	cashRows := make([]row, 0, len(fiatRows)+len(stableRows))
	cashRows = append(cashRows, fiatRows...)
	cashRows = append(cashRows, stableRows...)

	allRows := make([]row, 0, len(cryptoRows)+len(equityRows)+len(cashRows))
	allRows = append(allRows, cryptoRows...)
	allRows = append(allRows, equityRows...)
	allRows = append(allRows, cashRows...)

	cryptoValue, cryptoChange := classTotal(cryptoRows)
	stocksValue, stocksChange := classTotal(equityRows)
	cashValue, cashChange := classTotal(cashRows)
	totalValue, totalChange := classTotal(allRows)

	var warnings []string
	warnings = append(warnings, cryptoWarnings...)
	warnings = append(warnings, equityWarnings...)
	warnings = append(warnings, cashWarnings...)

	return domain.PortfolioSummary{
		PrimaryCurrency: in.PrimaryCurrency,
		TotalValue:      totalValue,
		CryptoValue:     cryptoValue,
		StocksValue:     stocksValue,
		CashValue:       cashValue,
		TotalChange:     totalChange,
		CryptoChange:    cryptoChange,
		StocksChange:    stocksChange,
		CashChange:      cashChange,
		Allocation: domain.Allocation{
			Crypto: domain.PercentShare(cryptoValue, totalValue),
			Stocks: domain.PercentShare(stocksValue, totalValue),
			Cash:   domain.PercentShare(cashValue, totalValue),
		},
		CryptoBreakdown:  cryptoBreakdown(cryptoRows, cryptoValue),
		StocksBreakdown:  equityBreakdown(equityRows, stocksValue),
		CashBreakdown:    cashBreakdown(fiatRows, stableRows, cashValue),
		CurrencyExposure: currencyExposure(cashRows, cashValue),
		Income:           incomeProjection(allRows),
		TopEquity:        topEquity(equityRows, stocksValue),
		DominantCrypto:   dominantCrypto(cryptoRows, cryptoValue),
		MinedStakedValue: minedStakedValue(cryptoRows, stableRows),
		Warnings:         warnings,
	}
}
