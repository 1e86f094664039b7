package insight

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// groupEntries aggregates row values by label into entries sorted by value
// descending, percent relative to parentValue. Ties break on label so the
// output is deterministic.
func groupEntries(rows []row, parentValue decimal.Decimal, labelOf func(row) string) []domain.BreakdownEntry {
	groups := lo.GroupBy(rows, labelOf)
	entries := make([]domain.BreakdownEntry, 0, len(groups))
	for label, group := range groups {
		value := sumValues(group)
		entries = append(entries, domain.BreakdownEntry{
			Label:   label,
			Value:   value,
			Percent: domain.PercentShare(value, parentValue),
		})
	}
	sortEntries(entries)
	return entries
}

// subEntries attaches nested entries only when the group spans more than one
// distinct sub-label.
func subEntries(group []row, parentValue decimal.Decimal, labelOf func(row) string) []domain.BreakdownEntry {
	subs := groupEntries(group, parentValue, labelOf)
	if len(subs) <= 1 {
		return nil
	}
	return subs
}

func sortEntries(entries []domain.BreakdownEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Value.Equal(entries[j].Value) {
			return entries[i].Value.GreaterThan(entries[j].Value)
		}
		return entries[i].Label < entries[j].Label
	})
}

// cryptoBreakdown renders the largest single asset against the rest of the
// class, the rest broken out per ticker when it spans more than one.
func cryptoBreakdown(rows []row, classValue decimal.Decimal) []domain.BreakdownEntry {
	byAsset := groupEntries(rows, classValue, func(r row) string { return r.label })
	if len(byAsset) <= 1 {
		return byAsset
	}
	dominant := byAsset[0]
	restRows := lo.Filter(rows, func(r row, _ int) bool { return r.label != dominant.Label })
	restValue := sumValues(restRows)
	rest := domain.BreakdownEntry{
		Label:   "other",
		Value:   restValue,
		Percent: domain.PercentShare(restValue, classValue),
		Entries: subEntries(restRows, restValue, func(r row) string { return r.sub }),
	}
	return []domain.BreakdownEntry{dominant, rest}
}

// equityBreakdown groups equity positions by category with sub-entries by
// subtype, primary tag, or ticker.
func equityBreakdown(rows []row, classValue decimal.Decimal) []domain.BreakdownEntry {
	if len(rows) == 0 {
		return nil
	}
	groups := lo.GroupBy(rows, func(r row) domain.EquityCategory { return r.category })
	entries := make([]domain.BreakdownEntry, 0, len(groups))
	for category, group := range groups {
		value := sumValues(group)
		entries = append(entries, domain.BreakdownEntry{
			Label:   string(category),
			Value:   value,
			Percent: domain.PercentShare(value, classValue),
			Entries: subEntries(group, value, func(r row) string { return r.sub }),
		})
	}
	sortEntries(entries)
	return entries
}

// cashBreakdown groups fiat cash by kind, with reclassified stablecoins as
// their own bucket, sub-entries per holding label or ticker.
func cashBreakdown(fiatRows, stableRows []row, classValue decimal.Decimal) []domain.BreakdownEntry {
	if len(fiatRows)+len(stableRows) == 0 {
		return nil
	}
	groups := lo.GroupBy(fiatRows, func(r row) domain.CashKind { return r.kind })
	entries := make([]domain.BreakdownEntry, 0, len(groups)+1)
	for kind, group := range groups {
		value := sumValues(group)
		entries = append(entries, domain.BreakdownEntry{
			Label:   string(kind),
			Value:   value,
			Percent: domain.PercentShare(value, classValue),
			Entries: subEntries(group, value, func(r row) string { return r.sub }),
		})
	}
	if len(stableRows) > 0 {
		value := sumValues(stableRows)
		entries = append(entries, domain.BreakdownEntry{
			Label:   "stablecoin",
			Value:   value,
			Percent: domain.PercentShare(value, classValue),
			Entries: subEntries(stableRows, value, func(r row) string { return r.sub }),
		})
	}
	sortEntries(entries)
	return entries
}

// currencyExposure merges cash-class value per currency code, stablecoins
// bucketed under their peg. Entries with no positive value are dropped.
func currencyExposure(cashRows []row, cashValue decimal.Decimal) []domain.CurrencyExposure {
	groups := lo.GroupBy(cashRows, func(r row) domain.Currency { return r.currency })
	exposures := make([]domain.CurrencyExposure, 0, len(groups))
	for currency, group := range groups {
		value := sumValues(group)
		if !value.IsPositive() {
			continue
		}
		exposures = append(exposures, domain.CurrencyExposure{
			Currency: currency,
			Value:    value,
			Percent:  domain.PercentShare(value, cashValue),
		})
	}
	sort.Slice(exposures, func(i, j int) bool {
		if !exposures[i].Value.Equal(exposures[j].Value) {
			return exposures[i].Value.GreaterThan(exposures[j].Value)
		}
		return exposures[i].Currency < exposures[j].Currency
	})
	return exposures
}

// incomeProjection computes the value-weighted average APY over APY-bearing
// holdings only, so zero-yield positions do not dilute the average.
func incomeProjection(rows []row) domain.IncomeProjection {
	bearing := lo.Filter(rows, func(r row, _ int) bool { return r.apy.IsPositive() })
	if len(bearing) == 0 {
		return domain.IncomeProjection{}
	}
	bearingValue := sumValues(bearing)
	yearly := lo.Reduce(bearing, func(acc decimal.Decimal, r row, _ int) decimal.Decimal {
		return domain.SafeSum(acc, domain.PercentOf(r.value, r.apy))
	}, decimal.Zero)
	return domain.IncomeProjection{
		WeightedAvgAPY: domain.PercentShare(yearly, bearingValue),
		BearingValue:   bearingValue,
		Yearly:         yearly,
		Monthly:        yearly.Div(decimal.NewFromInt(12)),
		Daily:          yearly.Div(decimal.NewFromInt(365)),
	}
}

// topEquity tracks the maximum-value equity position in one linear pass.
func topEquity(rows []row, classValue decimal.Decimal) *domain.TopHolding {
	if len(rows) == 0 {
		return nil
	}
	top := rows[0]
	for _, r := range rows[1:] {
		if r.value.GreaterThan(top.value) {
			top = r
		}
	}
	return &domain.TopHolding{
		Label:   top.label,
		Value:   top.value,
		Percent: domain.PercentShare(top.value, classValue),
	}
}

// dominantCrypto reports the share of crypto value held in the class's
// largest single asset, positions aggregated across venues.
func dominantCrypto(rows []row, classValue decimal.Decimal) *domain.TopHolding {
	if len(rows) == 0 {
		return nil
	}
	entries := groupEntries(rows, classValue, func(r row) string { return r.label })
	top := entries[0]
	return &domain.TopHolding{Label: top.Label, Value: top.Value, Percent: top.Percent}
}

// minedStakedValue sums crypto-origin positions acquired by mining or
// staking, reclassified stablecoins included.
func minedStakedValue(cryptoRows, stableRows []row) decimal.Decimal {
	value := sumValues(lo.Filter(cryptoRows, earnedRow))
	return domain.SafeSum(value, sumValues(lo.Filter(stableRows, earnedRow)))
}

func earnedRow(r row, _ int) bool { return r.earned }
