package insight

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCryptoBreakdownDominantVsRest(t *testing.T) {
	rows := []row{
		{label: "BTC", sub: "BTC", value: dec("60000")},
		{label: "ETH", sub: "ETH", value: dec("25000")},
		{label: "BTC", sub: "BTC", value: dec("10000")}, // second venue aggregates
		{label: "SOL", sub: "SOL", value: dec("5000")},
	}
	classValue := dec("100000")

	entries := cryptoBreakdown(rows, classValue)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	if entries[0].Label != "BTC" {
		t.Errorf("dominant label = %q, want BTC", entries[0].Label)
	}
	if !entries[0].Value.Equal(dec("70000")) {
		t.Errorf("dominant value = %s, want 70000", entries[0].Value)
	}
	if !entries[0].Percent.Equal(dec("70")) {
		t.Errorf("dominant percent = %s, want 70", entries[0].Percent)
	}

	rest := entries[1]
	if rest.Label != "other" {
		t.Errorf("rest label = %q, want other", rest.Label)
	}
	if !rest.Value.Equal(dec("30000")) {
		t.Errorf("rest value = %s, want 30000", rest.Value)
	}
	if len(rest.Entries) != 2 {
		t.Fatalf("len(rest.Entries) = %d, want 2", len(rest.Entries))
	}
	if rest.Entries[0].Label != "ETH" || rest.Entries[1].Label != "SOL" {
		t.Errorf("rest sub labels = %q, %q, want ETH, SOL", rest.Entries[0].Label, rest.Entries[1].Label)
	}
	// Sub-entry percent is relative to the parent bucket.
	if !rest.Entries[0].Percent.Round(4).Equal(dec("83.3333")) {
		t.Errorf("ETH percent of rest = %s, want 83.3333", rest.Entries[0].Percent.Round(4))
	}
}

func TestCryptoBreakdownSingleAsset(t *testing.T) {
	rows := []row{{label: "BTC", sub: "BTC", value: dec("50000")}}

	entries := cryptoBreakdown(rows, dec("50000"))
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Label != "BTC" || !entries[0].Percent.Equal(dec("100")) {
		t.Errorf("entry = %q %s%%, want BTC 100%%", entries[0].Label, entries[0].Percent)
	}
	if entries[0].Entries != nil {
		t.Errorf("single asset entries = %v, want nil", entries[0].Entries)
	}
}

func TestCryptoBreakdownEmpty(t *testing.T) {
	if entries := cryptoBreakdown(nil, decimal.Zero); len(entries) != 0 {
		t.Errorf("cryptoBreakdown(nil) = %v, want empty", entries)
	}
}

func TestEquityBreakdownCategoriesAndSubs(t *testing.T) {
	rows := []row{
		{label: "AAPL", sub: "tech", value: dec("4000"), category: domain.EquityCategoryStock},
		{label: "MSFT", sub: "tech", value: dec("3000"), category: domain.EquityCategoryStock},
		{label: "VWCE", sub: "world", value: dec("2000"), category: domain.EquityCategoryETF},
		{label: "SAP", sub: "enterprise", value: dec("1000"), category: domain.EquityCategoryStock},
	}

	entries := equityBreakdown(rows, dec("10000"))
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	if entries[0].Label != "stock" || !entries[0].Value.Equal(dec("8000")) {
		t.Errorf("entries[0] = %q %s, want stock 8000", entries[0].Label, entries[0].Value)
	}
	if !entries[0].Percent.Equal(dec("80")) {
		t.Errorf("stock percent = %s, want 80", entries[0].Percent)
	}
	if len(entries[0].Entries) != 2 {
		t.Fatalf("stock sub entries = %d, want 2", len(entries[0].Entries))
	}
	if entries[0].Entries[0].Label != "tech" {
		t.Errorf("largest stock sub = %q, want tech", entries[0].Entries[0].Label)
	}

	// One distinct sub-label only: no nesting.
	if entries[1].Label != "etf" {
		t.Errorf("entries[1] = %q, want etf", entries[1].Label)
	}
	if entries[1].Entries != nil {
		t.Errorf("etf entries = %v, want nil", entries[1].Entries)
	}
}

func TestCashBreakdownStablecoinBucket(t *testing.T) {
	fiat := []row{
		{label: "N26", sub: "N26", value: dec("5000"), kind: domain.CashKindBank},
		{label: "Revolut", sub: "Revolut", value: dec("1000"), kind: domain.CashKindBank},
		{label: "Kraken", sub: "Kraken", value: dec("500"), kind: domain.CashKindExchange},
	}
	stables := []row{
		{label: "USDT", sub: "USDT", value: dec("2000")},
		{label: "USDC", sub: "USDC", value: dec("1500")},
	}

	entries := cashBreakdown(fiat, stables, dec("10000"))
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	if entries[0].Label != "bank" || !entries[0].Value.Equal(dec("6000")) {
		t.Errorf("entries[0] = %q %s, want bank 6000", entries[0].Label, entries[0].Value)
	}
	if len(entries[0].Entries) != 2 {
		t.Errorf("bank sub entries = %d, want 2", len(entries[0].Entries))
	}
	if entries[1].Label != "stablecoin" || !entries[1].Value.Equal(dec("3500")) {
		t.Errorf("entries[1] = %q %s, want stablecoin 3500", entries[1].Label, entries[1].Value)
	}
	if entries[2].Label != "exchange" {
		t.Errorf("entries[2] = %q, want exchange", entries[2].Label)
	}
	if entries[2].Entries != nil {
		t.Errorf("exchange entries = %v, want nil", entries[2].Entries)
	}
}

func TestCurrencyExposure(t *testing.T) {
	rows := []row{
		{currency: domain.CurrencyEUR, value: dec("4000")},
		{currency: domain.CurrencyUSD, value: dec("3500")}, // stablecoin peg
		{currency: domain.CurrencyEUR, value: dec("1000")},
		{currency: domain.CurrencyGBP, value: dec("0")}, // dropped
	}

	exposures := currencyExposure(rows, dec("8500"))
	if len(exposures) != 2 {
		t.Fatalf("len(exposures) = %d, want 2", len(exposures))
	}
	if exposures[0].Currency != domain.CurrencyEUR || !exposures[0].Value.Equal(dec("5000")) {
		t.Errorf("exposures[0] = %s %s, want EUR 5000", exposures[0].Currency, exposures[0].Value)
	}
	if exposures[1].Currency != domain.CurrencyUSD || !exposures[1].Value.Equal(dec("3500")) {
		t.Errorf("exposures[1] = %s %s, want USD 3500", exposures[1].Currency, exposures[1].Value)
	}
}

func TestIncomeProjection(t *testing.T) {
	rows := []row{
		{value: dec("1000"), apy: decimal.Zero},
		{value: dec("1000"), apy: dec("5")},
	}

	income := incomeProjection(rows)
	if !income.WeightedAvgAPY.Equal(dec("5")) {
		t.Errorf("WeightedAvgAPY = %s, want 5", income.WeightedAvgAPY)
	}
	if !income.BearingValue.Equal(dec("1000")) {
		t.Errorf("BearingValue = %s, want 1000", income.BearingValue)
	}
	if !income.Yearly.Equal(dec("50")) {
		t.Errorf("Yearly = %s, want 50", income.Yearly)
	}
	if !income.Monthly.Round(6).Equal(dec("4.166667")) {
		t.Errorf("Monthly = %s, want 4.166667", income.Monthly.Round(6))
	}
	if !income.Daily.Round(6).Equal(dec("0.136986")) {
		t.Errorf("Daily = %s, want 0.136986", income.Daily.Round(6))
	}
}

func TestIncomeProjectionNoBearingHoldings(t *testing.T) {
	rows := []row{{value: dec("1000")}, {value: dec("2000")}}

	income := incomeProjection(rows)
	if !income.WeightedAvgAPY.IsZero() || !income.Yearly.IsZero() || !income.BearingValue.IsZero() {
		t.Errorf("income on zero-apy rows = %+v, want zeros", income)
	}
}

func TestTopEquity(t *testing.T) {
	rows := []row{
		{label: "AAPL", value: dec("4000")},
		{label: "MSFT", value: dec("6000")},
		{label: "SAP", value: dec("2000")},
	}

	top := topEquity(rows, dec("12000"))
	if top == nil {
		t.Fatal("topEquity returned nil")
	}
	if top.Label != "MSFT" || !top.Value.Equal(dec("6000")) {
		t.Errorf("top = %q %s, want MSFT 6000", top.Label, top.Value)
	}
	if !top.Percent.Equal(dec("50")) {
		t.Errorf("top percent = %s, want 50", top.Percent)
	}

	if got := topEquity(nil, decimal.Zero); got != nil {
		t.Errorf("topEquity(nil) = %v, want nil", got)
	}
}

func TestDominantCryptoAggregatesVenues(t *testing.T) {
	rows := []row{
		{label: "ETH", value: dec("3000")},
		{label: "BTC", value: dec("2000")},
		{label: "BTC", value: dec("2500")},
	}

	top := dominantCrypto(rows, dec("7500"))
	if top == nil {
		t.Fatal("dominantCrypto returned nil")
	}
	if top.Label != "BTC" || !top.Value.Equal(dec("4500")) {
		t.Errorf("dominant = %q %s, want BTC 4500", top.Label, top.Value)
	}
	if !top.Percent.Equal(dec("60")) {
		t.Errorf("dominant percent = %s, want 60", top.Percent)
	}

	if got := dominantCrypto(nil, decimal.Zero); got != nil {
		t.Errorf("dominantCrypto(nil) = %v, want nil", got)
	}
}

func TestMinedStakedValue(t *testing.T) {
	cryptoRows := []row{
		{value: dec("1000"), earned: true},
		{value: dec("2000")},
	}
	stableRows := []row{
		{value: dec("300"), earned: true},
	}

	got := minedStakedValue(cryptoRows, stableRows)
	if !got.Equal(dec("1300")) {
		t.Errorf("minedStakedValue = %s, want 1300", got)
	}

	if got := minedStakedValue(nil, nil); !got.IsZero() {
		t.Errorf("minedStakedValue(nil, nil) = %s, want 0", got)
	}
}
