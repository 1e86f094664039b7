package insight

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

func TestConvertToBase(t *testing.T) {
	rates := domain.RateTable{
		domain.CurrencyEUR: decimal.RequireFromString("0.92"),
		domain.CurrencyGBP: decimal.RequireFromString("0.79"),
	}

	tests := []struct {
		name   string
		amount string
		from   domain.Currency
		to     domain.Currency
		want   string
		wantOK bool
	}{
		{"same currency no lookup", "100", domain.CurrencyUSD, domain.CurrencyUSD, "100", true},
		{"eur to usd", "1000", domain.CurrencyEUR, domain.CurrencyUSD, "1086.9565217391304348", true},
		{"gbp to usd", "79", domain.CurrencyGBP, domain.CurrencyUSD, "100", true},
		{"missing rate", "100", domain.CurrencyCHF, domain.CurrencyUSD, "0", false},
		{"zero amount", "0", domain.CurrencyEUR, domain.CurrencyUSD, "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got, ok := convertToBase(amount, tt.from, tt.to, rates)
			if ok != tt.wantOK {
				t.Fatalf("convertToBase(%s, %s, %s) ok = %v, want %v", tt.amount, tt.from, tt.to, ok, tt.wantOK)
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("convertToBase(%s, %s, %s) = %s, want %s", tt.amount, tt.from, tt.to, got, want)
			}
		})
	}
}

func TestConvertToBaseZeroRate(t *testing.T) {
	rates := domain.RateTable{domain.CurrencyEUR: decimal.Zero}

	got, ok := convertToBase(decimal.NewFromInt(100), domain.CurrencyEUR, domain.CurrencyUSD, rates)
	if ok {
		t.Error("convertToBase with zero rate ok = true, want false")
	}
	if !got.IsZero() {
		t.Errorf("convertToBase with zero rate = %s, want 0", got)
	}
}

func TestConvertToBaseNilTable(t *testing.T) {
	got, ok := convertToBase(decimal.NewFromInt(100), domain.CurrencyEUR, domain.CurrencyUSD, nil)
	if ok {
		t.Error("convertToBase with nil table ok = true, want false")
	}
	if !got.IsZero() {
		t.Errorf("convertToBase with nil table = %s, want 0", got)
	}

	// Same-currency conversion needs no table at all.
	got, ok = convertToBase(decimal.NewFromInt(100), domain.CurrencyUSD, domain.CurrencyUSD, nil)
	if !ok || !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("convertToBase same currency with nil table = %s, %v, want 100, true", got, ok)
	}
}
