package domain

import "testing"

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Currency
		wantErr bool
	}{
		{"eur lowercase", "eur", CurrencyEUR, false},
		{"usd uppercase", "USD", CurrencyUSD, false},
		{"gbp with spaces", " gbp ", CurrencyGBP, false},
		{"chf", "chf", CurrencyCHF, false},
		{"exotic but valid", "jpy", Currency("JPY"), false},
		{"empty", "", "", true},
		{"unknown code", "XYZ", "", true},
		{"not a code", "EURO", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCurrency(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCurrency(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePrimaryCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Currency
		wantErr bool
	}{
		{"eur", "EUR", CurrencyEUR, false},
		{"usd lowercase", "usd", CurrencyUSD, false},
		{"gbp not allowed", "GBP", "", true},
		{"invalid code", "???", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrimaryCurrency(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrimaryCurrency(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePrimaryCurrency(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
