package insight

import (
	"testing"

	"github.com/moneta-app/moneta/internal/domain"
)

func TestKeywordPegResolver(t *testing.T) {
	tests := []struct {
		name    string
		holding domain.CryptoHolding
		want    domain.Currency
	}{
		{"tether defaults to usd", domain.CryptoHolding{Ticker: "USDT", Name: "Tether"}, domain.CurrencyUSD},
		{"usdc defaults to usd", domain.CryptoHolding{Ticker: "USDC", Name: "USD Coin"}, domain.CurrencyUSD},
		{"eur in ticker", domain.CryptoHolding{Ticker: "EURS", Name: "STASIS EURO"}, domain.CurrencyEUR},
		{"eur in name only", domain.CryptoHolding{Ticker: "AGEUR", Name: "agEUR"}, domain.CurrencyEUR},
		{"gbp peg", domain.CryptoHolding{Ticker: "GBPT", Name: "poundtoken"}, domain.CurrencyGBP},
		{"chf peg lowercase name", domain.CryptoHolding{Ticker: "XCHF", Name: "CryptoFranc chf"}, domain.CurrencyCHF},
		{"no keywords", domain.CryptoHolding{Ticker: "DAI", Name: "Dai"}, domain.CurrencyUSD},
	}

	resolver := KeywordPegResolver{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolver.Peg(tt.holding); got != tt.want {
				t.Errorf("Peg(%s %q) = %s, want %s", tt.holding.Ticker, tt.holding.Name, got, tt.want)
			}
		})
	}
}
