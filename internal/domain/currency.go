package domain

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is an uppercase ISO 4217 currency code.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
)

// ParseCurrency normalizes a currency code to uppercase and validates it
// against the ISO 4217 registry.
func ParseCurrency(code string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", fmt.Errorf("currency code is empty")
	}
	if money.GetCurrency(normalized) == nil {
		return "", fmt.Errorf("unknown currency code %q", code)
	}
	return Currency(normalized), nil
}

// ParsePrimaryCurrency validates the portfolio base currency.
// Only EUR and USD are supported as primary.
func ParsePrimaryCurrency(code string) (Currency, error) {
	c, err := ParseCurrency(code)
	if err != nil {
		return "", err
	}
	if c != CurrencyEUR && c != CurrencyUSD {
		return "", fmt.Errorf("primary currency must be EUR or USD, got %q", code)
	}
	return c, nil
}
