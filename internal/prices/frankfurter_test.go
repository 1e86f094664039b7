package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
)

func TestFetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("base"); got != "USD" {
			t.Errorf("base = %q, want USD", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base": "USD", "date": "2026-08-21", "rates": {"EUR": 0.92, "GBP": 0.79, "CHF": 0.88}}`))
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL, 5*time.Second)
	rates, err := client.FetchRates(context.Background(), domain.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rates[domain.CurrencyEUR].Equal(dec("0.92")) {
		t.Errorf("EUR rate = %s, want 0.92", rates[domain.CurrencyEUR])
	}
	if !rates[domain.CurrencyGBP].Equal(dec("0.79")) {
		t.Errorf("GBP rate = %s, want 0.79", rates[domain.CurrencyGBP])
	}
	if len(rates) != 3 {
		t.Errorf("len(rates) = %d, want 3", len(rates))
	}
}

func TestFetchPairChange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "..") {
			t.Errorf("expected interval path, got %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("base"); got != "EUR" {
			t.Errorf("base = %q, want EUR", got)
		}
		if got := r.URL.Query().Get("symbols"); got != "USD" {
			t.Errorf("symbols = %q, want USD", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base": "EUR", "rates": {
			"2026-08-18": {"USD": 1.07},
			"2026-08-20": {"USD": 1.08},
			"2026-08-21": {"USD": 1.0854}
		}}`))
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL, 5*time.Second)
	change, err := client.FetchPairChange(context.Background(), domain.CurrencyEUR, domain.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// (1.0854 - 1.08) / 1.08 * 100
	if !change.Equal(dec("0.5")) {
		t.Errorf("change = %s, want 0.5", change)
	}
}

func TestFetchPairChangeNotEnoughHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base": "EUR", "rates": {"2026-08-21": {"USD": 1.0854}}}`))
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL, 5*time.Second)
	if _, err := client.FetchPairChange(context.Background(), domain.CurrencyEUR, domain.CurrencyUSD); err == nil {
		t.Fatal("expected error with a single published day")
	}
}
