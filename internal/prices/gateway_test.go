package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
)

func TestFetchEquityQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q, want %q", got, "test-key")
		}
		if got := r.URL.Query().Get("symbols"); got != "AAPL,ASML" {
			t.Errorf("symbols = %q, want %q", got, "AAPL,ASML")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"symbol": "AAPL", "currency": "USD", "price": 180.5, "changePercent24h": -1.2, "updatedAt": "2026-08-21T15:30:00Z"},
			{"symbol": "asml", "currency": "EUR", "price": 800, "changePercent24h": 1.5, "updatedAt": "2026-08-21T15:30:00Z"}
		]`))
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "test-key", 5*time.Second)
	quotes, err := client.FetchQuotes(context.Background(), []string{"AAPL", "ASML"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aapl, ok := quotes["AAPL"]
	if !ok {
		t.Fatal("AAPL missing from quotes")
	}
	if aapl.Currency != domain.CurrencyUSD {
		t.Errorf("AAPL currency = %q, want USD", aapl.Currency)
	}
	if !aapl.Price.Equal(dec("180.5")) {
		t.Errorf("AAPL price = %s, want 180.5", aapl.Price)
	}
	if !aapl.Change24h.Equal(dec("-1.2")) {
		t.Errorf("AAPL change = %s, want -1.2", aapl.Change24h)
	}

	// Tickers are normalized to upper case.
	if _, ok := quotes["ASML"]; !ok {
		t.Error("expected lowercased symbol to be keyed as ASML")
	}
}

func TestFetchEquityQuotesSkipsUnknownCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"symbol": "AAPL", "currency": "USD", "price": 180, "changePercent24h": 0, "updatedAt": "2026-08-21T15:30:00Z"},
			{"symbol": "WEIRD", "currency": "XYZ", "price": 10, "changePercent24h": 0, "updatedAt": "2026-08-21T15:30:00Z"}
		]`))
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "", 5*time.Second)
	quotes, err := client.FetchQuotes(context.Background(), []string{"AAPL", "WEIRD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("len(quotes) = %d, want 1", len(quotes))
	}
	if _, ok := quotes["WEIRD"]; ok {
		t.Error("expected quote with unknown currency to be skipped")
	}
}

func TestFetchEquityQuotesEmptyUniverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty universe")
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "", 5*time.Second)
	quotes, err := client.FetchQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("len(quotes) = %d, want 0", len(quotes))
	}
}

func TestFetchEquityQuotesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "", 5*time.Second)
	if _, err := client.FetchQuotes(context.Background(), []string{"AAPL"}); err == nil {
		t.Fatal("expected error on HTTP 502")
	}
}
