package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFetchCryptoQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("vs_currencies"); got != "usd,eur" {
			t.Errorf("vs_currencies = %q, want %q", got, "usd,eur")
		}
		if got := r.URL.Query().Get("ids"); got != "bitcoin,ethereum" {
			t.Errorf("ids = %q, want %q", got, "bitcoin,ethereum")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bitcoin": {"usd": 60000, "eur": 55200, "usd_24h_change": 2.0, "eur_24h_change": 2.4, "last_updated_at": 1755734400},
			"ethereum": {"usd": 3000, "eur": 2760, "usd_24h_change": -1.5, "eur_24h_change": -1.1, "last_updated_at": 1755734400}
		}`))
	}))
	defer server.Close()

	client := NewCoinGeckoClient(server.URL, 0, 1)
	quotes, err := client.FetchQuotes(context.Background(), []string{"bitcoin", "ethereum"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	btc, ok := quotes["bitcoin"]
	if !ok {
		t.Fatal("bitcoin missing from quotes")
	}
	if !btc.PriceUSD.Equal(dec("60000")) {
		t.Errorf("bitcoin PriceUSD = %s, want 60000", btc.PriceUSD)
	}
	if !btc.PriceEUR.Equal(dec("55200")) {
		t.Errorf("bitcoin PriceEUR = %s, want 55200", btc.PriceEUR)
	}
	if !btc.ChangeEUR.Equal(dec("2.4")) {
		t.Errorf("bitcoin ChangeEUR = %s, want 2.4", btc.ChangeEUR)
	}
	if btc.UpdatedAt != time.Unix(1755734400, 0).UTC() {
		t.Errorf("bitcoin UpdatedAt = %v, want unix 1755734400", btc.UpdatedAt)
	}

	eth := quotes["ethereum"]
	if !eth.ChangeUSD.Equal(dec("-1.5")) {
		t.Errorf("ethereum ChangeUSD = %s, want -1.5", eth.ChangeUSD)
	}
}

func TestFetchCryptoQuotesSkipsUnknownIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin": {"usd": 60000, "eur": 55200}}`))
	}))
	defer server.Close()

	client := NewCoinGeckoClient(server.URL, 0, 1)
	quotes, err := client.FetchQuotes(context.Background(), []string{"bitcoin", "no-such-coin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("len(quotes) = %d, want 1", len(quotes))
	}
	if _, ok := quotes["no-such-coin"]; ok {
		t.Error("expected no-such-coin to be absent")
	}
}

func TestFetchCryptoQuotesEmptyUniverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty universe")
	}))
	defer server.Close()

	client := NewCoinGeckoClient(server.URL, 0, 1)
	quotes, err := client.FetchQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("len(quotes) = %d, want 0", len(quotes))
	}
}

func TestFetchCryptoQuotesRetryOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin": {"usd": 60000, "eur": 55200}}`))
	}))
	defer server.Close()

	client := NewCoinGeckoClient(server.URL, 10*time.Millisecond, 2)
	quotes, err := client.FetchQuotes(context.Background(), []string{"bitcoin"})
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if !quotes["bitcoin"].PriceUSD.Equal(dec("60000")) {
		t.Errorf("bitcoin PriceUSD = %s, want 60000", quotes["bitcoin"].PriceUSD)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestFetchCryptoQuotesContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := NewCoinGeckoClient(server.URL, 0, 1)
	_, err := client.FetchQuotes(ctx, []string{"bitcoin"})
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
