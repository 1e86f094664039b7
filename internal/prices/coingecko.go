package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// CoinGeckoClient fetches crypto quotes from the CoinGecko API.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
	delay      time.Duration
	maxRetries int
}

// NewCoinGeckoClient creates a new CoinGecko API client.
func NewCoinGeckoClient(baseURL string, delay time.Duration, maxRetries int) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		delay:      delay,
		maxRetries: maxRetries,
	}
}

// FetchQuotes fetches USD and EUR prices with 24h changes for the given
// CoinGecko asset ids. Assets missing from the response are absent from
// the result.
func (c *CoinGeckoClient) FetchQuotes(ctx context.Context, assetIDs []string) (map[string]domain.CryptoQuote, error) {
	if len(assetIDs) == 0 {
		return map[string]domain.CryptoQuote{}, nil
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd,eur&include_24hr_change=true&include_last_updated_at=true",
		c.baseURL, strings.Join(assetIDs, ","))

	body, err := c.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	// Parse: {"bitcoin":{"usd":60000,"eur":55200,"usd_24h_change":2.0,"eur_24h_change":2.4,"last_updated_at":1755734400}}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing CoinGecko response: %w", err)
	}

	quotes := make(map[string]domain.CryptoQuote, len(raw))
	for _, id := range assetIDs {
		fields, ok := raw[id]
		if !ok {
			continue
		}
		quotes[id] = domain.CryptoQuote{
			AssetID:   id,
			PriceUSD:  decimal.NewFromFloat(fields["usd"]),
			PriceEUR:  decimal.NewFromFloat(fields["eur"]),
			ChangeUSD: decimal.NewFromFloat(fields["usd_24h_change"]),
			ChangeEUR: decimal.NewFromFloat(fields["eur_24h_change"]),
			UpdatedAt: time.Unix(int64(fields["last_updated_at"]), 0).UTC(),
		}
	}

	return quotes, nil
}

func (c *CoinGeckoClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.delay
			if baseDelay == 0 {
				baseDelay = 10 * time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating CoinGecko request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("CoinGecko request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading CoinGecko response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("CoinGecko rate limited (attempt %d/%d)", attempt+1, c.maxRetries+1)
			continue
		}

		return nil, fmt.Errorf("CoinGecko HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}
