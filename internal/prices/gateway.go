package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// GatewayClient fetches equity quotes from the quote gateway API.
type GatewayClient struct {
	client *resty.Client
	apiKey string
}

// NewGatewayClient creates a new quote gateway client.
func NewGatewayClient(baseURL, apiKey string, timeout time.Duration) *GatewayClient {
	client := resty.New().
		SetTimeout(timeout).
		SetBaseURL(baseURL)
	return &GatewayClient{client: client, apiKey: apiKey}
}

type gatewayQuote struct {
	Symbol    string          `json:"symbol"`
	Currency  string          `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"changePercent24h"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FetchQuotes fetches quotes for the given tickers, keyed by ticker.
// Tickers missing from the response are absent from the result.
func (c *GatewayClient) FetchQuotes(ctx context.Context, tickers []string) (map[string]domain.EquityQuote, error) {
	if len(tickers) == 0 {
		return map[string]domain.EquityQuote{}, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("X-Api-Key", c.apiKey).
		SetQueryParam("symbols", strings.Join(tickers, ",")).
		Get("/v1/quotes")
	if err != nil {
		return nil, fmt.Errorf("requesting equity quotes: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quote gateway HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	var raw []gatewayQuote
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("parsing quote gateway response: %w", err)
	}

	quotes := make(map[string]domain.EquityQuote, len(raw))
	for _, q := range raw {
		currency, err := domain.ParseCurrency(q.Currency)
		if err != nil {
			slog.Warn("skipping equity quote with unknown currency",
				"ticker", q.Symbol, "currency", q.Currency)
			continue
		}
		ticker := strings.ToUpper(strings.TrimSpace(q.Symbol))
		quotes[ticker] = domain.EquityQuote{
			Ticker:    ticker,
			Currency:  currency,
			Price:     q.Price,
			Change24h: q.Change24h,
			UpdatedAt: q.UpdatedAt.UTC(),
		}
	}

	return quotes, nil
}
