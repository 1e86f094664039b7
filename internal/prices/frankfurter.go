package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// FrankfurterClient fetches fiat exchange rates from the Frankfurter API.
type FrankfurterClient struct {
	client *resty.Client
}

// NewFrankfurterClient creates a new Frankfurter API client.
func NewFrankfurterClient(baseURL string, timeout time.Duration) *FrankfurterClient {
	client := resty.New().
		SetTimeout(timeout).
		SetBaseURL(baseURL)
	return &FrankfurterClient{client: client}
}

type ratesResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type timeseriesResponse struct {
	Base  string                                `json:"base"`
	Rates map[string]map[string]decimal.Decimal `json:"rates"`
}

// FetchRates returns how many units of each published currency one unit
// of base buys.
func (c *FrankfurterClient) FetchRates(ctx context.Context, base domain.Currency) (domain.RateTable, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("base", string(base)).
		Get("/v1/latest")
	if err != nil {
		return nil, fmt.Errorf("requesting fx rates: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("Frankfurter HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	var raw ratesResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("parsing fx rates response: %w", err)
	}

	table := make(domain.RateTable, len(raw.Rates))
	for code, rate := range raw.Rates {
		currency, err := domain.ParseCurrency(code)
		if err != nil {
			continue
		}
		table[currency] = rate
	}
	return table, nil
}

// FetchPairChange returns the percent move of the base/quote rate between
// the two most recent published days. The window is a week wide so
// weekends and holidays still leave two points.
func (c *FrankfurterClient) FetchPairChange(ctx context.Context, base, quote domain.Currency) (decimal.Decimal, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"base":    string(base),
			"symbols": string(quote),
		}).
		Get(fmt.Sprintf("/v1/%s..%s", start.Format("2006-01-02"), end.Format("2006-01-02")))
	if err != nil {
		return decimal.Zero, fmt.Errorf("requesting %s/%s history: %w", base, quote, err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("Frankfurter HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	var raw timeseriesResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s/%s history: %w", base, quote, err)
	}

	// ISO dates sort chronologically.
	dates := lo.Keys(raw.Rates)
	sort.Strings(dates)
	if len(dates) < 2 {
		return decimal.Zero, fmt.Errorf("not enough rate history for %s/%s", base, quote)
	}

	prev := raw.Rates[dates[len(dates)-2]][string(quote)]
	last := raw.Rates[dates[len(dates)-1]][string(quote)]
	if prev.IsZero() {
		return decimal.Zero, fmt.Errorf("zero %s/%s rate on %s", base, quote, dates[len(dates)-2])
	}

	return last.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)), nil
}
