package portfolio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/holdings"
	"github.com/moneta-app/moneta/internal/insight"
	"github.com/moneta-app/moneta/internal/prices"
)

// HoldingsSource provides the stored positions.
type HoldingsSource interface {
	List(ctx context.Context) (holdings.Holdings, error)
}

// QuoteSource provides the latest known market data.
type QuoteSource interface {
	Quotes(ctx context.Context) (prices.QuoteSet, error)
}

// Service computes the portfolio summary from stored positions and the
// latest market data.
type Service struct {
	holdings HoldingsSource
	quotes   QuoteSource
	engine   *insight.Engine
	primary  domain.Currency
}

// NewService creates a new portfolio service.
func NewService(holdings HoldingsSource, quotes QuoteSource, engine *insight.Engine, primary domain.Currency) *Service {
	if holdings == nil {
		panic("portfolio.NewService: holdings is nil")
	}
	if quotes == nil {
		panic("portfolio.NewService: quotes is nil")
	}
	if engine == nil {
		panic("portfolio.NewService: engine is nil")
	}
	return &Service{
		holdings: holdings,
		quotes:   quotes,
		engine:   engine,
		primary:  primary,
	}
}

// Summary values every position against the latest known quotes.
func (s *Service) Summary(ctx context.Context) (domain.PortfolioSummary, error) {
	held, err := s.holdings.List(ctx)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("loading holdings: %w", err)
	}
	quotes, err := s.quotes.Quotes(ctx)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("loading quotes: %w", err)
	}

	summary := s.engine.Summarize(insight.Input{
		PrimaryCurrency: s.primary,
		Crypto:          held.Crypto,
		Equities:        held.Equities,
		Cash:            held.Cash,
		CryptoQuotes:    quotes.Crypto,
		EquityQuotes:    quotes.Equity,
		Rates:           quotes.Rates,
		EURUSDChange24h: quotes.EURUSDChange24h,
	})

	if len(summary.Warnings) > 0 {
		slog.Warn("summary computed with exclusions", "warnings", len(summary.Warnings))
	}
	return summary, nil
}
