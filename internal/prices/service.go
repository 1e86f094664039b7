package prices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

const eurUsdPair = "EURUSD"

// CryptoProvider fetches spot quotes for crypto assets.
type CryptoProvider interface {
	FetchQuotes(ctx context.Context, assetIDs []string) (map[string]domain.CryptoQuote, error)
}

// EquityProvider fetches spot quotes for listed equities.
type EquityProvider interface {
	FetchQuotes(ctx context.Context, tickers []string) (map[string]domain.EquityQuote, error)
}

// FXProvider fetches fiat exchange rates.
type FXProvider interface {
	FetchRates(ctx context.Context, base domain.Currency) (domain.RateTable, error)
	FetchPairChange(ctx context.Context, base, quote domain.Currency) (decimal.Decimal, error)
}

// UniverseSource lists the identifiers quotes are needed for.
type UniverseSource interface {
	Universe(ctx context.Context) (assetIDs, tickers []string, err error)
}

// Cache keeps the latest quote sets between refreshes.
type Cache interface {
	GetCryptoQuotes(ctx context.Context) (map[string]domain.CryptoQuote, error)
	SetCryptoQuotes(ctx context.Context, quotes map[string]domain.CryptoQuote) error
	GetEquityQuotes(ctx context.Context) (map[string]domain.EquityQuote, error)
	SetEquityQuotes(ctx context.Context, quotes map[string]domain.EquityQuote) error
	GetFX(ctx context.Context) (FXData, error)
	SetFX(ctx context.Context, fx FXData) error
}

// QuoteSet is everything a portfolio summary needs from the market.
type QuoteSet struct {
	Crypto          map[string]domain.CryptoQuote
	Equity          map[string]domain.EquityQuote
	Rates           domain.RateTable
	EURUSDChange24h decimal.Decimal
}

// Service refreshes market data from the providers and serves the latest
// known set, preferring the cache and falling back to the database.
type Service struct {
	universe UniverseSource
	crypto   CryptoProvider
	equity   EquityProvider
	fx       FXProvider
	repo     Repository
	cache    Cache
	primary  domain.Currency
}

// NewService creates a new market data service.
func NewService(universe UniverseSource, crypto CryptoProvider, equity EquityProvider, fx FXProvider, repo Repository, cache Cache, primary domain.Currency) *Service {
	if universe == nil {
		panic("prices.NewService: universe is nil")
	}
	if crypto == nil {
		panic("prices.NewService: crypto provider is nil")
	}
	if equity == nil {
		panic("prices.NewService: equity provider is nil")
	}
	if fx == nil {
		panic("prices.NewService: fx provider is nil")
	}
	if repo == nil {
		panic("prices.NewService: repo is nil")
	}
	if cache == nil {
		panic("prices.NewService: cache is nil")
	}
	return &Service{
		universe: universe,
		crypto:   crypto,
		equity:   equity,
		fx:       fx,
		repo:     repo,
		cache:    cache,
		primary:  primary,
	}
}

// RefreshAll pulls fresh quotes for every held asset and stores them in
// the database and the cache. The three sources are fetched concurrently
// and failures are collected, so one provider going down does not block
// the others.
func (s *Service) RefreshAll(ctx context.Context) error {
	assetIDs, tickers, err := s.universe.Universe(ctx)
	if err != nil {
		return fmt.Errorf("loading quote universe: %w", err)
	}

	var mu sync.Mutex
	var errs []error
	var wg sync.WaitGroup

	run := func(source string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				slog.Warn("quote refresh failed", "source", source, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", source, err))
				mu.Unlock()
			}
		}()
	}

	run("crypto", func(ctx context.Context) error { return s.refreshCrypto(ctx, assetIDs) })
	run("equity", func(ctx context.Context) error { return s.refreshEquities(ctx, tickers) })
	run("fx", s.refreshFX)

	wg.Wait()
	return errors.Join(errs...)
}

func (s *Service) refreshCrypto(ctx context.Context, assetIDs []string) error {
	quotes, err := s.crypto.FetchQuotes(ctx, assetIDs)
	if err != nil {
		return fmt.Errorf("fetching crypto quotes: %w", err)
	}
	if err := s.repo.SaveCryptoQuotes(ctx, quotes); err != nil {
		return err
	}
	if err := s.cache.SetCryptoQuotes(ctx, quotes); err != nil {
		slog.Warn("caching crypto quotes failed", "error", err)
	}
	slog.Info("crypto quotes refreshed", "count", len(quotes))
	return nil
}

func (s *Service) refreshEquities(ctx context.Context, tickers []string) error {
	quotes, err := s.equity.FetchQuotes(ctx, tickers)
	if err != nil {
		return fmt.Errorf("fetching equity quotes: %w", err)
	}
	if err := s.repo.SaveEquityQuotes(ctx, quotes); err != nil {
		return err
	}
	if err := s.cache.SetEquityQuotes(ctx, quotes); err != nil {
		slog.Warn("caching equity quotes failed", "error", err)
	}
	slog.Info("equity quotes refreshed", "count", len(quotes))
	return nil
}

func (s *Service) refreshFX(ctx context.Context) error {
	rates, err := s.fx.FetchRates(ctx, s.primary)
	if err != nil {
		return fmt.Errorf("fetching fx rates: %w", err)
	}
	change, err := s.fx.FetchPairChange(ctx, domain.CurrencyEUR, domain.CurrencyUSD)
	if err != nil {
		return fmt.Errorf("fetching EUR/USD change: %w", err)
	}

	if err := s.repo.SaveRates(ctx, s.primary, rates); err != nil {
		return err
	}
	if err := s.repo.SavePairChange(ctx, eurUsdPair, change); err != nil {
		return err
	}
	if err := s.cache.SetFX(ctx, FXData{Rates: rates, EURUSDChange24h: change}); err != nil {
		slog.Warn("caching fx rates failed", "error", err)
	}
	slog.Info("fx rates refreshed", "base", s.primary, "rates", len(rates))
	return nil
}

// Quotes returns the latest known market data. Each part is served from
// the cache when possible and from the database otherwise. Parts that
// were never fetched come back empty so a summary can still be computed,
// with warnings for the affected holdings.
func (s *Service) Quotes(ctx context.Context) (QuoteSet, error) {
	crypto, err := s.cache.GetCryptoQuotes(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("crypto quote cache read failed", "error", err)
		}
		crypto, err = s.repo.ListCryptoQuotes(ctx)
		if err != nil {
			return QuoteSet{}, fmt.Errorf("loading crypto quotes: %w", err)
		}
	}

	equity, err := s.cache.GetEquityQuotes(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("equity quote cache read failed", "error", err)
		}
		equity, err = s.repo.ListEquityQuotes(ctx)
		if err != nil {
			return QuoteSet{}, fmt.Errorf("loading equity quotes: %w", err)
		}
	}

	fx, err := s.cache.GetFX(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("fx cache read failed", "error", err)
		}
		rates, err := s.repo.GetRates(ctx, s.primary)
		if err != nil {
			return QuoteSet{}, fmt.Errorf("loading fx rates: %w", err)
		}
		change, err := s.repo.GetPairChange(ctx, eurUsdPair)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return QuoteSet{}, fmt.Errorf("loading EUR/USD change: %w", err)
			}
			change = decimal.Zero
		}
		fx = FXData{Rates: rates, EURUSDChange24h: change}
	}

	return QuoteSet{
		Crypto:          crypto,
		Equity:          equity,
		Rates:           fx.Rates,
		EURUSDChange24h: fx.EURUSDChange24h,
	}, nil
}
