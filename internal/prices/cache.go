package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

const (
	cryptoQuotesKey = "quotes:crypto"
	equityQuotesKey = "quotes:equity"
	fxKey           = "quotes:fx"
)

// ErrCacheMiss indicates the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// FXData bundles the rate table with the modeled pair move.
type FXData struct {
	Rates           domain.RateTable `json:"rates"`
	EURUSDChange24h decimal.Decimal  `json:"eurUsdChange24h"`
}

// RedisCache keeps the latest quote sets in Redis between refreshes.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a new quote cache with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: client, ttl: ttl}
}

func (c *RedisCache) GetCryptoQuotes(ctx context.Context) (map[string]domain.CryptoQuote, error) {
	res, err := c.redis.Get(ctx, cryptoQuotesKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s from cache: %w", cryptoQuotesKey, err)
	}

	var quotes map[string]domain.CryptoQuote
	if err := json.Unmarshal([]byte(res), &quotes); err != nil {
		return nil, fmt.Errorf("decoding %s from cache: %w", cryptoQuotesKey, err)
	}
	return quotes, nil
}

func (c *RedisCache) SetCryptoQuotes(ctx context.Context, quotes map[string]domain.CryptoQuote) error {
	payload, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encoding %s for cache: %w", cryptoQuotesKey, err)
	}
	if err := c.redis.Set(ctx, cryptoQuotesKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s to cache: %w", cryptoQuotesKey, err)
	}
	return nil
}

func (c *RedisCache) GetEquityQuotes(ctx context.Context) (map[string]domain.EquityQuote, error) {
	res, err := c.redis.Get(ctx, equityQuotesKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s from cache: %w", equityQuotesKey, err)
	}

	var quotes map[string]domain.EquityQuote
	if err := json.Unmarshal([]byte(res), &quotes); err != nil {
		return nil, fmt.Errorf("decoding %s from cache: %w", equityQuotesKey, err)
	}
	return quotes, nil
}

func (c *RedisCache) SetEquityQuotes(ctx context.Context, quotes map[string]domain.EquityQuote) error {
	payload, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encoding %s for cache: %w", equityQuotesKey, err)
	}
	if err := c.redis.Set(ctx, equityQuotesKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s to cache: %w", equityQuotesKey, err)
	}
	return nil
}

func (c *RedisCache) GetFX(ctx context.Context) (FXData, error) {
	res, err := c.redis.Get(ctx, fxKey).Result()
	if errors.Is(err, redis.Nil) {
		return FXData{}, ErrCacheMiss
	}
	if err != nil {
		return FXData{}, fmt.Errorf("reading %s from cache: %w", fxKey, err)
	}

	var fx FXData
	if err := json.Unmarshal([]byte(res), &fx); err != nil {
		return FXData{}, fmt.Errorf("decoding %s from cache: %w", fxKey, err)
	}
	return fx, nil
}

func (c *RedisCache) SetFX(ctx context.Context, fx FXData) error {
	payload, err := json.Marshal(fx)
	if err != nil {
		return fmt.Errorf("encoding %s for cache: %w", fxKey, err)
	}
	if err := c.redis.Set(ctx, fxKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s to cache: %w", fxKey, err)
	}
	return nil
}
