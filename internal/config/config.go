package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables, optionally seeded from a dotenv file.
type Config struct {
	DatabaseURL     string `env:"DATABASE_URL"`
	RedisURL        string `env:"REDIS_URL"`
	Port            string `env:"PORT" envDefault:"8080"`
	AdminAPIKey     string `env:"ADMIN_API_KEY" envDefault:""`
	PrimaryCurrency string `env:"PRIMARY_CURRENCY" envDefault:"EUR"`

	Providers Providers
	Workers   Workers
	Cache     Cache
	Export    Export
}

type Providers struct {
	CoinGeckoURL       string        `env:"COINGECKO_URL" envDefault:"https://api.coingecko.com/api/v3"`
	CoinGeckoDelay     time.Duration `env:"COINGECKO_DELAY" envDefault:"6s"`
	CoinGeckoRetryMax  int           `env:"COINGECKO_RETRY_MAX" envDefault:"5"`
	GatewayURL         string        `env:"QUOTE_GATEWAY_URL"`
	GatewayAPIKey      string        `env:"QUOTE_GATEWAY_API_KEY"`
	GatewayTimeout     time.Duration `env:"QUOTE_GATEWAY_TIMEOUT" envDefault:"30s"`
	FrankfurterURL     string        `env:"FRANKFURTER_URL" envDefault:"https://api.frankfurter.dev"`
	FrankfurterTimeout time.Duration `env:"FRANKFURTER_TIMEOUT" envDefault:"30s"`
}

type Workers struct {
	QuoteRefreshInterval  time.Duration `env:"QUOTE_REFRESH_INTERVAL" envDefault:"15m"`
	SnapshotCheckInterval time.Duration `env:"SNAPSHOT_CHECK_INTERVAL" envDefault:"1h"`
}

type Cache struct {
	QuoteTTL time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"15m"`
}

// Export settings are optional. A writer is wired only when its
// destination is configured.
type Export struct {
	SheetsCredentialsJSON string `env:"SHEETS_CREDENTIALS_JSON" envDefault:""`
	SheetsSpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID" envDefault:""`
	XLSXOutputDir         string `env:"XLSX_OUTPUT_DIR" envDefault:""`
}

// Load reads configuration from the environment. Variables without a
// default are required. envFile, when non-empty, is loaded into the
// environment first; a missing file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	opts := env.Options{RequiredIfNoDef: true}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// MustLoad is Load that exits the process on error.
func MustLoad(envFile string) *Config {
	cfg, err := Load(envFile)
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}
	return cfg
}
