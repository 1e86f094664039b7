package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/moneta-app/moneta/internal/api"
	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/database"
	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/export"
	"github.com/moneta-app/moneta/internal/holdings"
	"github.com/moneta-app/moneta/internal/insight"
	"github.com/moneta-app/moneta/internal/portfolio"
	"github.com/moneta-app/moneta/internal/prices"
	"github.com/moneta-app/moneta/internal/snapshot"
	"github.com/moneta-app/moneta/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "moneta",
		Usage: "portfolio valuation and attribution service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Value: ".env", Usage: "dotenv file to load"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API and background workers",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "override the HTTP port"},
				},
				Action: runServe,
			},
			{
				Name:   "snapshot",
				Usage:  "refresh quotes, generate today's snapshot and print it",
				Action: runSnapshot,
			},
			{
				Name:   "export",
				Usage:  "build the report for the latest snapshot and write it to the configured destinations",
				Action: runExport,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// app bundles the services one command run needs.
type app struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	redis     *redis.Client
	holdings  *holdings.Service
	prices    *prices.Service
	portfolio *portfolio.Service
	snapshots *snapshot.Service
	exporter  *export.Service // nil when no export destination is configured
}

func wire(ctx context.Context, cfg *config.Config) (*app, error) {
	primary, err := domain.ParsePrimaryCurrency(cfg.PrimaryCurrency)
	if err != nil {
		return nil, fmt.Errorf("PRIMARY_CURRENCY: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)

	holdingsSvc := holdings.NewService(holdings.NewPgRepository(pool))

	coingecko := prices.NewCoinGeckoClient(cfg.Providers.CoinGeckoURL, cfg.Providers.CoinGeckoDelay, cfg.Providers.CoinGeckoRetryMax)
	gateway := prices.NewGatewayClient(cfg.Providers.GatewayURL, cfg.Providers.GatewayAPIKey, cfg.Providers.GatewayTimeout)
	frankfurter := prices.NewFrankfurterClient(cfg.Providers.FrankfurterURL, cfg.Providers.FrankfurterTimeout)
	quoteCache := prices.NewRedisCache(redisClient, cfg.Cache.QuoteTTL)
	pricesSvc := prices.NewService(holdingsSvc, coingecko, gateway, frankfurter, prices.NewPgRepository(pool), quoteCache, primary)

	portfolioSvc := portfolio.NewService(holdingsSvc, pricesSvc, insight.NewEngine(), primary)

	snapshotRepo := snapshot.NewPgRepository(pool)
	snapshotSvc := snapshot.NewService(portfolioSvc, snapshotRepo)

	var writers []export.ReportWriter
	if cfg.Export.XLSXOutputDir != "" {
		writers = append(writers, export.NewXLSXWriter(cfg.Export.XLSXOutputDir))
	}
	if cfg.Export.SheetsSpreadsheetID != "" && cfg.Export.SheetsCredentialsJSON != "" {
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.Export.SheetsSpreadsheetID, cfg.Export.SheetsCredentialsJSON)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating sheets writer: %w", err)
		}
		writers = append(writers, sheetsWriter)
	}
	var exporter *export.Service
	if len(writers) > 0 {
		exporter = export.NewService(snapshotRepo, writers...)
	}

	return &app{
		cfg:       cfg,
		pool:      pool,
		redis:     redisClient,
		holdings:  holdingsSvc,
		prices:    pricesSvc,
		portfolio: portfolioSvc,
		snapshots: snapshotSvc,
		exporter:  exporter,
	}, nil
}

func (a *app) close() {
	if err := a.redis.Close(); err != nil {
		slog.Warn("closing redis client failed", "error", err)
	}
	a.pool.Close()
}

func runServe(c *cli.Context) error {
	cfg := config.MustLoad(c.String("env"))
	if port := c.String("port"); port != "" {
		cfg.Port = port
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	a, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	quoteWorker := worker.NewQuoteWorker(a.prices, cfg.Workers.QuoteRefreshInterval)
	go quoteWorker.Run(ctx)

	var hook worker.AfterSnapshotHook
	if a.exporter != nil {
		hook = a.exporter
	}
	snapshotWorker := worker.NewSnapshotWorker(a.snapshots, cfg.Workers.SnapshotCheckInterval, hook)
	go snapshotWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, admin endpoints are unprotected")
	}

	handler := api.NewHandler(a.portfolio, a.holdings, a.snapshots, a.prices)
	srv := api.NewServer(cfg.Port, handler, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func runSnapshot(c *cli.Context) error {
	cfg := config.MustLoad(c.String("env"))

	a, err := wire(c.Context, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// fresh quotes first, a partial refresh still snapshots what is stored
	if err := a.prices.RefreshAll(c.Context); err != nil {
		slog.Warn("quote refresh incomplete", "error", err)
	}

	snap, err := a.snapshots.Generate(c.Context, time.Now())
	if err != nil {
		return fmt.Errorf("generating snapshot: %w", err)
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runExport(c *cli.Context) error {
	cfg := config.MustLoad(c.String("env"))

	a, err := wire(c.Context, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if a.exporter == nil {
		return errors.New("no export destination configured, set XLSX_OUTPUT_DIR or SHEETS_SPREADSHEET_ID")
	}

	snap, err := a.snapshots.Latest(c.Context)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return errors.New("no snapshots to export, run 'moneta snapshot' first")
		}
		return fmt.Errorf("loading latest snapshot: %w", err)
	}

	if err := a.exporter.Export(c.Context, snap); err != nil {
		return fmt.Errorf("exporting report: %w", err)
	}

	log.Println("Export complete")
	return nil
}
