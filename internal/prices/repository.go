package prices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// ErrNotFound indicates the requested market data was never stored.
var ErrNotFound = errors.New("market data not found")

// Repository defines persistent storage for the latest known quotes, so
// a cold cache can still serve market data.
type Repository interface {
	SaveCryptoQuotes(ctx context.Context, quotes map[string]domain.CryptoQuote) error
	ListCryptoQuotes(ctx context.Context) (map[string]domain.CryptoQuote, error)
	SaveEquityQuotes(ctx context.Context, quotes map[string]domain.EquityQuote) error
	ListEquityQuotes(ctx context.Context) (map[string]domain.EquityQuote, error)
	SaveRates(ctx context.Context, base domain.Currency, rates domain.RateTable) error
	GetRates(ctx context.Context, base domain.Currency) (domain.RateTable, error)
	SavePairChange(ctx context.Context, pair string, change decimal.Decimal) error
	GetPairChange(ctx context.Context, pair string) (decimal.Decimal, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL quote repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) SaveCryptoQuotes(ctx context.Context, quotes map[string]domain.CryptoQuote) error {
	for id, q := range quotes {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO crypto_quotes (asset_id, price_usd, price_eur, change_usd, change_eur, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (asset_id)
			 DO UPDATE SET price_usd = $2, price_eur = $3, change_usd = $4, change_eur = $5, updated_at = $6`,
			id, q.PriceUSD, q.PriceEUR, q.ChangeUSD, q.ChangeEUR, q.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upserting crypto quote %s: %w", id, err)
		}
	}
	return nil
}

func (r *PgRepository) ListCryptoQuotes(ctx context.Context) (map[string]domain.CryptoQuote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT asset_id, price_usd, price_eur, change_usd, change_eur, updated_at FROM crypto_quotes`)
	if err != nil {
		return nil, fmt.Errorf("listing crypto quotes: %w", err)
	}
	defer rows.Close()

	quotes := make(map[string]domain.CryptoQuote)
	for rows.Next() {
		var q domain.CryptoQuote
		if err := rows.Scan(&q.AssetID, &q.PriceUSD, &q.PriceEUR, &q.ChangeUSD, &q.ChangeEUR, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning crypto quote: %w", err)
		}
		quotes[q.AssetID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating crypto quotes: %w", err)
	}
	return quotes, nil
}

func (r *PgRepository) SaveEquityQuotes(ctx context.Context, quotes map[string]domain.EquityQuote) error {
	for ticker, q := range quotes {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO equity_quotes (ticker, currency, price, change_24h, updated_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (ticker)
			 DO UPDATE SET currency = $2, price = $3, change_24h = $4, updated_at = $5`,
			ticker, q.Currency, q.Price, q.Change24h, q.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upserting equity quote %s: %w", ticker, err)
		}
	}
	return nil
}

func (r *PgRepository) ListEquityQuotes(ctx context.Context) (map[string]domain.EquityQuote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ticker, currency, price, change_24h, updated_at FROM equity_quotes`)
	if err != nil {
		return nil, fmt.Errorf("listing equity quotes: %w", err)
	}
	defer rows.Close()

	quotes := make(map[string]domain.EquityQuote)
	for rows.Next() {
		var q domain.EquityQuote
		if err := rows.Scan(&q.Ticker, &q.Currency, &q.Price, &q.Change24h, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning equity quote: %w", err)
		}
		quotes[q.Ticker] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating equity quotes: %w", err)
	}
	return quotes, nil
}

func (r *PgRepository) SaveRates(ctx context.Context, base domain.Currency, rates domain.RateTable) error {
	for code, rate := range rates {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO fx_rates (base, code, rate, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (base, code)
			 DO UPDATE SET rate = $3, updated_at = now()`,
			base, code, rate)
		if err != nil {
			return fmt.Errorf("upserting fx rate %s/%s: %w", base, code, err)
		}
	}
	return nil
}

func (r *PgRepository) GetRates(ctx context.Context, base domain.Currency) (domain.RateTable, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, rate FROM fx_rates WHERE base = $1`, base)
	if err != nil {
		return nil, fmt.Errorf("listing fx rates: %w", err)
	}
	defer rows.Close()

	table := make(domain.RateTable)
	for rows.Next() {
		var code domain.Currency
		var rate decimal.Decimal
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("scanning fx rate: %w", err)
		}
		table[code] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fx rates: %w", err)
	}
	return table, nil
}

func (r *PgRepository) SavePairChange(ctx context.Context, pair string, change decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fx_pair_changes (pair, change_percent, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (pair)
		 DO UPDATE SET change_percent = $2, updated_at = now()`,
		pair, change)
	if err != nil {
		return fmt.Errorf("upserting pair change %s: %w", pair, err)
	}
	return nil
}

func (r *PgRepository) GetPairChange(ctx context.Context, pair string) (decimal.Decimal, error) {
	var change decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT change_percent FROM fx_pair_changes WHERE pair = $1`, pair).Scan(&change)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting pair change %s: %w", pair, err)
	}
	return change, nil
}
