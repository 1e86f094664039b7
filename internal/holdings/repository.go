package holdings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/domain"
)

// ErrNotFound indicates that the requested holding was not found.
var ErrNotFound = errors.New("holding not found")

// Repository defines persistent storage for holdings of all three classes.
type Repository interface {
	ListCrypto(ctx context.Context) ([]domain.CryptoHolding, error)
	ListEquities(ctx context.Context) ([]domain.EquityHolding, error)
	ListCash(ctx context.Context) ([]domain.CashHolding, error)
	UpsertCrypto(ctx context.Context, h domain.CryptoHolding) (domain.CryptoHolding, error)
	UpsertEquity(ctx context.Context, h domain.EquityHolding) (domain.EquityHolding, error)
	UpsertCash(ctx context.Context, h domain.CashHolding) (domain.CashHolding, error)
	Delete(ctx context.Context, class domain.AssetClass, id int64) error
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL holdings repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) ListCrypto(ctx context.Context) ([]domain.CryptoHolding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, asset_id, ticker, name, subcategory, venue, quantity, apy, acquisition
		 FROM crypto_holdings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing crypto holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.CryptoHolding
	for rows.Next() {
		var h domain.CryptoHolding
		if err := rows.Scan(&h.ID, &h.AssetID, &h.Ticker, &h.Name, &h.Subcategory, &h.Venue, &h.Quantity, &h.APY, &h.Acquisition); err != nil {
			return nil, fmt.Errorf("scanning crypto holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating crypto holdings: %w", err)
	}
	return holdings, nil
}

func (r *PgRepository) ListEquities(ctx context.Context) ([]domain.EquityHolding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticker, name, category, subtype, tags, currency, venue, quantity, apy
		 FROM equity_holdings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing equity holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.EquityHolding
	for rows.Next() {
		var h domain.EquityHolding
		if err := rows.Scan(&h.ID, &h.Ticker, &h.Name, &h.Category, &h.Subtype, &h.Tags, &h.Currency, &h.Venue, &h.Quantity, &h.APY); err != nil {
			return nil, fmt.Errorf("scanning equity holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating equity holdings: %w", err)
	}
	return holdings, nil
}

func (r *PgRepository) ListCash(ctx context.Context) ([]domain.CashHolding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, label, kind, currency, amount, apy
		 FROM cash_holdings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing cash holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.CashHolding
	for rows.Next() {
		var h domain.CashHolding
		if err := rows.Scan(&h.ID, &h.Label, &h.Kind, &h.Currency, &h.Amount, &h.APY); err != nil {
			return nil, fmt.Errorf("scanning cash holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cash holdings: %w", err)
	}
	return holdings, nil
}

func (r *PgRepository) UpsertCrypto(ctx context.Context, h domain.CryptoHolding) (domain.CryptoHolding, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO crypto_holdings (asset_id, ticker, name, subcategory, venue, quantity, apy, acquisition)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (asset_id, venue)
		 DO UPDATE SET ticker = $2, name = $3, subcategory = $4, quantity = $6, apy = $7, acquisition = $8
		 RETURNING id`,
		h.AssetID, h.Ticker, h.Name, h.Subcategory, h.Venue, h.Quantity, h.APY, h.Acquisition).Scan(&h.ID)
	if err != nil {
		return domain.CryptoHolding{}, fmt.Errorf("upserting crypto holding %s: %w", h.AssetID, err)
	}
	return h, nil
}

func (r *PgRepository) UpsertEquity(ctx context.Context, h domain.EquityHolding) (domain.EquityHolding, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO equity_holdings (ticker, name, category, subtype, tags, currency, venue, quantity, apy)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (ticker, venue)
		 DO UPDATE SET name = $2, category = $3, subtype = $4, tags = $5, currency = $6, quantity = $8, apy = $9
		 RETURNING id`,
		h.Ticker, h.Name, h.Category, h.Subtype, h.Tags, h.Currency, h.Venue, h.Quantity, h.APY).Scan(&h.ID)
	if err != nil {
		return domain.EquityHolding{}, fmt.Errorf("upserting equity holding %s: %w", h.Ticker, err)
	}
	return h, nil
}

func (r *PgRepository) UpsertCash(ctx context.Context, h domain.CashHolding) (domain.CashHolding, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cash_holdings (label, kind, currency, amount, apy)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (label, kind)
		 DO UPDATE SET currency = $3, amount = $4, apy = $5
		 RETURNING id`,
		h.Label, h.Kind, h.Currency, h.Amount, h.APY).Scan(&h.ID)
	if err != nil {
		return domain.CashHolding{}, fmt.Errorf("upserting cash holding %s: %w", h.Label, err)
	}
	return h, nil
}

func (r *PgRepository) Delete(ctx context.Context, class domain.AssetClass, id int64) error {
	var table string
	switch class {
	case domain.AssetClassCrypto:
		table = "crypto_holdings"
	case domain.AssetClassStocks:
		table = "equity_holdings"
	case domain.AssetClassCash:
		table = "cash_holdings"
	default:
		return fmt.Errorf("unknown asset class %q", class)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting %s holding %d: %w", class, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
