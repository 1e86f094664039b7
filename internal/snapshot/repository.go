package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/domain"
)

// ErrNotFound indicates that no snapshot matched the query.
var ErrNotFound = errors.New("snapshot not found")

// Repository defines storage operations for daily summary snapshots.
type Repository interface {
	Save(ctx context.Context, date time.Time, summary domain.PortfolioSummary) error
	GetLatest(ctx context.Context) (domain.Snapshot, error)
	GetByDate(ctx context.Context, date time.Time) (domain.Snapshot, error)
	GetNearestBefore(ctx context.Context, date time.Time) (domain.Snapshot, error)
	List(ctx context.Context, limit int) ([]domain.Snapshot, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Save stores the summary under the given date. A second snapshot on the
// same day replaces the first.
func (r *PgRepository) Save(ctx context.Context, date time.Time, summary domain.PortfolioSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO summary_snapshots (snapshot_date, data)
		 VALUES ($1, $2::jsonb)
		 ON CONFLICT (snapshot_date)
		 DO UPDATE SET data = $2::jsonb`,
		date, data)
	if err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}

// GetLatest returns the most recent snapshot.
func (r *PgRepository) GetLatest(ctx context.Context) (domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT snapshot_date, data FROM summary_snapshots ORDER BY snapshot_date DESC LIMIT 1`)
	return scanSnapshot(row)
}

// GetByDate returns the snapshot for the given day, if any.
func (r *PgRepository) GetByDate(ctx context.Context, date time.Time) (domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT snapshot_date, data FROM summary_snapshots WHERE snapshot_date = $1`, date)
	return scanSnapshot(row)
}

// GetNearestBefore returns the newest snapshot taken on or before the
// given day.
func (r *PgRepository) GetNearestBefore(ctx context.Context, date time.Time) (domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT snapshot_date, data FROM summary_snapshots
		 WHERE snapshot_date <= $1 ORDER BY snapshot_date DESC LIMIT 1`, date)
	return scanSnapshot(row)
}

// List returns up to limit snapshots, newest first. A non-positive limit
// defaults to 30.
func (r *PgRepository) List(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT snapshot_date, data FROM summary_snapshots ORDER BY snapshot_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		var snap domain.Snapshot
		var data []byte
		if err := rows.Scan(&snap.Date, &data); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if err := json.Unmarshal(data, &snap.Summary); err != nil {
			return nil, fmt.Errorf("decoding snapshot %s: %w", snap.Date.Format("2006-01-02"), err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func scanSnapshot(row pgx.Row) (domain.Snapshot, error) {
	var snap domain.Snapshot
	var data []byte
	err := row.Scan(&snap.Date, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("scanning snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap.Summary); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", snap.Date.Format("2006-01-02"), err)
	}
	return snap, nil
}
