package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
)

// SummarySource computes the current portfolio summary.
type SummarySource interface {
	Summary(ctx context.Context) (domain.PortfolioSummary, error)
}

// Service generates and serves daily summary snapshots.
type Service struct {
	summaries SummarySource
	repo      Repository
}

// NewService creates a new snapshot service.
func NewService(summaries SummarySource, repo Repository) *Service {
	if summaries == nil {
		panic("snapshot.NewService: summaries is nil")
	}
	if repo == nil {
		panic("snapshot.NewService: repo is nil")
	}
	return &Service{summaries: summaries, repo: repo}
}

// Generate computes the current summary and stores it under the given
// date. Generating twice on one day replaces the earlier snapshot.
func (s *Service) Generate(ctx context.Context, date time.Time) (domain.Snapshot, error) {
	summary, err := s.summaries.Summary(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("computing summary: %w", err)
	}

	day := date.UTC().Truncate(24 * time.Hour)
	if err := s.repo.Save(ctx, day, summary); err != nil {
		return domain.Snapshot{}, fmt.Errorf("saving snapshot: %w", err)
	}

	slog.Info("snapshot saved",
		"date", day.Format("2006-01-02"),
		"total", summary.TotalValue,
		"warnings", len(summary.Warnings))
	return domain.Snapshot{Date: day, Summary: summary}, nil
}

// Latest returns the most recent snapshot.
func (s *Service) Latest(ctx context.Context) (domain.Snapshot, error) {
	return s.repo.GetLatest(ctx)
}

// ByDate returns the snapshot for the given day.
func (s *Service) ByDate(ctx context.Context, date time.Time) (domain.Snapshot, error) {
	return s.repo.GetByDate(ctx, date.UTC().Truncate(24*time.Hour))
}

// NearestBefore returns the newest snapshot taken on or before the given
// day.
func (s *Service) NearestBefore(ctx context.Context, date time.Time) (domain.Snapshot, error) {
	return s.repo.GetNearestBefore(ctx, date.UTC().Truncate(24*time.Hour))
}

// History returns up to limit snapshots, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	return s.repo.List(ctx, limit)
}
