package worker

import (
	"context"
	"log/slog"
	"time"
)

// Refresher defines the interface for refreshing market data.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// QuoteWorker periodically refreshes quotes from the providers.
type QuoteWorker struct {
	refresher Refresher
	interval  time.Duration
}

// NewQuoteWorker creates a new QuoteWorker.
func NewQuoteWorker(refresher Refresher, interval time.Duration) *QuoteWorker {
	return &QuoteWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Run starts the quote worker loop. It blocks until the context is cancelled.
func (w *QuoteWorker) Run(ctx context.Context) {
	slog.Info("QuoteWorker: starting", "interval", w.interval)

	// Refresh immediately on startup
	if err := w.refresher.RefreshAll(ctx); err != nil {
		slog.Error("QuoteWorker: initial refresh failed", "error", err)
	} else {
		slog.Info("QuoteWorker: initial refresh completed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("QuoteWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.refresher.RefreshAll(ctx); err != nil {
				slog.Error("QuoteWorker: refresh failed", "error", err)
			} else {
				slog.Info("QuoteWorker: refresh completed")
			}
		}
	}
}
