package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/snapshot"
)

// SnapshotService is the subset of the snapshot service the worker uses.
type SnapshotService interface {
	Generate(ctx context.Context, date time.Time) (domain.Snapshot, error)
	ByDate(ctx context.Context, date time.Time) (domain.Snapshot, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, snap domain.Snapshot) error
}

// SnapshotWorker makes sure every UTC day gets a snapshot. It checks on
// startup and then on every tick, generating only when the current day
// has none yet.
type SnapshotWorker struct {
	snapshots SnapshotService
	interval  time.Duration
	hook      AfterSnapshotHook // optional
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional
// post-generation hook.
func NewSnapshotWorker(snapshots SnapshotService, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		snapshots: snapshots,
		interval:  interval,
		hook:      hook,
	}
}

// utcDate returns the current date normalized to midnight UTC.
func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Run starts the snapshot worker loop. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: starting", "interval", w.interval)

	w.ensure(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SnapshotWorker: shutting down")
			return
		case <-ticker.C:
			w.ensure(ctx)
		}
	}
}

// ensure generates a snapshot for today unless one already exists.
func (w *SnapshotWorker) ensure(ctx context.Context) {
	day := utcDate()

	_, err := w.snapshots.ByDate(ctx, day)
	if err == nil {
		return
	}
	if !errors.Is(err, snapshot.ErrNotFound) {
		slog.Error("SnapshotWorker: checking today's snapshot failed", "error", err)
		return
	}

	snap, err := w.snapshots.Generate(ctx, day)
	if err != nil {
		slog.Error("SnapshotWorker: generation failed", "error", err)
		return
	}
	slog.Info("SnapshotWorker: generation completed", "date", day.Format("2006-01-02"))
	w.runHook(ctx, snap)
}

// runHook calls the post-generation hook if one is configured.
func (w *SnapshotWorker) runHook(ctx context.Context, snap domain.Snapshot) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, snap); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed")
	}
}
