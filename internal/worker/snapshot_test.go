package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/snapshot"
)

type mockSnapshotService struct {
	generateCount atomic.Int32
	haveToday     atomic.Bool
}

func (m *mockSnapshotService) Generate(_ context.Context, date time.Time) (domain.Snapshot, error) {
	m.generateCount.Add(1)
	m.haveToday.Store(true)
	return domain.Snapshot{Date: date}, nil
}

func (m *mockSnapshotService) ByDate(_ context.Context, date time.Time) (domain.Snapshot, error) {
	if m.haveToday.Load() {
		return domain.Snapshot{Date: date}, nil
	}
	return domain.Snapshot{}, snapshot.ErrNotFound
}

type mockHook struct {
	callCount atomic.Int32
}

func (m *mockHook) Export(_ context.Context, _ domain.Snapshot) error {
	m.callCount.Add(1)
	return nil
}

func TestSnapshotWorkerGeneratesOncePerDay(t *testing.T) {
	svc := &mockSnapshotService{}
	w := NewSnapshotWorker(svc, 30*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	// The first check generates, every later tick sees today's snapshot.
	if got := svc.generateCount.Load(); got != 1 {
		t.Errorf("generate count = %d, want 1", got)
	}
}

func TestSnapshotWorkerRunsHook(t *testing.T) {
	svc := &mockSnapshotService{}
	hook := &mockHook{}
	w := NewSnapshotWorker(svc, 30*time.Millisecond, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := hook.callCount.Load(); got != 1 {
		t.Errorf("hook call count = %d, want 1", got)
	}
}

func TestSnapshotWorkerSkipsWhenSnapshotExists(t *testing.T) {
	svc := &mockSnapshotService{}
	svc.haveToday.Store(true)
	w := NewSnapshotWorker(svc, 30*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := svc.generateCount.Load(); got != 0 {
		t.Errorf("generate count = %d, want 0", got)
	}
}
