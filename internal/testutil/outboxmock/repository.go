package outboxmock

import (
	"context"
	"time"

	domain "kahawa-backend/internal/domain/outbox"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	AppendFn    func(ctx context.Context, adj *domain.CounterAdjustment) error
	DeleteFn    func(ctx context.Context, id uint64) error
	ListStaleFn func(ctx context.Context, olderThan time.Time) ([]domain.CounterAdjustment, error)
}

func (m *Repo) Append(ctx context.Context, adj *domain.CounterAdjustment) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, adj)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) ListStale(ctx context.Context, olderThan time.Time) ([]domain.CounterAdjustment, error) {
	if m.ListStaleFn != nil {
		return m.ListStaleFn(ctx, olderThan)
	}
	return nil, nil
}
