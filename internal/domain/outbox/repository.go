package outbox

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, adj *CounterAdjustment) error
	Delete(ctx context.Context, id uint64) error
	// ListStale returns rows older than the cutoff, oldest first.
	ListStale(ctx context.Context, olderThan time.Time) ([]CounterAdjustment, error)
}
