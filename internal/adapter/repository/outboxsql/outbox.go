package outboxsql

import (
	"context"
	"time"

	"gorm.io/gorm"

	outboxDomain "kahawa-backend/internal/domain/outbox"
)

type OutboxRepository struct{ db *gorm.DB }

func NewOutboxRepository(db *gorm.DB) *OutboxRepository { return &OutboxRepository{db: db} }

func (r *OutboxRepository) Append(ctx context.Context, adj *outboxDomain.CounterAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

func (r *OutboxRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&outboxDomain.CounterAdjustment{}, id).Error
}

func (r *OutboxRepository) ListStale(ctx context.Context, olderThan time.Time) ([]outboxDomain.CounterAdjustment, error) {
	var out []outboxDomain.CounterAdjustment
	err := r.db.WithContext(ctx).
		Where("created_at < ?", olderThan).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
