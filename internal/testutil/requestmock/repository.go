package requestmock

import (
	"context"

	domain "kahawa-backend/internal/domain/creditrequest"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, r *domain.CreditRequest) error
	GetFn          func(ctx context.Context, id string) (*domain.CreditRequest, error)
	ListFn         func(ctx context.Context, status domain.Status) ([]domain.CreditRequest, error)
	UpdateStatusFn func(ctx context.Context, id string, from, to domain.Status) error
}

func (m *Repo) Create(ctx context.Context, r *domain.CreditRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, id string) (*domain.CreditRequest, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, status domain.Status) ([]domain.CreditRequest, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, status)
	}
	return nil, nil
}

func (m *Repo) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, from, to)
	}
	return nil
}
