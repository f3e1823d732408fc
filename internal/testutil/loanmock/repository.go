package loanmock

import (
	"context"

	domain "kahawa-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, l *domain.Loan) error
	GetFn            func(ctx context.Context, id string) (*domain.Loan, error)
	GetByRequestIDFn func(ctx context.Context, requestID string) (*domain.Loan, error)
	ListFn           func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	SaveFn           func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.Loan, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, status)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
