package orgmock

import (
	"context"

	domain "kahawa-backend/internal/domain/organization"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, o *domain.Organization) error
	GetFn                  func(ctx context.Context, typ domain.Type, id string) (*domain.Organization, error)
	DeleteFn               func(ctx context.Context, typ domain.Type, id string) error
	IncrementFarmerCountFn func(ctx context.Context, typ domain.Type, id string, delta int) error
	SetFarmerCountFn       func(ctx context.Context, typ domain.Type, id string, count int) error
}

func (m *Repo) Create(ctx context.Context, o *domain.Organization) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, o)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, typ domain.Type, id string) (*domain.Organization, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, typ, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Delete(ctx context.Context, typ domain.Type, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, typ, id)
	}
	return nil
}

func (m *Repo) IncrementFarmerCount(ctx context.Context, typ domain.Type, id string, delta int) error {
	if m.IncrementFarmerCountFn != nil {
		return m.IncrementFarmerCountFn(ctx, typ, id, delta)
	}
	return nil
}

func (m *Repo) SetFarmerCount(ctx context.Context, typ domain.Type, id string, count int) error {
	if m.SetFarmerCountFn != nil {
		return m.SetFarmerCountFn(ctx, typ, id, count)
	}
	return nil
}
