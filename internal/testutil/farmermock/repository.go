package farmermock

import (
	"context"

	domain "kahawa-backend/internal/domain/farmer"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, f *domain.Farmer) error
	GetFn                 func(ctx context.Context, id string) (*domain.Farmer, error)
	SetOrganizationFn     func(ctx context.Context, id string, m domain.Membership) error
	CountByOrganizationFn func(ctx context.Context, orgID string) (int, error)
	ListByOrganizationFn  func(ctx context.Context, orgID string) ([]domain.Farmer, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.Farmer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, id string) (*domain.Farmer, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SetOrganization(ctx context.Context, id string, mem domain.Membership) error {
	if m.SetOrganizationFn != nil {
		return m.SetOrganizationFn(ctx, id, mem)
	}
	return nil
}

func (m *Repo) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	if m.CountByOrganizationFn != nil {
		return m.CountByOrganizationFn(ctx, orgID)
	}
	return 0, nil
}

func (m *Repo) ListByOrganization(ctx context.Context, orgID string) ([]domain.Farmer, error) {
	if m.ListByOrganizationFn != nil {
		return m.ListByOrganizationFn(ctx, orgID)
	}
	return nil, nil
}
