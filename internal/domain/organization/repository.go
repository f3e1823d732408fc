package organization

import "context"

type Repository interface {
	Create(ctx context.Context, o *Organization) error
	Get(ctx context.Context, typ Type, id string) (*Organization, error)
	Delete(ctx context.Context, typ Type, id string) error

	// IncrementFarmerCount applies a store-native atomic increment to the
	// cached counter. A negative delta must never take the stored value below
	// zero; implementations skip the write instead.
	IncrementFarmerCount(ctx context.Context, typ Type, id string, delta int) error

	// SetFarmerCount overwrites the cached counter (reconciliation only).
	SetFarmerCount(ctx context.Context, typ Type, id string, count int) error
}
