package farmer

import "context"

type Repository interface {
	Create(ctx context.Context, f *Farmer) error
	Get(ctx context.Context, id string) (*Farmer, error)

	// SetOrganization rewrites only the organization subdocument; a single
	// atomic document write.
	SetOrganization(ctx context.Context, id string, m Membership) error

	// CountByOrganization is the authoritative farmer count for an org.
	CountByOrganization(ctx context.Context, orgID string) (int, error)
	ListByOrganization(ctx context.Context, orgID string) ([]Farmer, error)
}
