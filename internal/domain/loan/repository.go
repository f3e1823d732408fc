package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Get(ctx context.Context, id string) (*Loan, error)
	// GetByRequestID finds the loan spawned by a credit request disbursement,
	// used to keep disbursement retry-safe.
	GetByRequestID(ctx context.Context, requestID string) (*Loan, error)
	List(ctx context.Context, status Status) ([]Loan, error)

	// Save persists the full document only if the stored version still equals
	// l.Version, then bumps it. A missed match on an existing document returns
	// ErrVersionConflict.
	Save(ctx context.Context, l *Loan) error
}
