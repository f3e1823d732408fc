package creditrequest

import "context"

type Repository interface {
	Create(ctx context.Context, r *CreditRequest) error
	Get(ctx context.Context, id string) (*CreditRequest, error)
	List(ctx context.Context, status Status) ([]CreditRequest, error)

	// UpdateStatus transitions from → to in a single guarded document write:
	// the write matches only when the stored status still equals from.
	// Returns ErrInvalidTransition when the guard misses on an existing
	// document, ErrNotFound when there is no document at all.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}
