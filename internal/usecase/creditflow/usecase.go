package creditflow

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"kahawa-backend/internal/domain/creditrequest"
	"kahawa-backend/internal/domain/farmer"
	"kahawa-backend/internal/domain/loan"
	"kahawa-backend/pkg/id"
)

type Usecase struct {
	requests creditrequest.Repository
	loans    loan.Repository
	farmers  farmer.Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUsecase(requests creditrequest.Repository, loans loan.Repository, farmers farmer.Repository) *Usecase {
	return &Usecase{
		requests: requests,
		loans:    loans,
		farmers:  farmers,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockRequest serializes in-process disbursements per request id so two
// concurrent submissions never both pass the loan dedupe lookup before either
// insert lands.
func (u *Usecase) lockRequest(id string) func() {
	u.mu.Lock()
	l, ok := u.locks[id]
	if !ok {
		l = &sync.Mutex{}
		u.locks[id] = l
	}
	u.mu.Unlock()
	l.Lock()
	return l.Unlock
}

type CreateInput struct {
	FarmerID    string
	Amount      float64
	Description string
}

type RequestDTO struct {
	ID          string     `json:"id"`
	FarmerID    string     `json:"farmer_id"`
	FarmerName  string     `json:"farmer_name"`
	OrgName     string     `json:"organization_name"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

func toDTO(r *creditrequest.CreditRequest) *RequestDTO {
	return &RequestDTO{
		ID:          r.ID,
		FarmerID:    r.FarmerID,
		FarmerName:  r.FarmerName,
		OrgName:     r.OrgName,
		Amount:      r.Amount,
		Description: r.Description,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		DecidedAt:   r.DecidedAt,
	}
}

// Create files a pending request, snapshotting the farmer's name and current
// organization name so the request stays readable after membership changes.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*RequestDTO, error) {
	if in.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	f, err := u.farmers.Get(ctx, in.FarmerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &creditrequest.CreditRequest{
		ID:          id.NewID32(),
		FarmerID:    f.ID,
		FarmerName:  f.Name,
		OrgName:     f.Organization.Name,
		Amount:      in.Amount,
		Description: in.Description,
		Status:      creditrequest.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	return toDTO(r), nil
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*RequestDTO, error) {
	r, err := u.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return toDTO(r), nil
}

func (u *Usecase) List(ctx context.Context, status creditrequest.Status) ([]RequestDTO, error) {
	rs, err := u.requests.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]RequestDTO, 0, len(rs))
	for i := range rs {
		out = append(out, *toDTO(&rs[i]))
	}
	return out, nil
}

// Approve is valid only from pending; the guard lives in the store write.
func (u *Usecase) Approve(ctx context.Context, requestID string) (*RequestDTO, error) {
	return u.transition(ctx, requestID, creditrequest.StatusPending, creditrequest.StatusApproved)
}

// Reject is valid only from pending and terminal.
func (u *Usecase) Reject(ctx context.Context, requestID string) (*RequestDTO, error) {
	return u.transition(ctx, requestID, creditrequest.StatusPending, creditrequest.StatusRejected)
}

func (u *Usecase) transition(ctx context.Context, requestID string, from, to creditrequest.Status) (*RequestDTO, error) {
	if err := u.requests.UpdateStatus(ctx, requestID, from, to); err != nil {
		return nil, err
	}
	return u.Get(ctx, requestID)
}

type DisburseInput struct {
	RequestID    string
	InterestRate float64
	TermMonths   int
}

// Disburse turns an approved request into an active loan and marks the
// request disbursed. The two writes are not atomic as a unit: the loan insert
// happens first, and a crash before the status write leaves an approved
// request whose retry finds the existing loan by request id instead of
// creating a second one. The per-request lock keeps concurrent submissions
// from racing past that dedupe lookup.
func (u *Usecase) Disburse(ctx context.Context, in DisburseInput) (*loan.Loan, error) {
	if in.TermMonths <= 0 {
		return nil, errors.New("term months must be positive")
	}

	unlock := u.lockRequest(in.RequestID)
	defer unlock()

	r, err := u.requests.Get(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(creditrequest.StatusDisbursed) {
		return nil, creditrequest.ErrInvalidTransition
	}

	l, err := u.loans.GetByRequestID(ctx, r.ID)
	switch {
	case err == nil:
		log.Printf("disburse %s: loan %s already exists, completing status write", r.ID, l.ID)
	case errors.Is(err, loan.ErrNotFound):
		now := time.Now().UTC()
		l = &loan.Loan{
			ID:              id.NewID32(),
			RequestID:       r.ID,
			FarmerID:        r.FarmerID,
			FarmerName:      r.FarmerName,
			OrgName:         r.OrgName,
			Amount:          r.Amount,
			InterestRate:    in.InterestRate,
			StartDate:       now,
			DueDate:         now.AddDate(0, in.TermMonths, 0),
			Status:          loan.StatusActive,
			Payments:        []loan.Payment{},
			AmountPaid:      0,
			RemainingAmount: r.Amount,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := u.loans.Create(ctx, l); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := u.requests.UpdateStatus(ctx, r.ID, creditrequest.StatusApproved, creditrequest.StatusDisbursed); err != nil {
		// The loan exists; surface the failure so the operator retries the
		// disbursement rather than reporting partial state as success.
		return nil, err
	}
	return l, nil
}
