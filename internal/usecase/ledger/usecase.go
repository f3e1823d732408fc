package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"kahawa-backend/internal/domain/loan"
)

// saveRetries bounds the optimistic-save loop; with the per-loan mutex in
// front, conflicts only come from other processes.
const saveRetries = 3

type Usecase struct {
	repo              loan.Repository
	rejectOverpayment bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUsecase(r loan.Repository, rejectOverpayment bool) *Usecase {
	return &Usecase{
		repo:              r,
		rejectOverpayment: rejectOverpayment,
		locks:             make(map[string]*sync.Mutex),
	}
}

// lockLoan serializes in-process writers per loan id so two concurrent
// payment submissions never both read the same stale balance.
func (u *Usecase) lockLoan(id string) func() {
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

// forgetLoan drops the lock entry once the loan is terminal so the map does
// not grow with settled loans. A late writer that re-creates the entry fails
// its status guard before any write, and the version check still protects the
// store.
func (u *Usecase) forgetLoan(id string) {
	u.mu.Lock()
	delete(u.locks, id)
	u.mu.Unlock()
}

type RecordPaymentInput struct {
	LoanID     string
	Amount     float64
	RecordedBy string
}

type LoanDTO struct {
	ID              string         `json:"id"`
	RequestID       string         `json:"request_id,omitempty"`
	FarmerID        string         `json:"farmer_id"`
	FarmerName      string         `json:"farmer_name"`
	OrgName         string         `json:"organization_name"`
	Amount          float64        `json:"amount"`
	InterestRate    float64        `json:"interest_rate"`
	StartDate       time.Time      `json:"start_date"`
	DueDate         time.Time      `json:"due_date"`
	Status          string         `json:"status"`
	Payments        []loan.Payment `json:"payments"`
	AmountPaid      float64        `json:"amount_paid"`
	RemainingAmount float64        `json:"remaining_amount"`
	Progress        int            `json:"progress"`
	RepaidAt        *time.Time     `json:"repaid_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		ID:              l.ID,
		RequestID:       l.RequestID,
		FarmerID:        l.FarmerID,
		FarmerName:      l.FarmerName,
		OrgName:         l.OrgName,
		Amount:          l.Amount,
		InterestRate:    l.InterestRate,
		StartDate:       l.StartDate,
		DueDate:         l.DueDate,
		Status:          string(l.Status),
		Payments:        l.Payments,
		AmountPaid:      l.AmountPaid,
		RemainingAmount: l.RemainingAmount,
		Progress:        loan.Progress(l),
		RepaidAt:        l.RepaidAt,
		CreatedAt:       l.CreatedAt,
	}
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, status loan.Status) ([]LoanDTO, error) {
	ls, err := u.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

// RecordPayment appends one payment entry and recomputes the balance. The
// loan flips to repaid the moment the remaining amount reaches zero.
// Overpayments are accepted unless the usecase was configured to reject them;
// the recorded amountPaid may then exceed the principal, with only the
// remaining amount floored at zero.
func (u *Usecase) RecordPayment(ctx context.Context, in RecordPaymentInput) (*LoanDTO, error) {
	if !loan.ValidPaymentAmount(in.Amount) {
		return nil, loan.ErrInvalidPaymentAmount
	}

	unlock := u.lockLoan(in.LoanID)
	defer unlock()

	dto, err := u.mutate(ctx, in.LoanID, func(l *loan.Loan) error {
		if l.Status != loan.StatusActive {
			return loan.ErrNotActive
		}
		if u.rejectOverpayment && in.Amount > l.RemainingAmount {
			return loan.ErrOverpayment
		}
		now := time.Now().UTC()
		l.Payments = append(l.Payments, loan.Payment{
			Amount:     in.Amount,
			Date:       now,
			RecordedBy: in.RecordedBy,
		})
		l.Recompute()
		if l.RemainingAmount <= 0 {
			l.Status = loan.StatusRepaid
			l.RepaidAt = &now
		}
		return nil
	})
	if err == nil && loan.Status(dto.Status).Terminal() {
		u.forgetLoan(in.LoanID)
	}
	return dto, err
}

// Activate moves a pending loan into active (disbursement of a loan record
// that was created ahead of time).
func (u *Usecase) Activate(ctx context.Context, loanID string) (*LoanDTO, error) {
	unlock := u.lockLoan(loanID)
	defer unlock()

	return u.mutate(ctx, loanID, func(l *loan.Loan) error {
		if l.Status != loan.StatusPending {
			return loan.ErrInvalidTransition
		}
		l.Status = loan.StatusActive
		if l.StartDate.IsZero() {
			l.StartDate = time.Now().UTC()
		}
		return nil
	})
}

// MarkRepaid is the admin override: the loan is settled regardless of the
// recorded payment history. Valid only from active.
func (u *Usecase) MarkRepaid(ctx context.Context, loanID string) (*LoanDTO, error) {
	unlock := u.lockLoan(loanID)
	defer unlock()

	dto, err := u.mutate(ctx, loanID, func(l *loan.Loan) error {
		if l.Status != loan.StatusActive {
			return loan.ErrInvalidTransition
		}
		now := time.Now().UTC()
		l.Status = loan.StatusRepaid
		l.AmountPaid = l.Amount
		l.RemainingAmount = 0
		l.RepaidAt = &now
		return nil
	})
	if err == nil {
		u.forgetLoan(loanID)
	}
	return dto, err
}

// MarkDefaulted is terminal; valid only from active.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID string) (*LoanDTO, error) {
	unlock := u.lockLoan(loanID)
	defer unlock()

	dto, err := u.mutate(ctx, loanID, func(l *loan.Loan) error {
		if l.Status != loan.StatusActive {
			return loan.ErrInvalidTransition
		}
		l.Status = loan.StatusDefaulted
		return nil
	})
	if err == nil {
		u.forgetLoan(loanID)
	}
	return dto, err
}

// mutate runs a read-apply-save cycle with a bounded retry on version
// conflicts. apply sees a fresh copy on every attempt, so validation errors
// are detected before any write and no partial state is persisted.
func (u *Usecase) mutate(ctx context.Context, loanID string, apply func(*loan.Loan) error) (*LoanDTO, error) {
	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		l, err := u.repo.Get(ctx, loanID)
		if err != nil {
			return nil, err
		}
		if err := apply(l); err != nil {
			return nil, err
		}
		l.UpdatedAt = time.Now().UTC()
		if err := u.repo.Save(ctx, l); err != nil {
			if errors.Is(err, loan.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return toDTO(l), nil
	}
	return nil, lastErr
}
