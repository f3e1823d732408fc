package loan

import (
	"errors"
	"math"
	"time"
)

var (
	ErrNotFound             = errors.New("loan not found")
	ErrNotActive            = errors.New("loan is not active")
	ErrInvalidTransition    = errors.New("invalid loan transition")
	ErrInvalidPaymentAmount = errors.New("payment amount must be a positive number")
	ErrOverpayment          = errors.New("payment exceeds remaining amount")
	ErrVersionConflict      = errors.New("loan was modified concurrently")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

func (s Status) Terminal() bool {
	return s == StatusRepaid || s == StatusDefaulted
}

// Payment entries are append-only; none is ever edited or removed.
type Payment struct {
	Amount     float64   `bson:"amount" json:"amount"`
	Date       time.Time `bson:"date" json:"date"`
	RecordedBy string    `bson:"recordedBy" json:"recorded_by"`
}

type Loan struct {
	ID         string `bson:"_id" json:"id"`
	RequestID  string `bson:"requestId,omitempty" json:"request_id,omitempty"`
	FarmerID   string `bson:"farmerId" json:"farmer_id"`
	FarmerName string `bson:"farmerName" json:"farmer_name"`
	OrgName    string `bson:"organizationName" json:"organization_name"`
	// Amount is the principal, fixed at creation.
	Amount          float64    `bson:"amount" json:"amount"`
	InterestRate    float64    `bson:"interestRate" json:"interest_rate"`
	StartDate       time.Time  `bson:"startDate" json:"start_date"`
	DueDate         time.Time  `bson:"dueDate" json:"due_date"`
	Status          Status     `bson:"status" json:"status"`
	Payments        []Payment  `bson:"payments" json:"payments"`
	AmountPaid      float64    `bson:"amountPaid" json:"amount_paid"`
	RemainingAmount float64    `bson:"remainingAmount" json:"remaining_amount"`
	RepaidAt        *time.Time `bson:"repaidAt,omitempty" json:"repaid_at,omitempty"`
	// Version backs the optimistic save; it never travels to clients.
	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// Recompute derives AmountPaid and RemainingAmount from the payment entries.
// AmountPaid may exceed the principal (overpayments are kept as recorded);
// RemainingAmount is floored at zero.
func (l *Loan) Recompute() {
	var paid float64
	for _, p := range l.Payments {
		paid += p.Amount
	}
	l.AmountPaid = paid
	l.RemainingAmount = math.Max(0, l.Amount-paid)
}

// Progress is the repayment percentage, capped at 100. Zero principal yields 0.
func Progress(l *Loan) int {
	if l == nil || l.Amount <= 0 {
		return 0
	}
	pct := int(math.Round(l.AmountPaid / l.Amount * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// ValidPaymentAmount rejects non-positive and non-finite amounts before any
// write happens.
func ValidPaymentAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
