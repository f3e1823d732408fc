package creditrequest

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("credit request not found")
	ErrInvalidTransition = errors.New("invalid credit request transition")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusDisbursed Status = "disbursed"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusDisbursed
}

// CanTransition encodes the whole machine:
// pending → approved | rejected, approved → disbursed.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusDisbursed
	default:
		return false
	}
}

type CreditRequest struct {
	ID          string     `bson:"_id" json:"id"`
	FarmerID    string     `bson:"farmerId" json:"farmer_id"`
	FarmerName  string     `bson:"farmerName" json:"farmer_name"`
	OrgName     string     `bson:"organizationName" json:"organization_name"`
	Amount      float64    `bson:"amount" json:"amount"`
	Description string     `bson:"description" json:"description"`
	Status      Status     `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updated_at"`
	DecidedAt   *time.Time `bson:"decidedAt,omitempty" json:"decided_at,omitempty"`
}
