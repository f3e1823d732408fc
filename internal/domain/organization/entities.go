package organization

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("organization not found")
	ErrInvalidType = errors.New("invalid organization type")
)

// Type discriminates the two organization collections. "independent" never
// names a stored organization; it only appears on a farmer's back-reference.
type Type string

const (
	TypeIndependent Type = "independent"
	TypeCooperative Type = "cooperative"
	TypeSacco       Type = "sacco"
)

func (t Type) Valid() bool {
	return t == TypeCooperative || t == TypeSacco
}

// Collection maps the type to its document-store collection name.
func (t Type) Collection() (string, error) {
	switch t {
	case TypeCooperative:
		return "cooperatives", nil
	case TypeSacco:
		return "saccos", nil
	default:
		return "", ErrInvalidType
	}
}

type Organization struct {
	ID     string `bson:"_id" json:"id"`
	Type   Type   `bson:"type" json:"type"`
	Name   string `bson:"name" json:"name"`
	Region string `bson:"region" json:"region"`
	// FarmerCount is a cached aggregate; the authoritative count is the number
	// of farmers whose organization.id equals ID. It may drift and is corrected
	// by reconciliation, never used as a constraint gate.
	FarmerCount int       `bson:"farmerCount" json:"farmer_count"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}
