package farmer

import (
	"errors"
	"time"

	"kahawa-backend/internal/domain/organization"
)

var ErrNotFound = errors.New("farmer not found")

// Membership is the farmer's back-reference to its organization. It is the
// only link between the two collections; organizations do not keep farmer id
// lists, so membership is recovered by filtering farmers on organization.id.
type Membership struct {
	Type organization.Type `bson:"type" json:"type"`
	ID   string            `bson:"id" json:"id"`
	Name string            `bson:"name" json:"name"`
}

func Independent() Membership {
	return Membership{Type: organization.TypeIndependent, ID: "", Name: ""}
}

func (m Membership) IsIndependent() bool {
	return m.Type == organization.TypeIndependent || m.ID == ""
}

type Farmer struct {
	ID           string     `bson:"_id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Phone        string     `bson:"phone" json:"phone"`
	Region       string     `bson:"region" json:"region"`
	Organization Membership `bson:"organization" json:"organization"`
	CreatedAt    time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updated_at"`
}
