package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	orgDomain "kahawa-backend/internal/domain/organization"
)

// OrganizationRepository spans the cooperatives and saccos collections; the
// type discriminator picks the collection per call.
type OrganizationRepository struct{ db *mongo.Database }

func NewOrganizationRepository(db *mongo.Database) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) coll(typ orgDomain.Type) (*mongo.Collection, error) {
	name, err := typ.Collection()
	if err != nil {
		return nil, err
	}
	return r.db.Collection(name), nil
}

func (r *OrganizationRepository) Create(ctx context.Context, o *orgDomain.Organization) error {
	c, err := r.coll(o.Type)
	if err != nil {
		return err
	}
	if _, err := c.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("organizations insert: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) Get(ctx context.Context, typ orgDomain.Type, id string) (*orgDomain.Organization, error) {
	c, err := r.coll(typ)
	if err != nil {
		return nil, err
	}
	var out orgDomain.Organization
	err = c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, orgDomain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("organizations get: %w", err)
	}
	return &out, nil
}

// Delete removes the organization document only. Member farmers keep their
// back-references; resolution treats them as orphaned.
func (r *OrganizationRepository) Delete(ctx context.Context, typ orgDomain.Type, id string) error {
	c, err := r.coll(typ)
	if err != nil {
		return err
	}
	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("organizations delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return orgDomain.ErrNotFound
	}
	return nil
}

// IncrementFarmerCount delegates the read-modify-write to the store's $inc so
// concurrent adjustments cannot lose updates. Decrements match only documents
// with a positive counter, keeping the stored value floored at zero.
func (r *OrganizationRepository) IncrementFarmerCount(ctx context.Context, typ orgDomain.Type, id string, delta int) error {
	c, err := r.coll(typ)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["farmerCount"] = bson.M{"$gt": 0}
	}
	res, err := c.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"farmerCount": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("organizations inc farmerCount: %w", err)
	}
	if res.MatchedCount == 0 {
		if delta < 0 {
			// Either the document is gone or the counter is already at zero;
			// a floored decrement is not an error.
			n, err := c.CountDocuments(ctx, bson.M{"_id": id})
			if err != nil {
				return fmt.Errorf("organizations inc farmerCount: %w", err)
			}
			if n > 0 {
				return nil
			}
		}
		return orgDomain.ErrNotFound
	}
	return nil
}

func (r *OrganizationRepository) SetFarmerCount(ctx context.Context, typ orgDomain.Type, id string, count int) error {
	c, err := r.coll(typ)
	if err != nil {
		return err
	}
	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"farmerCount": count,
		"updatedAt":   time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("organizations set farmerCount: %w", err)
	}
	if res.MatchedCount == 0 {
		return orgDomain.ErrNotFound
	}
	return nil
}
