package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	farmerDomain "kahawa-backend/internal/domain/farmer"
)

const farmersCollection = "farmers"

type FarmerRepository struct{ c *mongo.Collection }

func NewFarmerRepository(db *mongo.Database) *FarmerRepository {
	return &FarmerRepository{c: db.Collection(farmersCollection)}
}

func (r *FarmerRepository) Create(ctx context.Context, f *farmerDomain.Farmer) error {
	if _, err := r.c.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("farmers insert: %w", err)
	}
	return nil
}

func (r *FarmerRepository) Get(ctx context.Context, id string) (*farmerDomain.Farmer, error) {
	var out farmerDomain.Farmer
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, farmerDomain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("farmers get: %w", err)
	}
	return &out, nil
}

func (r *FarmerRepository) SetOrganization(ctx context.Context, id string, m farmerDomain.Membership) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"organization": m,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("farmers set organization: %w", err)
	}
	if res.MatchedCount == 0 {
		return farmerDomain.ErrNotFound
	}
	return nil
}

func (r *FarmerRepository) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"organization.id": orgID})
	if err != nil {
		return 0, fmt.Errorf("farmers count: %w", err)
	}
	return int(n), nil
}

func (r *FarmerRepository) ListByOrganization(ctx context.Context, orgID string) ([]farmerDomain.Farmer, error) {
	cur, err := r.c.Find(ctx, bson.M{"organization.id": orgID})
	if err != nil {
		return nil, fmt.Errorf("farmers list: %w", err)
	}
	var out []farmerDomain.Farmer
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("farmers decode: %w", err)
	}
	return out, nil
}
