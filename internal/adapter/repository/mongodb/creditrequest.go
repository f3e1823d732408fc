package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	requestDomain "kahawa-backend/internal/domain/creditrequest"
)

const creditRequestsCollection = "creditRequests"

type CreditRequestRepository struct{ c *mongo.Collection }

func NewCreditRequestRepository(db *mongo.Database) *CreditRequestRepository {
	return &CreditRequestRepository{c: db.Collection(creditRequestsCollection)}
}

func (r *CreditRequestRepository) Create(ctx context.Context, req *requestDomain.CreditRequest) error {
	if _, err := r.c.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("creditRequests insert: %w", err)
	}
	return nil
}

func (r *CreditRequestRepository) Get(ctx context.Context, id string) (*requestDomain.CreditRequest, error) {
	var out requestDomain.CreditRequest
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, requestDomain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("creditRequests get: %w", err)
	}
	return &out, nil
}

func (r *CreditRequestRepository) List(ctx context.Context, status requestDomain.Status) ([]requestDomain.CreditRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("creditRequests list: %w", err)
	}
	var out []requestDomain.CreditRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("creditRequests decode: %w", err)
	}
	return out, nil
}

// UpdateStatus is a guarded single-document write: the filter matches only
// while the stored status equals from, so a raced or repeated transition
// surfaces as ErrInvalidTransition instead of silently re-applying.
func (r *CreditRequestRepository) UpdateStatus(ctx context.Context, id string, from, to requestDomain.Status) error {
	now := time.Now().UTC()
	set := bson.M{"status": to, "updatedAt": now}
	if to != requestDomain.StatusPending {
		set["decidedAt"] = now
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("creditRequests update status: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("creditRequests update status: %w", err)
		}
		if n == 0 {
			return requestDomain.ErrNotFound
		}
		return requestDomain.ErrInvalidTransition
	}
	return nil
}
