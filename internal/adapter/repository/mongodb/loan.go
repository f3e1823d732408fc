package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	loanDomain "kahawa-backend/internal/domain/loan"
)

const loansCollection = "loans"

type LoanRepository struct{ c *mongo.Collection }

func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{c: db.Collection(loansCollection)}
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	if _, err := r.c.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("loans insert: %w", err)
	}
	return nil
}

func (r *LoanRepository) Get(ctx context.Context, id string) (*loanDomain.Loan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *LoanRepository) GetByRequestID(ctx context.Context, requestID string) (*loanDomain.Loan, error) {
	return r.findOne(ctx, bson.M{"requestId": requestID})
}

func (r *LoanRepository) findOne(ctx context.Context, filter bson.M) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.c.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loans get: %w", err)
	}
	return &out, nil
}

func (r *LoanRepository) List(ctx context.Context, status loanDomain.Status) ([]loanDomain.Loan, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("loans list: %w", err)
	}
	var out []loanDomain.Loan
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("loans decode: %w", err)
	}
	return out, nil
}

// Save replaces the document only while the stored version matches the one
// the caller read, then bumps it. Concurrent writers from other processes
// lose the race and get ErrVersionConflict to retry on a fresh read.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": l.ID, "version": l.Version},
		bson.M{
			"$set": bson.M{
				"status":          l.Status,
				"payments":        l.Payments,
				"amountPaid":      l.AmountPaid,
				"remainingAmount": l.RemainingAmount,
				"repaidAt":        l.RepaidAt,
				"startDate":       l.StartDate,
				"updatedAt":       l.UpdatedAt,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("loans save: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.c.CountDocuments(ctx, bson.M{"_id": l.ID})
		if err != nil {
			return fmt.Errorf("loans save: %w", err)
		}
		if n == 0 {
			return loanDomain.ErrNotFound
		}
		return loanDomain.ErrVersionConflict
	}
	l.Version++
	return nil
}

// Watch streams loan snapshots as they change; the store pushes the full
// post-image on every update.
func (r *LoanRepository) Watch(ctx context.Context) (<-chan loanDomain.Loan, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := r.c.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, fmt.Errorf("loans watch: %w", err)
	}

	out := make(chan loanDomain.Loan)
	go func() {
		defer close(out)
		defer cs.Close(context.Background())
		for cs.Next(ctx) {
			var ev struct {
				FullDocument loanDomain.Loan `bson:"fullDocument"`
			}
			if err := cs.Decode(&ev); err != nil {
				continue
			}
			select {
			case out <- ev.FullDocument:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
