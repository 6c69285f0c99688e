package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentStore interface {
	Insert(ctx context.Context, payment *models.Payment) error
	Find(ctx context.Context, filter bson.M) ([]models.Payment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Payment, error)
	Report(ctx context.Context, pipeline mongo.Pipeline) ([]models.SalesLine, error)
}

type mongoPaymentStore struct {
	coll *mongo.Collection
}

func NewPaymentStore(db *mongo.Database) PaymentStore {
	return &mongoPaymentStore{coll: db.Collection(PaymentsCollection)}
}

func (s *mongoPaymentStore) Insert(ctx context.Context, payment *models.Payment) error {
	if _, err := s.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *mongoPaymentStore) Find(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	payments, err := findAll[models.Payment](ctx, s.coll, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	for i := range payments {
		payments[i].UpgradeLegacy()
	}
	return payments, nil
}

func (s *mongoPaymentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	if err := findOne(ctx, s.coll, bson.M{"_id": id}, &payment); err != nil {
		return nil, err
	}
	payment.UpgradeLegacy()
	return &payment, nil
}

// MarkPaid moves a pending payment to paid. It returns ErrNotFound when no
// pending payment has that id, which includes payments that are already paid.
func (s *mongoPaymentStore) MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Payment, error) {
	filter := bson.M{"_id": id, "status": models.PaymentPending}
	update := bson.M{"$set": bson.M{"status": models.PaymentPaid, "paidAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payment models.Payment
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark payment paid: %w", err)
	}
	payment.UpgradeLegacy()
	return &payment, nil
}

func (s *mongoPaymentStore) Report(ctx context.Context, pipeline mongo.Pipeline) ([]models.SalesLine, error) {
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}
	defer cursor.Close(ctx)

	lines := make([]models.SalesLine, 0)
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return lines, nil
}
