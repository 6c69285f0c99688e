package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartStore interface {
	InsertIfAbsent(ctx context.Context, line *models.CartLine) (InsertOutcome, error)
	FindByEmail(ctx context.Context, email string) ([]models.CartLine, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CartLine, error)
	AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) (*models.CartLine, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

type mongoCartStore struct {
	coll *mongo.Collection
}

func NewCartStore(db *mongo.Database) CartStore {
	return &mongoCartStore{coll: db.Collection(CartsCollection)}
}

func (s *mongoCartStore) InsertIfAbsent(ctx context.Context, line *models.CartLine) (InsertOutcome, error) {
	return insertIfAbsent(ctx, s.coll, bson.M{"productId": line.ProductID, "email": line.Email}, line)
}

func (s *mongoCartStore) FindByEmail(ctx context.Context, email string) ([]models.CartLine, error) {
	return findAll[models.CartLine](ctx, s.coll, bson.M{"email": email}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *mongoCartStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CartLine, error) {
	var line models.CartLine
	if err := findOne(ctx, s.coll, bson.M{"_id": id}, &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// AdjustQuantity applies delta with $inc. A decrement that would take the
// quantity below 1 leaves the line unchanged.
func (s *mongoCartStore) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) (*models.CartLine, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": 1 - delta}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var line models.CartLine
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"quantity": delta}}, opts).Decode(&line)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s.FindByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("adjust cart quantity: %w", err)
	}
	return &line, nil
}

func (s *mongoCartStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoCartStore) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"email": email})
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.DeletedCount, nil
}
