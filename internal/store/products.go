package store

import (
	"context"
	"fmt"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductStore interface {
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	InsertIfAbsent(ctx context.Context, product *models.Product) (InsertOutcome, error)
}

type mongoProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) ProductStore {
	return &mongoProductStore{coll: db.Collection(ProductsCollection)}
}

func (s *mongoProductStore) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.coll, filter, opts...)
}

func (s *mongoProductStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *mongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := findOne(ctx, s.coll, bson.M{"_id": id}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *mongoProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return findAll[models.Product](ctx, s.coll, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *mongoProductStore) InsertIfAbsent(ctx context.Context, product *models.Product) (InsertOutcome, error) {
	key := bson.M{"itemName": product.ItemName, "shortDescription": product.ShortDescription}
	return insertIfAbsent(ctx, s.coll, key, product)
}
