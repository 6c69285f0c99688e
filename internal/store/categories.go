package store

import (
	"context"
	"fmt"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CategoryStore interface {
	ListWithCounts(ctx context.Context) ([]models.Category, error)
	InsertIfAbsent(ctx context.Context, category *models.Category) (InsertOutcome, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoCategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) CategoryStore {
	return &mongoCategoryStore{coll: db.Collection(CategoriesCollection)}
}

// categoryCountPipeline joins each category with the products filed under its
// name and keeps only their number.
func categoryCountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         ProductsCollection,
			"localField":   "categoryName",
			"foreignField": "category",
			"as":           "products",
		}}},
		{{Key: "$addFields", Value: bson.M{"productCount": bson.M{"$size": "$products"}}}},
		{{Key: "$project", Value: bson.M{"products": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "categoryName", Value: 1}}}},
	}
}

func (s *mongoCategoryStore) ListWithCounts(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.coll.Aggregate(ctx, categoryCountPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

func (s *mongoCategoryStore) InsertIfAbsent(ctx context.Context, category *models.Category) (InsertOutcome, error) {
	return insertIfAbsent(ctx, s.coll, bson.M{"categoryName": category.CategoryName}, category)
}

func (s *mongoCategoryStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("update category: %w", ErrDuplicate)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoCategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
