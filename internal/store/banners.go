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

type BannerStore interface {
	InsertIfAbsent(ctx context.Context, banner *models.Banner) (InsertOutcome, error)
	Find(ctx context.Context, filter bson.M) ([]models.Banner, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BannerStatus) error
}

type mongoBannerStore struct {
	coll *mongo.Collection
}

func NewBannerStore(db *mongo.Database) BannerStore {
	return &mongoBannerStore{coll: db.Collection(BannersCollection)}
}

// InsertIfAbsent rejects a banner whose name or description is already taken.
func (s *mongoBannerStore) InsertIfAbsent(ctx context.Context, banner *models.Banner) (InsertOutcome, error) {
	key := bson.M{"$or": bson.A{
		bson.M{"bannerName": banner.BannerName},
		bson.M{"description": banner.Description},
	}}
	return insertIfAbsent(ctx, s.coll, key, banner)
}

func (s *mongoBannerStore) Find(ctx context.Context, filter bson.M) ([]models.Banner, error) {
	return findAll[models.Banner](ctx, s.coll, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (s *mongoBannerStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BannerStatus) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update banner status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
