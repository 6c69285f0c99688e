package services

import (
	"context"
	"fmt"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BannerService struct {
	banners store.BannerStore
	now     func() time.Time
}

func NewBannerService(banners store.BannerStore) *BannerService {
	return &BannerService{banners: banners, now: time.Now}
}

// Submit stores a seller's banner request as inactive until an admin
// approves it.
func (s *BannerService) Submit(ctx context.Context, sellerEmail string, b *models.Banner) (*models.Banner, error) {
	b.ID = primitive.NewObjectID()
	b.SellerEmail = sellerEmail
	b.Status = models.BannerInactive
	b.CreatedAt = s.now()

	outcome, err := s.banners.InsertIfAbsent(ctx, b)
	if err != nil {
		return nil, err
	}
	if outcome == store.AlreadyExists {
		return nil, fmt.Errorf("banner %w", ErrConflict)
	}
	return b, nil
}

func (s *BannerService) All(ctx context.Context) ([]models.Banner, error) {
	return s.banners.Find(ctx, bson.M{})
}

func (s *BannerService) Active(ctx context.Context) ([]models.Banner, error) {
	return s.banners.Find(ctx, bson.M{"status": models.BannerActive})
}

func (s *BannerService) BySeller(ctx context.Context, email string) ([]models.Banner, error) {
	return s.banners.Find(ctx, bson.M{"sellerEmail": email})
}

func (s *BannerService) SetStatus(ctx context.Context, id primitive.ObjectID, status models.BannerStatus) error {
	if status != models.BannerActive && status != models.BannerInactive {
		return fmt.Errorf("%w: banner status %q", ErrInvalidInput, status)
	}
	return s.banners.UpdateStatus(ctx, id, status)
}
